package services

// RestorationEvaluation — результат оценки политики восстановления.
type RestorationEvaluation struct {
	DeletionCount   int  `json:"deletion_count"`
	MaxRestorations int  `json:"max_restorations"`
	CanRestore      bool `json:"can_restore"`
	Remaining       int  `json:"remaining"`
}

// EvaluateRestorationPolicy — чистая функция политики восстановления.
// deletionCount берётся из журнала удалений (replay), а не из кэшированного
// счётчика на аккаунте, поэтому оценка устойчива к рассинхронизации хранилища.
func EvaluateRestorationPolicy(deletionCount, maxRestorations int) RestorationEvaluation {
	remaining := maxRestorations - deletionCount
	if remaining < 0 {
		remaining = 0
	}
	return RestorationEvaluation{
		DeletionCount:   deletionCount,
		MaxRestorations: maxRestorations,
		CanRestore:      deletionCount < maxRestorations,
		Remaining:       remaining,
	}
}
