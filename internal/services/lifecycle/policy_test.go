package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateRestorationPolicy(t *testing.T) {
	tests := []struct {
		name            string
		deletionCount   int
		maxRestorations int
		wantCanRestore  bool
		wantRemaining   int
	}{
		{
			name:            "ни одного удаления",
			deletionCount:   0,
			maxRestorations: 3,
			wantCanRestore:  true,
			wantRemaining:   3,
		},
		{
			name:            "последняя доступная попытка",
			deletionCount:   2,
			maxRestorations: 3,
			wantCanRestore:  true,
			wantRemaining:   1,
		},
		{
			name:            "лимит исчерпан ровно",
			deletionCount:   3,
			maxRestorations: 3,
			wantCanRestore:  false,
			wantRemaining:   0,
		},
		{
			name:            "удалений больше лимита",
			deletionCount:   5,
			maxRestorations: 3,
			wantCanRestore:  false,
			wantRemaining:   0,
		},
		{
			name:            "нулевой лимит запрещает восстановление",
			deletionCount:   0,
			maxRestorations: 0,
			wantCanRestore:  false,
			wantRemaining:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateRestorationPolicy(tt.deletionCount, tt.maxRestorations)
			assert.Equal(t, tt.wantCanRestore, got.CanRestore)
			assert.Equal(t, tt.wantRemaining, got.Remaining)
			assert.Equal(t, tt.deletionCount, got.DeletionCount)
			assert.Equal(t, tt.maxRestorations, got.MaxRestorations)
		})
	}
}
