// Package read реализует HTTP-обработчик чтения состояния аккаунта.
//
// Вместе с аккаунтом возвращается оценка политики восстановления,
// чтобы интерфейс администратора мог показать остаток попыток.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/http/response"
	"github.com/magabrotheeeer/account-lifecycle/internal/lib/sl"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
	services "github.com/magabrotheeeer/account-lifecycle/internal/services/lifecycle"
)

// Handler управляет HTTP-запросами на чтение аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения аккаунта.
type Service interface {
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	EvaluateRestoration(ctx context.Context, accountID uuid.UUID) (services.RestorationEvaluation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить аккаунт
// @Description Возвращает текущее состояние аккаунта и оценку политики восстановления.
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID аккаунта (UUID)"
// @Success 200 {object} map[string]any "Состояние аккаунта"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid account id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid account id"))
		return
	}

	acc, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		status, body := response.LifecycleError(err)
		log.Error("failed to read account", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	evaluation, err := h.service.EvaluateRestoration(r.Context(), accountID)
	if err != nil {
		status, body := response.LifecycleError(err)
		log.Error("failed to evaluate restoration policy", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to read account", slog.String("account_id", accountID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account":     acc,
		"restoration": evaluation,
	}))
}
