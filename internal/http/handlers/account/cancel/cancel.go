// Package cancel реализует HTTP-обработчик отмены запланированного удаления.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/response"
	"github.com/magabrotheeeer/account-lifecycle/internal/lib/sl"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

// Handler управляет HTTP-запросами на отмену запланированного удаления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены запланированного удаления.
type Service interface {
	CancelScheduledDeletion(ctx context.Context, actor string, accountID uuid.UUID) (*models.Account, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить запланированное удаление
// @Description Возвращает аккаунт в активный статус и очищает дату запланированного удаления.
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID аккаунта (UUID)"
// @Success 200 {object} map[string]any "Обновлённое состояние аккаунта"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 409 {object} response.ErrorResponse "Нет запланированного удаления"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/schedule [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.cancel"
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

	actor, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actor == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	acc, err := h.service.CancelScheduledDeletion(r.Context(), actor, accountID)
	if err != nil {
		status, body := response.LifecycleError(err)
		log.Error("failed to cancel scheduled deletion", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to cancel scheduled deletion", slog.String("account_id", accountID.String()))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account": acc,
	}))
}
