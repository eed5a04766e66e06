// Package history реализует HTTP-обработчик чтения журнала удалений аккаунта.
package history

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
)

// Handler управляет HTTP-запросами на чтение журнала удалений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения журнала.
type Service interface {
	GetHistory(ctx context.Context, accountID uuid.UUID) ([]*models.DeletionHistoryEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить журнал удалений аккаунта
// @Description Возвращает записи журнала удалений и восстановлений, новые первыми.
// @Tags Accounts
// @Produce  json
// @Param id path string true "ID аккаунта (UUID)"
// @Success 200 {object} map[string]any "Записи журнала"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.history"
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

	entries, err := h.service.GetHistory(r.Context(), accountID)
	if err != nil {
		status, body := response.LifecycleError(err)
		log.Error("failed to read deletion history", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to read deletion history",
		slog.String("account_id", accountID.String()),
		slog.Int("entries", len(entries)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"history": entries,
	}))
}
