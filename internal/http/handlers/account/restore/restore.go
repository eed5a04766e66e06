// Package restore реализует HTTP-обработчик восстановления удалённого аккаунта.
//
// Handler принимает JSON-запрос с причиной восстановления, валидирует её,
// вызывает движок жизненного цикла и возвращает обновлённое состояние аккаунта.
// Исчерпанный лимит восстановлений возвращается как конфликт.
package restore

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/account-lifecycle/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-lifecycle/internal/http/response"
	"github.com/magabrotheeeer/account-lifecycle/internal/lib/sl"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
)

// Handler управляет HTTP-запросами на восстановление аккаунта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики восстановления аккаунта.
type Service interface {
	Restore(ctx context.Context, actor string, accountID uuid.UUID, reason string) (*models.Account, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Восстановить удалённый аккаунт
// @Description Возвращает удалённый аккаунт в активный статус, если лимит восстановлений не исчерпан.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param id path string true "ID аккаунта (UUID)"
// @Param request body models.RestoreAccountRequest true "Причина восстановления"
// @Success 200 {object} map[string]any "Обновлённое состояние аккаунта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт не удалён или лимит восстановлений исчерпан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации причины"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/restore [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.restore"
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

	var req models.RestoreAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actor, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actor == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	acc, err := h.service.Restore(r.Context(), actor, accountID, req.Reason)
	if err != nil {
		status, body := response.LifecycleError(err)
		log.Error("failed to restore account", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to restore account",
		slog.String("account_id", accountID.String()),
		slog.Int("deletion_count", acc.DeletionCount))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account": acc,
	}))
}
