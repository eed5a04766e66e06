// Package schedule реализует HTTP-обработчик отложенного удаления аккаунта.
//
// Handler принимает JSON-запрос с причиной и датой удаления в формате RFC3339,
// валидирует их, вызывает движок жизненного цикла и возвращает обновлённое
// состояние аккаунта в JSON-формате.
package schedule

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

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

// Handler управляет HTTP-запросами на планирование удаления аккаунта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отложенного удаления.
type Service interface {
	ScheduleDeletion(ctx context.Context, actor string, accountID uuid.UUID, reason string, at time.Time, notify bool) (*models.Account, error)
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
// @Summary Запланировать удаление аккаунта
// @Description Планирует удаление активного аккаунта на будущую дату в пределах горизонта планирования.
// @Tags Accounts
// @Accept  json
// @Produce  json
// @Param id path string true "ID аккаунта (UUID)"
// @Param request body models.ScheduleDeletionRequest true "Причина и дата удаления"
// @Success 200 {object} map[string]any "Обновлённое состояние аккаунта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ID или дата"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 409 {object} response.ErrorResponse "Аккаунт не активен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /accounts/{id}/schedule [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.schedule"
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

	var req models.ScheduleDeletionRequest
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

	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		log.Error("invalid scheduled_for format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("scheduled_for must be a date in RFC3339 format"))
		return
	}

	actor, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || actor == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	acc, err := h.service.ScheduleDeletion(r.Context(), actor, accountID, req.Reason, scheduledFor, req.Notify)
	if err != nil {
		status, body := response.LifecycleError(err)
		log.Error("failed to schedule account deletion", sl.Err(err))
		w.WriteHeader(status)
		render.JSON(w, r, body)
		return
	}

	log.Info("success to schedule account deletion",
		slog.String("account_id", accountID.String()),
		slog.Time("scheduled_for", *acc.ScheduledDeletionAt))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"account": acc,
	}))
}
