// Package create реализует HTTP-обработчик выплаты накопленного баланса.
//
// По контракту процессор получает весь текущий баланс пользователя;
// при подтверждении транзакции баланс обнуляется.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/minexcloud/mining-backend/internal/http/middlewarectx"
	"github.com/minexcloud/mining-backend/internal/http/response"
	"github.com/minexcloud/mining-backend/internal/lib/sl"
	"github.com/minexcloud/mining-backend/internal/services/payout"
	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

// Request — входные данные для выплаты.
type Request struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
}

// Service описывает интерфейс бизнес-логики выплат.
type Service interface {
	Payout(ctx context.Context, userUID, walletAddress string) (float64, error)
}

// Handler обрабатывает HTTP-запросы выплат.
type Handler struct {
	log           *slog.Logger
	payoutService Service
	validate      *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, payoutService Service) *Handler {
	return &Handler{
		log:           log,
		payoutService: payoutService,
		validate:      validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вывод накопленного баланса
// @Description Переводит баланс пользователя на указанный кошелёк через платёжный процессор.
// @Tags Payout
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Адрес кошелька"
// @Success 200 {object} map[string]any "Выплата подтверждена"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует"
// @Failure 403 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Платёж не прошёл"
// @Router /pago [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payout.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid missing in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing authorization"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	amount, err := h.payoutService.Payout(r.Context(), userUID, req.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, payout.ErrPaymentRejected):
			log.Error("payment rejected", slog.String("user_uid", userUID))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]any{"message": "payment failed"})
		default:
			log.Error("payout failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]any{"message": "payment failed"})
		}
		return
	}

	log.Info("payout completed", slog.String("user_uid", userUID),
		slog.Float64("amount", amount))
	render.JSON(w, r, map[string]any{
		"message": "payment completed successfully",
	})
}
