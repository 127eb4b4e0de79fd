// Package mine реализует HTTP-обработчик операции майнинга.
//
// UID пользователя берётся из контекста, заполненного JWT middleware.
// Поле cryptoType принимается для совместимости с клиентами,
// но на расчёт вознаграждения не влияет.
package mine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/minexcloud/mining-backend/internal/http/middlewarectx"
	"github.com/minexcloud/mining-backend/internal/http/response"
	"github.com/minexcloud/mining-backend/internal/lib/sl"
	"github.com/minexcloud/mining-backend/internal/models"
	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

// Request — входные данные операции майнинга.
type Request struct {
	CryptoType string `json:"cryptoType"`
}

// Service описывает интерфейс бизнес-логики майнинга.
type Service interface {
	Mine(ctx context.Context, userUID string) (*models.RewardSplit, error)
}

// Handler обрабатывает HTTP-запросы майнинга.
type Handler struct {
	log           *slog.Logger
	miningService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, miningService Service) *Handler {
	return &Handler{
		log:           log,
		miningService: miningService,
	}
}

// ServeHTTP godoc
// @Summary Майнинг вознаграждения
// @Description Генерирует вознаграждение и зачисляет долю пользователя на баланс.
// @Tags Mining
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request false "Тип криптовалюты (не влияет на расчёт)"
// @Success 200 {object} models.RewardSplit "Доли вознаграждения"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует"
// @Failure 403 {object} response.ErrorResponse "Невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /minar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mining.mine"

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
	if r.Body != nil {
		// Тело опционально, некорректный JSON отклоняем явно.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
	}

	split, err := h.miningService.Mine(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Error("user not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("mining failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("mining completed", slog.String("user_uid", userUID),
		slog.Float64("user_share", split.UserShare))
	render.JSON(w, r, split)
}
