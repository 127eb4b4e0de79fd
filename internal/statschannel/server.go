// Package statschannel реализует канал статистики реального времени
// на отдельном слушателе. Клиент после подключения получает приветствие,
// затем на каждое сообщение {"userId": ...} сервер отвечает снимком
// статистики, производным от текущего баланса пользователя.
//
// Канал не аутентифицируется, совместимость с существующими клиентами.
package statschannel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/minexcloud/mining-backend/internal/lib/sl"
	"github.com/minexcloud/mining-backend/internal/metrics"
	"github.com/minexcloud/mining-backend/internal/models"
	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

// Подряд идущие некорректные кадры закрывают соединение.
const maxDecodeErrorsPerConn = 5

// Service описывает интерфейс получения снимка статистики.
type Service interface {
	Snapshot(ctx context.Context, userUID string) (*models.Stats, error)
}

// Greeting приветственное сообщение при подключении.
type Greeting struct {
	Message string `json:"message"`
}

// StatsRequest входящее сообщение клиента.
type StatsRequest struct {
	UserID string `json:"userId"`
}

// ErrorReply явный ответ об ошибке вместо молчаливого игнорирования.
type ErrorReply struct {
	Error string `json:"error"`
}

// Server обслуживает соединения канала статистики.
type Server struct {
	log   *slog.Logger
	stats Service
}

// New создает новый экземпляр Server.
func New(log *slog.Logger, stats Service) *Server {
	return &Server{
		log:   log,
		stats: stats,
	}
}

// Handler возвращает http.Handler с websocket-обработчиком канала статистики.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", websocket.Handler(s.handleConn))
	return mux
}

func (s *Server) handleConn(conn *websocket.Conn) {
	const op = "statschannel.handleConn"
	defer func() {
		_ = conn.Close()
	}()

	metrics.StatsConnectionsActive.Inc()
	defer metrics.StatsConnectionsActive.Dec()

	log := s.log.With(slog.String("op", op))

	if err := websocket.JSON.Send(conn, Greeting{Message: "Conectado al servidor de estadísticas"}); err != nil {
		log.Error("failed to send greeting", sl.Err(err))
		return
	}

	ctx := context.Background()
	if request := conn.Request(); request != nil {
		ctx = request.Context()
	}

	decodeErrors := 0
	for {
		// Кадр читается целиком, некорректный JSON не задевает следующий кадр.
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			return
		}

		var req StatsRequest
		if err := json.Unmarshal(frame, &req); err != nil {
			decodeErrors++
			_ = websocket.JSON.Send(conn, ErrorReply{Error: "invalid message"})
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		if req.UserID == "" {
			_ = websocket.JSON.Send(conn, ErrorReply{Error: "userId is required"})
			continue
		}

		snapshot, err := s.stats.Snapshot(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				_ = websocket.JSON.Send(conn, ErrorReply{Error: "user not found"})
				continue
			}
			log.Error("failed to build stats snapshot", sl.Err(err))
			_ = websocket.JSON.Send(conn, ErrorReply{Error: "internal error"})
			continue
		}

		if err := websocket.JSON.Send(conn, snapshot); err != nil {
			log.Error("failed to send stats reply", sl.Err(err))
			return
		}
	}
}
