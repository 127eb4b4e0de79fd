package miningbackend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/minexcloud/mining-backend/internal/cache"
	"github.com/minexcloud/mining-backend/internal/config"
	libjwt "github.com/minexcloud/mining-backend/internal/lib/jwt"
	librabbitmq "github.com/minexcloud/mining-backend/internal/lib/rabbitmq"
	"github.com/minexcloud/mining-backend/internal/migrations"
	"github.com/minexcloud/mining-backend/internal/paymentprovider"
	"github.com/minexcloud/mining-backend/internal/rabbitmq"
	authservice "github.com/minexcloud/mining-backend/internal/services/auth"
	miningservice "github.com/minexcloud/mining-backend/internal/services/mining"
	payoutservice "github.com/minexcloud/mining-backend/internal/services/payout"
	statsservice "github.com/minexcloud/mining-backend/internal/services/stats"
	"github.com/minexcloud/mining-backend/internal/statschannel"
	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

// App агрегирует оба сервера и внешние соединения приложения.
type App struct {
	server      *http.Server
	statsServer *http.Server
	logger      *slog.Logger
	db          *repository.Storage
	cache       *cache.Cache
	rabbitConn  *amqp.Connection
}

// New инициализирует хранилище, кэш, брокер и строит оба сервера.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}
	publisher := librabbitmq.NewPublisher(rabbitCh, rabbitmq.ExchangeEvents)

	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.APIURL, cfg.APIKey)

	authService := authservice.New(db, jwtMaker, cfg.BcryptCost)
	miningService := miningservice.New(db, logger, cfg.MaxRewardAmount, cfg.UserShareRate)
	statsService := statsservice.New(db, cacheRedis, logger)
	payoutService := payoutservice.New(db, providerClient, publisher, logger, cfg.Currency)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, miningService, payoutService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	statsSrv := &http.Server{
		Addr:    cfg.AddressStats,
		Handler: statschannel.New(logger, statsService).Handler(),
	}

	return &App{
		server:      srv,
		statsServer: statsSrv,
		logger:      logger,
		db:          db,
		cache:       cacheRedis,
		rabbitConn:  rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и сервер канала статистики,
// останавливая оба по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()
	go func() {
		a.logger.Info("stats channel starting on", slog.String("address", a.statsServer.Addr))
		err := a.statsServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down servers gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if statsErr := a.statsServer.Shutdown(timeoutCtx); err == nil {
			err = statsErr
		}
		_ = a.db.DB.Close()
		_ = a.cache.Db.Close()
		_ = a.rabbitConn.Close()
		return err
	}
}
