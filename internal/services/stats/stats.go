// Package stats отдаёт снимки статистики пользователя, производные от баланса.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minexcloud/mining-backend/internal/lib/sl"
	"github.com/minexcloud/mining-backend/internal/models"
)

// Срок жизни кэшированного снимка. Короткий, чтобы канал статистики
// отражал недавние начисления без обращения к базе на каждый кадр.
const snapshotTTL = 2 * time.Second

// UserRepository описывает контракт чтения пользователя.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SnapshotCache описывает контракт кэша снимков.
type SnapshotCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service собирает снимок статистики по текущему балансу пользователя.
type Service struct {
	repo  UserRepository
	cache SnapshotCache
	log   *slog.Logger
}

// New создает новый экземпляр Service. Кэш опционален.
func New(repo UserRepository, cache SnapshotCache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Snapshot возвращает статистику пользователя: весь намайненный баланс
// и его разбивку на доли пользователя и оператора.
func (s *Service) Snapshot(ctx context.Context, userUID string) (*models.Stats, error) {
	const op = "stats.Snapshot"

	cacheKey := "stats:" + userUID
	if s.cache != nil {
		var cached models.Stats
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			// Недоступный кэш не должен ломать канал статистики.
			s.log.Warn("stats cache read failed", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	snapshot := &models.Stats{
		Mined:      user.Balance,
		UserShare:  user.Balance * 0.1,
		OwnerShare: user.Balance * 0.9,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, snapshot, snapshotTTL); err != nil {
			s.log.Warn("stats cache write failed", sl.Err(err))
		}
	}
	return snapshot, nil
}
