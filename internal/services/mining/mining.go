// Package mining содержит бизнес-логику генерации вознаграждения.
//
// Размер вознаграждения выбирается равномерно из [0, maxReward).
// Доля пользователя зачисляется на баланс атомарным инкрементом,
// доля оператора только возвращается в ответе и нигде не сохраняется.
package mining

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/minexcloud/mining-backend/internal/metrics"
	"github.com/minexcloud/mining-backend/internal/models"
)

// BalanceRepository описывает контракт атомарного начисления на баланс.
type BalanceRepository interface {
	AddToBalance(ctx context.Context, userUID string, amount float64) (float64, error)
}

// Service реализует операцию майнинга.
type Service struct {
	repo          BalanceRepository
	log           *slog.Logger
	maxReward     float64
	userShareRate float64
	randFloat     func() float64
}

// New создает новый экземпляр Service.
func New(repo BalanceRepository, log *slog.Logger, maxReward, userShareRate float64) *Service {
	return &Service{
		repo:          repo,
		log:           log,
		maxReward:     maxReward,
		userShareRate: userShareRate,
		randFloat:     rand.Float64,
	}
}

// Mine генерирует вознаграждение, зачисляет долю пользователя на баланс
// и возвращает обе доли. Сумма долей равна исходному вознаграждению.
func (s *Service) Mine(ctx context.Context, userUID string) (*models.RewardSplit, error) {
	const op = "mining.Mine"

	minedAmount := s.randFloat() * s.maxReward
	userShare := minedAmount * s.userShareRate
	ownerShare := minedAmount - userShare

	newBalance, err := s.repo.AddToBalance(ctx, userUID, userShare)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.MiningOpsTotal.Inc()
	metrics.MinedAmountTotal.Add(minedAmount)

	s.log.Info("reward credited",
		slog.String("user_uid", userUID),
		slog.Float64("user_share", userShare),
		slog.Float64("new_balance", newBalance))

	return &models.RewardSplit{
		UserShare:  userShare,
		OwnerShare: ownerShare,
	}, nil
}
