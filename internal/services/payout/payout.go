// Package payout содержит бизнес-логику вывода накопленного баланса
// через внешний платёжный процессор.
package payout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/minexcloud/mining-backend/internal/lib/sl"
	"github.com/minexcloud/mining-backend/internal/metrics"
	"github.com/minexcloud/mining-backend/internal/models"
	"github.com/minexcloud/mining-backend/internal/paymentprovider"
	"github.com/minexcloud/mining-backend/internal/rabbitmq"
)

// ErrPaymentRejected возвращается, когда процессор отклонил транзакцию.
var ErrPaymentRejected = errors.New("payment rejected by processor")

// UserRepository описывает контракт хранилища для операции выплаты.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	DebitBalance(ctx context.Context, userUID string, amount float64) error
	UpdateWalletAddress(ctx context.Context, userUID, walletAddress string) error
}

// ProviderClient описывает контракт клиента платёжного процессора.
type ProviderClient interface {
	CreateTransaction(ctx context.Context, req paymentprovider.CreateTransactionRequest) (*paymentprovider.CreateTransactionResponse, error)
}

// EventPublisher описывает контракт публикации доменных событий.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// CompletedEvent событие подтверждённой выплаты для внешних потребителей.
type CompletedEvent struct {
	UserUID       string    `json:"user_uid"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	WalletAddress string    `json:"wallet_address"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

// Service реализует операцию выплаты.
type Service struct {
	repo      UserRepository
	provider  ProviderClient
	publisher EventPublisher
	log       *slog.Logger
	currency  string
}

// New создает новый экземпляр Service. Publisher опционален.
func New(repo UserRepository, provider ProviderClient, publisher EventPublisher, log *slog.Logger, currency string) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		log:       log,
		currency:  currency,
	}
}

// Payout переводит текущий баланс пользователя на указанный кошелёк.
// Баланс списывается только после подтверждения процессора, причём ровно
// на выплаченную сумму: начисление, пришедшее во время выплаты, не теряется.
func (s *Service) Payout(ctx context.Context, userUID, walletAddress string) (float64, error) {
	const op = "payout.Payout"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	amount := user.Balance

	resp, err := s.provider.CreateTransaction(ctx, paymentprovider.CreateTransactionRequest{
		Amount:   amount,
		Currency: s.currency,
		Wallet:   walletAddress,
	})
	if err != nil {
		metrics.PayoutsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !resp.Success {
		metrics.PayoutsTotal.WithLabelValues("rejected").Inc()
		return 0, fmt.Errorf("%s: %w", op, ErrPaymentRejected)
	}

	if err := s.repo.DebitBalance(ctx, userUID, amount); err != nil {
		// Средства уже ушли, расхождение баланса требует ручного разбора.
		s.log.Error("failed to debit balance after confirmed payout",
			slog.String("user_uid", userUID), sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateWalletAddress(ctx, userUID, walletAddress); err != nil {
		s.log.Warn("failed to store payout wallet address", sl.Err(err))
	}

	metrics.PayoutsTotal.WithLabelValues("success").Inc()
	metrics.PayoutAmountTotal.Add(amount)

	if s.publisher != nil {
		event := CompletedEvent{
			UserUID:       userUID,
			Amount:        amount,
			Currency:      s.currency,
			WalletAddress: walletAddress,
			TransactionID: resp.TransactionID,
			CompletedAt:   time.Now().UTC(),
		}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyPayoutCompleted, event); err != nil {
			s.log.Warn("failed to publish payout event", sl.Err(err))
		}
	}

	s.log.Info("payout completed",
		slog.String("user_uid", userUID),
		slog.Float64("amount", amount))
	return amount, nil
}
