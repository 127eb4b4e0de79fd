package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/minexcloud/mining-backend/internal/models"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникального ограничения.
const uniqueViolation = "23505"

// RegisterUser сохраняет нового пользователя с нулевым балансом и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, password_hash, balance)
			  VALUES ($1, $2, 0)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, balance, wallet_address, created_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, password_hash, balance, wallet_address, created_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userUID), op)
}

// AddToBalance атомарно увеличивает баланс пользователя и возвращает новое значение.
// Инкремент выполняется одним UPDATE, поэтому параллельные начисления не теряются.
func (s *Storage) AddToBalance(ctx context.Context, userUID string, amount float64) (float64, error) {
	const op = "storage.AddToBalance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET balance = balance + $1
			  WHERE uid = $2
			  RETURNING balance`
	var newBalance float64
	if err := s.DB.QueryRowContext(ctx, query, amount, userUID).Scan(&newBalance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newBalance, nil
}

// DebitBalance атомарно списывает с баланса ровно выплаченную сумму.
// Начисление, пришедшее между чтением баланса и выплатой, остаётся на счёте.
func (s *Storage) DebitBalance(ctx context.Context, userUID string, amount float64) error {
	const op = "storage.DebitBalance"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET balance = balance - $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, amount, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// UpdateWalletAddress сохраняет адрес кошелька последней успешной выплаты.
func (s *Storage) UpdateWalletAddress(ctx context.Context, userUID, walletAddress string) error {
	const op = "storage.UpdateWalletAddress"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET wallet_address = $1
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, walletAddress, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var walletAddress sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &u.Balance,
		&walletAddress, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if walletAddress.Valid {
		u.WalletAddress = &walletAddress.String
	}
	return u, nil
}
