package mining

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

type BalanceRepoMock struct {
	mock.Mock
}

func (m *BalanceRepoMock) AddToBalance(ctx context.Context, userUID string, amount float64) (float64, error) {
	args := m.Called(ctx, userUID, amount)
	return args.Get(0).(float64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Mine_SplitsReward(t *testing.T) {
	repo := new(BalanceRepoMock)
	svc := New(repo, newNoopLogger(), 0.01, 0.1)
	svc.randFloat = func() float64 { return 0.5 } // выборка 0.005

	repo.On("AddToBalance", mock.Anything, "uid-1", mock.MatchedBy(func(amount float64) bool {
		return assert.InEpsilon(t, 0.0005, amount, 1e-12)
	})).Return(0.0005, nil).Once()

	split, err := svc.Mine(context.Background(), "uid-1")
	require.NoError(t, err)

	assert.InEpsilon(t, 0.0005, split.UserShare, 1e-12)
	assert.InEpsilon(t, 0.0045, split.OwnerShare, 1e-12)
	assert.InEpsilon(t, 0.005, split.UserShare+split.OwnerShare, 1e-12)
	repo.AssertExpectations(t)
}

func TestService_Mine_BoundsHold(t *testing.T) {
	repo := new(BalanceRepoMock)
	repo.On("AddToBalance", mock.Anything, "uid-1", mock.Anything).
		Return(0.0, nil)

	svc := New(repo, newNoopLogger(), 0.01, 0.1)

	for range 100 {
		split, err := svc.Mine(context.Background(), "uid-1")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, split.UserShare, 0.0)
		assert.Less(t, split.UserShare, 0.001)
		assert.GreaterOrEqual(t, split.OwnerShare, 0.0)
		assert.Less(t, split.OwnerShare, 0.009)
	}
}

func TestService_Mine_UserNotFound(t *testing.T) {
	repo := new(BalanceRepoMock)
	repo.On("AddToBalance", mock.Anything, "ghost", mock.Anything).
		Return(0.0, repository.ErrUserNotFound).Once()

	svc := New(repo, newNoopLogger(), 0.01, 0.1)

	split, err := svc.Mine(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, split)
	repo.AssertExpectations(t)
}
