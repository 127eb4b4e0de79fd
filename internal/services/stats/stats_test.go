package stats_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/minexcloud/mining-backend/internal/models"
	"github.com/minexcloud/mining-backend/internal/services/stats"
	"github.com/minexcloud/mining-backend/internal/storage/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// fakeCache простой кэш в памяти с интерфейсом SnapshotCache.
type fakeCache struct {
	data map[string]models.Stats
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]models.Stats{}}
}

func (c *fakeCache) Get(_ context.Context, key string, result any) (bool, error) {
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	*result.(*models.Stats) = v
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.data[key] = *value.(*models.Stats)
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Snapshot(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Balance: 5.0}, nil).Once()

	svc := stats.New(repo, nil, newNoopLogger())

	snapshot, err := svc.Snapshot(context.Background(), "uid-1")
	require.NoError(t, err)

	assert.InEpsilon(t, 5.0, snapshot.Mined, 1e-9)
	assert.InEpsilon(t, 0.5, snapshot.UserShare, 1e-9)
	assert.InEpsilon(t, 4.5, snapshot.OwnerShare, 1e-9)
	repo.AssertExpectations(t)
}

func TestService_Snapshot_UserNotFound(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUser", mock.Anything, "ghost").
		Return(nil, repository.ErrUserNotFound).Once()

	svc := stats.New(repo, nil, newNoopLogger())

	snapshot, err := svc.Snapshot(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, snapshot)
}

func TestService_Snapshot_UsesCache(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Balance: 5.0}, nil).Once()

	svc := stats.New(repo, newFakeCache(), newNoopLogger())

	first, err := svc.Snapshot(context.Background(), "uid-1")
	require.NoError(t, err)

	// Повторный запрос обслуживается из кэша, репозиторий больше не вызывается.
	second, err := svc.Snapshot(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "GetUser", 1)
}
