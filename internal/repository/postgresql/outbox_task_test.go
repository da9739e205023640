package postgresql_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/sirahabazaar/delivery/internal/db/mocks"
	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/repository/postgresql"
)

func TestOutboxTaskRepo_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an id and starts as created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		task := &repository.OutboxTask{
			Payload: json.RawMessage(`{"type":"order_ready"}`),
			Topic:   "delivery-events",
		}
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(),
			gomock.Eq(repository.TaskStatusCreated),
			gomock.Eq(task.Payload),
			gomock.Eq("delivery-events"),
			gomock.Any(),
			gomock.Any(),
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		require.NoError(t, repo.Create(ctx, mockTx, task))
		assert.NotEqual(t, uuid.Nil, task.ID)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(nil, expectedErr)

		err := repo.Create(ctx, mockDB, &repository.OutboxTask{Topic: "delivery-events"})
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestOutboxTaskRepo_GetProcessableTasks(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mock_database.NewMockTx(ctrl)
	repo := postgresql.NewOutboxTaskRepo()

	leaseExpired := changed.Add(-time.Minute)
	expected := []*repository.OutboxTask{
		{ID: uuid.New(), Status: repository.TaskStatusFailed, Attempts: 1},
		{ID: uuid.New(), Status: repository.TaskStatusProcessing},
	}
	mockTx.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Eq(repository.TaskStatusCreated),
		gomock.Eq(repository.TaskStatusFailed),
		gomock.Eq(5),
		gomock.Eq(10),
		gomock.Eq(repository.TaskStatusProcessing),
		gomock.Eq(leaseExpired),
	).DoAndReturn(func(_ context.Context, dest *[]*repository.OutboxTask, query string, _ ...interface{}) error {
		assert.Contains(t, query, "FOR UPDATE SKIP LOCKED")
		assert.Contains(t, query, "updated_at < $6")
		*dest = expected
		return nil
	})

	tasks, err := repo.GetProcessableTasks(ctx, mockTx, 10, 5, leaseExpired)
	require.NoError(t, err)
	assert.Equal(t, expected, tasks)
}

func TestOutboxTaskRepo_UpdateTaskStatus(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("done", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq(id), gomock.Eq(repository.TaskStatusDone), gomock.Eq(1), gomock.Nil(), gomock.Eq(&changed),
		).Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.UpdateTaskStatus(ctx, mockTx, id, repository.TaskStatusDone, 1, nil, &changed))
	})

	t.Run("unknown task", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewOutboxTaskRepo()

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		).Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTaskStatus(ctx, mockTx, id, repository.TaskStatusFailed, 2, nil, nil)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}
