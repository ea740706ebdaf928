package inmemory_test

import (
	"context"
	"fmt"
	"studyMate/internal/models/task"
	"studyMate/internal/repository"
	"studyMate/internal/repository/task/inmemory"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(title string) *task.Task {
	return &task.Task{
		UUID:     uuid.New(),
		Title:    title,
		Duration: 30,
		Type:     task.TypeStudy,
		Status:   task.StatusPending,
		Priority: task.PriorityMedium,
		Category: "General",
		Date:     task.StartOfDay(time.Now()),
	}
}

func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

func TestTaskStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Read chapter 3")
	require.NoError(t, storage.Create(ctx, created))

	got, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// Хранилище отдаёт копию
	got.Title = "changed"
	again, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Read chapter 3", again.Title)
}

func TestTaskStorage_GetByID_NotFound(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	got, err := storage.GetByID(context.Background(), uuid.New())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskStorage_ChangesOnlyThroughModify(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Essay")
	require.NoError(t, storage.Create(ctx, created))

	// Правка копии вызывающего не доходит до хранилища
	created.Title = "Essay draft"
	got, err := storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Essay", got.Title)

	_, err = storage.Modify(ctx, created.UUID, func(tk *task.Task) { tk.Title = "Essay draft" })
	require.NoError(t, err)
	got, err = storage.GetByID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Essay draft", got.Title)

	_, isUpdater := any(storage).(interface {
		Update(context.Context, *task.Task) error
	})
	assert.False(t, isUpdater, "целиковая перезапись в обход Modify не поддерживается")
}

func TestTaskStorage_Modify(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Lab report")
	require.NoError(t, storage.Create(ctx, created))

	updated, err := storage.Modify(ctx, created.UUID, func(tk *task.Task) {
		tk.StartTime = "10:00"
		tk.UUID = uuid.New()
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, created.UUID, updated.UUID, "id не должен меняться")

	_, err = storage.Modify(ctx, uuid.New(), func(*task.Task) {})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskStorage_ModifyAll(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	a, b := newTask("a"), newTask("b")
	b.Status = task.StatusCompleted
	require.NoError(t, storage.Create(ctx, a))
	require.NoError(t, storage.Create(ctx, b))

	changed, err := storage.ModifyAll(ctx, func(tk *task.Task) bool {
		if tk.Status == task.StatusCompleted {
			return false
		}
		tk.Priority = task.PriorityHigh
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.UUID}, changed)
}

func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("Delete me")
	require.NoError(t, storage.Create(ctx, created))

	deleted, err := storage.Delete(ctx, created.UUID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Повторное удаление не ошибка
	deleted, err = storage.Delete(ctx, created.UUID)
	require.NoError(t, err)
	assert.False(t, deleted)

	list, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskStorage_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		tk := newTask(fmt.Sprintf("task %d", i))
		ids = append(ids, tk.UUID)
		require.NoError(t, storage.Create(ctx, tk))
	}
	_, err := storage.Delete(ctx, ids[2])
	require.NoError(t, err)

	list, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, ids[0], list[0].UUID)
	assert.Equal(t, ids[1], list[1].UUID)
	assert.Equal(t, ids[3], list[2].UUID)
	assert.Equal(t, ids[4], list[3].UUID)
}

func TestTaskStorage_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	old := newTask("old")
	require.NoError(t, storage.Create(ctx, old))

	replacement := []*task.Task{newTask("x"), newTask("y")}
	require.NoError(t, storage.ReplaceAll(ctx, replacement))

	list, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "x", list[0].Title)
	assert.Equal(t, "y", list[1].Title)

	_, err = storage.GetByID(ctx, old.UUID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tk := newTask(fmt.Sprintf("concurrent %d", i))
			assert.NoError(t, storage.Create(ctx, tk))
			_, err := storage.List(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
