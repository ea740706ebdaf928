package inmemory

import (
	"context"
	"studyMate/internal/logger"
	"studyMate/internal/models/task"
	repo "studyMate/internal/repository"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskStorage хранит задачи в памяти процесса в порядке добавления.
// Наружу отдаются только копии, чтобы мутации шли через хранилище.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	logger.Debug("Repository: Хранилище задач доступно", zap.Int("tasks", len(s.ids)))
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.storage[taskToCreate.UUID]; !exists {
		s.ids = append(s.ids, taskToCreate.UUID)
	}
	s.storage[taskToCreate.UUID] = taskToCreate.Clone()
	return nil
}

// Modify применяет fn к задаче под одной блокировкой записи
func (s *TaskStorage) Modify(ctx context.Context, id uuid.UUID, fn func(*task.Task)) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	fn(existing)
	existing.UUID = id
	return existing.Clone(), nil
}

// ModifyAll применяет fn ко всем задачам и возвращает id изменённых
func (s *TaskStorage) ModifyAll(ctx context.Context, fn func(*task.Task) bool) ([]uuid.UUID, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var changed []uuid.UUID
	for _, id := range s.ids {
		t := s.storage[id]
		if fn(t) {
			t.UUID = id
			changed = append(changed, id)
		}
	}
	return changed, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// Delete идемпотентен: отсутствующий id не ошибка
func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return false, nil
	}
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return true, nil
}

func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

// ReplaceAll заменяет весь список задач (демо-расписание)
func (s *TaskStorage) ReplaceAll(ctx context.Context, tasks []*task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage = make(map[uuid.UUID]*task.Task, len(tasks))
	s.ids = make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := s.storage[t.UUID]; !dup {
			s.ids = append(s.ids, t.UUID)
		}
		s.storage[t.UUID] = t.Clone()
	}
	return nil
}
