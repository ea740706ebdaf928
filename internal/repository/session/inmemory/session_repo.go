package inmemory

import (
	"context"
	"studyMate/internal/models/focus"
	"sync"
	"time"
)

// SessionLog - журнал завершённых сессий, только добавление
type SessionLog struct {
	mtx      sync.RWMutex
	sessions []focus.Session
}

func NewSessionLog() *SessionLog {
	return &SessionLog{sessions: []focus.Session{}}
}

// Append возвращает число сессий до добавления
func (l *SessionLog) Append(ctx context.Context, session focus.Session) (int, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	before := len(l.sessions)
	l.sessions = append(l.sessions, session)
	return before, nil
}

func (l *SessionLog) List(ctx context.Context) ([]focus.Session, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	res := make([]focus.Session, len(l.sessions))
	copy(res, l.sessions)
	return res, nil
}

// Between отдаёт сессии с началом в [from, to)
func (l *SessionLog) Between(ctx context.Context, from, to time.Time) ([]focus.Session, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	var res []focus.Session
	for _, s := range l.sessions {
		if !s.StartTime.Before(from) && s.StartTime.Before(to) {
			res = append(res, s)
		}
	}
	return res, nil
}
