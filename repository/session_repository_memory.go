package repository

import (
	"context"
	"sync"

	"smartsaver/domain"
)

// SessionRepositoryMemory is an in-memory implementation of SessionRepository.
// Sessions are kept encoded so callers never share slices with the store.
type SessionRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewSessionRepositoryMemory creates a new in-memory session repository.
func NewSessionRepositoryMemory() *SessionRepositoryMemory {
	return &SessionRepositoryMemory{
		data: make(map[string][]byte),
	}
}

func (r *SessionRepositoryMemory) Get(ctx context.Context, id string) (domain.AdvisorSession, bool, error) {
	r.mu.RLock()
	data, ok := r.data[id]
	r.mu.RUnlock()
	if !ok {
		return domain.AdvisorSession{}, false, nil
	}

	session, err := decodeSession(data)
	if err != nil {
		return domain.AdvisorSession{}, false, err
	}
	return session, true, nil
}

func (r *SessionRepositoryMemory) Save(ctx context.Context, session domain.AdvisorSession) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data[session.ID] = data
	r.mu.Unlock()
	return nil
}
