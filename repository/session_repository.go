package repository

import (
	"context"
	"encoding/json"
	"errors"

	"smartsaver/domain"
)

var ErrEmptySessionID = errors.New("session id is empty")

// SessionRepository stores advisor conversations between requests.
type SessionRepository interface {
	Get(ctx context.Context, id string) (domain.AdvisorSession, bool, error)
	Save(ctx context.Context, session domain.AdvisorSession) error
}

func encodeSession(session domain.AdvisorSession) ([]byte, error) {
	if session.ID == "" {
		return nil, ErrEmptySessionID
	}
	return json.Marshal(session)
}

func decodeSession(data []byte) (domain.AdvisorSession, error) {
	var session domain.AdvisorSession
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.AdvisorSession{}, err
	}
	return session, nil
}
