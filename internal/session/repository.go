package session

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned when a session cannot be found by ID.
var ErrSessionNotFound = errors.New("session not found")

// Repository defines the interface for session persistence.
type Repository interface {
	// Save persists a session. Existing sessions are overwritten.
	Save(ctx context.Context, sess *Session) error

	// FindByID retrieves a session by its unique identifier.
	// Returns ErrSessionNotFound if the session does not exist.
	FindByID(ctx context.Context, id string) (*Session, error)

	// Update loads a session, applies fn to it and persists the result
	// atomically with respect to other Update calls on the same store.
	// If fn returns an error, nothing is persisted and the error is
	// returned. Returns the updated session.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)

	// List returns all sessions.
	List(ctx context.Context) ([]*Session, error)

	// Delete removes a session.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id string) error
}
