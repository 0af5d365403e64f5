package driven

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// SessionStore persists conversation sessions with their message logs.
type SessionStore interface {
	// Save stores or updates a session, messages included.
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns all stored sessions.
	List(ctx context.Context) ([]*domain.Session, error)

	// Delete removes a session and its messages.
	Delete(ctx context.Context, id string) error
}
