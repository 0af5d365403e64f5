package driving

import (
	"context"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

// SessionService manages conversation sessions and their message logs.
type SessionService interface {
	// Start creates a new session with a generated id.
	Start(ctx context.Context, metadata map[string]any) (*domain.Session, error)

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns all stored sessions.
	List(ctx context.Context) ([]*domain.Session, error)

	// AppendMessage appends a message to a session, assigning a generated
	// message id and backfilling the token count when a counter is wired.
	AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string, opts ...domain.MessageOption) (domain.Message, error)

	// Window returns the recent-message context window for a session,
	// sized by the configured memory limit.
	Window(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Remove deletes a session and its messages.
	Remove(ctx context.Context, id string) error
}
