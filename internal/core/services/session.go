package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
	"github.com/docent-labs/docent-cli/internal/core/ports/driving"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages conversation sessions and their message logs.
type SessionService struct {
	sessionStore driven.SessionStore
	ids          driven.IDGenerator
	tokenCounter driven.TokenCounter
	memoryLimit  int
}

// NewSessionService creates a new session service.
// The tokenCounter parameter is optional (can be nil); without it token
// counts stay unset unless the caller supplies them.
func NewSessionService(
	sessionStore driven.SessionStore,
	ids driven.IDGenerator,
	tokenCounter driven.TokenCounter,
	settings domain.PipelineSettings,
) *SessionService {
	return &SessionService{
		sessionStore: sessionStore,
		ids:          ids,
		tokenCounter: tokenCounter,
		memoryLimit:  settings.MemoryLimit,
	}
}

// Start creates a new session with a generated id.
func (s *SessionService) Start(ctx context.Context, metadata map[string]any) (*domain.Session, error) {
	if s.sessionStore == nil || s.ids == nil {
		return nil, domain.ErrNotImplemented
	}
	session := domain.NewSession(s.ids.NewID(), domain.WithSessionMetadata(metadata))
	if err := s.sessionStore.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get retrieves a session by ID.
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	if s.sessionStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sessionStore.Get(ctx, id)
}

// List returns all sessions, most recently active first.
func (s *SessionService) List(ctx context.Context) ([]*domain.Session, error) {
	if s.sessionStore == nil {
		return nil, domain.ErrNotImplemented
	}
	sessions, err := s.sessionStore.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastActivity.After(sessions[j].LastActivity)
	})
	return sessions, nil
}

// AppendMessage appends a message to a session. The message gets a generated
// id unless the caller supplies one, and its token count is backfilled when
// a counter is wired.
func (s *SessionService) AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string, opts ...domain.MessageOption) (domain.Message, error) {
	if s.sessionStore == nil {
		return domain.Message{}, domain.ErrNotImplemented
	}
	if content == "" {
		return domain.Message{}, fmt.Errorf("%w: message content is empty", domain.ErrInvalidInput)
	}
	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		return domain.Message{}, err
	}

	// Generated id first so a caller-supplied id overrides it
	if s.ids != nil {
		opts = append([]domain.MessageOption{domain.WithMessageID(s.ids.NewID())}, opts...)
	}
	msg := domain.NewMessage(role, content, opts...)

	if msg.TokenCount == nil && s.tokenCounter != nil {
		count := s.tokenCounter.Count(msg.Content)
		msg.TokenCount = &count
	}

	session.Append(msg)
	if err := s.sessionStore.Save(ctx, session); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// Window returns the recent-message context window for a session, sized by
// the configured memory limit.
func (s *SessionService) Window(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if s.sessionStore == nil {
		return nil, domain.ErrNotImplemented
	}
	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.RecentMessages(s.memoryLimit), nil
}

// Remove deletes a session and its messages.
func (s *SessionService) Remove(ctx context.Context, id string) error {
	if s.sessionStore == nil {
		return domain.ErrNotImplemented
	}
	return s.sessionStore.Delete(ctx, id)
}
