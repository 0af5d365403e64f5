package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/docent-labs/docent-cli/internal/core/domain"
	"github.com/docent-labs/docent-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionsFile holds the conversation session collection. The name is fixed
// by the shared data directory contract, so the external pipeline finds it.
const SessionsFile = "conversations.json"

// SessionStore is a JSON-file-backed implementation of driven.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	filePath string
	sessions map[string]domain.Session
}

// NewSessionStore creates a session store persisting to conversations.json in
// dataDir.
func NewSessionStore(dataDir string) (*SessionStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &SessionStore{
		filePath: filepath.Join(dataDir, SessionsFile),
		sessions: make(map[string]domain.Session),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores or updates a session, messages included. The message log is
// copied so later appends on the caller's session do not alias stored state.
func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	stored.Messages = append([]domain.Message(nil), session.Messages...)
	s.sessions[session.ID] = stored
	return s.save()
}

// Get retrieves a session by ID.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	session.Messages = append([]domain.Message(nil), session.Messages...)
	return &session, nil
}

// List returns all stored sessions.
func (s *SessionStore) List(_ context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Session, 0, len(s.sessions))
	for id := range s.sessions {
		session := s.sessions[id]
		session.Messages = append([]domain.Message(nil), session.Messages...)
		result = append(result, &session)
	}
	return result, nil
}

// Delete removes a session and its messages.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return nil
	}
	delete(s.sessions, id)
	return s.save()
}

// load reads the collection from disk. A missing file leaves the store empty.
func (s *SessionStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	for _, rec := range records {
		session, err := domain.SessionFromRecord(rec)
		if err != nil {
			return fmt.Errorf("loading %s: %w", s.filePath, err)
		}
		s.sessions[session.ID] = *session
	}
	return nil
}

// save rewrites the collection sorted by session ID (caller must hold lock).
func (s *SessionStore) save() error {
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]domain.Record, len(ids))
	for i, id := range ids {
		session := s.sessions[id]
		records[i] = session.Record()
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

// Reload replaces in-memory state with the collection currently on disk.
// Long-lived processes call this after the external pipeline rewrites the
// file under them.
func (s *SessionStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]domain.Session)
	return s.load()
}

// Path returns the collection file path.
func (s *SessionStore) Path() string {
	return s.filePath
}
