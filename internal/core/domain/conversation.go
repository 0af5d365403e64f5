package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

// Conversation roles.
const (
	// RoleUser marks a message written by the person asking.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced by the model.
	RoleAssistant Role = "assistant"
)

// IsUser returns true for user-authored messages, case-insensitively.
func (r Role) IsUser() bool {
	return strings.EqualFold(string(r), string(RoleUser))
}

// IsAssistant returns true for model-authored messages, case-insensitively.
func (r Role) IsAssistant() bool {
	return strings.EqualFold(string(r), string(RoleAssistant))
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is a single entry in a conversation. Immutable once appended to a
// session; identity is the message ID.
type Message struct {
	// ID uniquely identifies the message. Derived from role and timestamp
	// when not supplied; suppliers that can create several messages within
	// the same microsecond must provide their own ids.
	ID string

	// Role is the message author.
	Role Role

	// Content is the message text.
	Content string

	// Timestamp is when the message was created.
	Timestamp time.Time

	// Sources lists citations attached by the retrieval step, in rank order.
	Sources []string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// TokenCount is the token cost of the content, nil when not yet counted.
	TokenCount *int
}

// MessageOption configures optional Message fields at construction.
type MessageOption func(*Message)

// WithMessageID supplies an explicit message id, skipping derivation.
func WithMessageID(id string) MessageOption {
	return func(m *Message) {
		m.ID = id
	}
}

// WithMessageTimestamp overrides the creation timestamp.
func WithMessageTimestamp(t time.Time) MessageOption {
	return func(m *Message) {
		m.Timestamp = t
	}
}

// WithMessageSources attaches citation sources.
func WithMessageSources(sources []string) MessageOption {
	return func(m *Message) {
		m.Sources = sources
	}
}

// WithMessageMetadata sets the metadata map.
func WithMessageMetadata(metadata map[string]any) MessageOption {
	return func(m *Message) {
		m.Metadata = metadata
	}
}

// WithMessageTokenCount records the token cost of the content.
func WithMessageTokenCount(count int) MessageOption {
	return func(m *Message) {
		m.TokenCount = &count
	}
}

// FormatMessageID derives the legacy deterministic message id from role and
// timestamp at second plus microsecond resolution.
func FormatMessageID(role Role, t time.Time) string {
	return fmt.Sprintf("%s_%s_%06d", role, t.Format("20060102_150405"), t.Nanosecond()/1000)
}

// NewMessage builds a message. The timestamp defaults to now and the id is
// derived from role and timestamp when no option supplies one.
func NewMessage(role Role, content string, opts ...MessageOption) Message {
	m := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Sources:   []string{},
		Metadata:  map[string]any{},
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.Sources == nil {
		m.Sources = []string{}
	}
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	if m.ID == "" {
		m.ID = FormatMessageID(m.Role, m.Timestamp)
	}
	return m
}

// Record encodes the message as a key-value record.
func (m Message) Record() Record {
	var tokenCount any
	if m.TokenCount != nil {
		tokenCount = *m.TokenCount
	}
	return Record{
		"role":        m.Role.String(),
		"content":     m.Content,
		"timestamp":   formatTimestamp(m.Timestamp),
		"message_id":  m.ID,
		"sources":     m.Sources,
		"metadata":    m.Metadata,
		"token_count": tokenCount,
	}
}

// MessageFromRecord rebuilds a message from its record form. Records without
// a message id get one derived from role and timestamp, exactly as at
// construction time.
func MessageFromRecord(rec Record) (Message, error) {
	roleValue, err := stringField(rec, "role")
	if err != nil {
		return Message{}, err
	}
	content, err := stringField(rec, "content")
	if err != nil {
		return Message{}, err
	}
	timestamp, err := optionalTimestamp(rec, "timestamp", time.Now())
	if err != nil {
		return Message{}, err
	}
	id, err := optionalString(rec, "message_id", "")
	if err != nil {
		return Message{}, err
	}
	sources, err := stringSliceField(rec, "sources")
	if err != nil {
		return Message{}, err
	}
	metadata, err := metadataField(rec, "metadata")
	if err != nil {
		return Message{}, err
	}
	tokenCount, err := nullableInt(rec, "token_count")
	if err != nil {
		return Message{}, err
	}
	opts := []MessageOption{
		WithMessageTimestamp(timestamp),
		WithMessageSources(sources),
		WithMessageMetadata(metadata),
	}
	if id != "" {
		opts = append(opts, WithMessageID(id))
	}
	if tokenCount != nil {
		opts = append(opts, WithMessageTokenCount(*tokenCount))
	}
	return NewMessage(Role(roleValue), content, opts...), nil
}

// Session is an append-only conversation log. It bounds model context via
// RecentMessages rather than token-budget truncation; token ceilings are the
// caller's concern via TotalTokens.
type Session struct {
	// ID is the unique session key.
	ID string

	// Messages is the ordered, append-only message log.
	Messages []Message

	// CreatedAt is when the session started.
	CreatedAt time.Time

	// LastActivity is when a message was last appended. Never earlier than
	// CreatedAt.
	LastActivity time.Time

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any
}

// SessionOption configures optional Session fields at construction.
type SessionOption func(*Session)

// WithSessionMetadata sets the metadata map.
func WithSessionMetadata(metadata map[string]any) SessionOption {
	return func(s *Session) {
		s.Metadata = metadata
	}
}

// NewSession starts an empty session.
func NewSession(id string, opts ...SessionOption) *Session {
	now := time.Now()
	s := &Session{
		ID:           id,
		Messages:     []Message{},
		CreatedAt:    now,
		LastActivity: now,
		Metadata:     map[string]any{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	return s
}

// Append adds a message to the log and bumps the activity timestamp.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.LastActivity = time.Now()
}

// RecentMessages returns the last count messages in original order, or the
// full log when it holds count or fewer. A non-positive count returns the
// full log. The returned slice shares backing storage with the session and
// must be treated as read-only.
func (s *Session) RecentMessages(count int) []Message {
	if count <= 0 || len(s.Messages) <= count {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-count:]
}

// MessageCount returns the number of messages in the log.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// TotalTokens folds the token counts of all messages, treating uncounted
// messages as zero.
func (s *Session) TotalTokens() int {
	total := 0
	for i := range s.Messages {
		if s.Messages[i].TokenCount != nil {
			total += *s.Messages[i].TokenCount
		}
	}
	return total
}

// Record encodes the session and its messages as a key-value record. Message
// count and token total are included as redundant convenience fields;
// decoders recompute them.
func (s *Session) Record() Record {
	messages := make([]Record, len(s.Messages))
	for i := range s.Messages {
		messages[i] = s.Messages[i].Record()
	}
	return Record{
		"session_id":    s.ID,
		"messages":      messages,
		"created_at":    formatTimestamp(s.CreatedAt),
		"last_activity": formatTimestamp(s.LastActivity),
		"metadata":      s.Metadata,
		"message_count": s.MessageCount(),
		"total_tokens":  s.TotalTokens(),
	}
}

// SessionFromRecord rebuilds a session from its record form.
func SessionFromRecord(rec Record) (*Session, error) {
	id, err := stringField(rec, "session_id")
	if err != nil {
		return nil, err
	}
	messages, err := messagesField(rec, "messages")
	if err != nil {
		return nil, err
	}
	createdAt, err := optionalTimestamp(rec, "created_at", time.Now())
	if err != nil {
		return nil, err
	}
	lastActivity, err := optionalTimestamp(rec, "last_activity", time.Now())
	if err != nil {
		return nil, err
	}
	metadata, err := metadataField(rec, "metadata")
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:           id,
		Messages:     messages,
		CreatedAt:    createdAt,
		LastActivity: lastActivity,
		Metadata:     metadata,
	}, nil
}

// messagesField decodes the nested message list under key, or an empty list
// when absent or null.
func messagesField(rec Record, key string) ([]Message, error) {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return []Message{}, nil
	}
	var items []Record
	switch v := raw.(type) {
	case []Record:
		items = v
	case []map[string]any:
		items = make([]Record, len(v))
		for i := range v {
			items[i] = Record(v[i])
		}
	case []any:
		items = make([]Record, 0, len(v))
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s holds a non-record entry", ErrInvalidValue, key)
			}
			items = append(items, Record(m))
		}
	default:
		return nil, fmt.Errorf("%w: %s is not a list", ErrInvalidValue, key)
	}
	messages := make([]Message, 0, len(items))
	for _, item := range items {
		msg, err := MessageFromRecord(item)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
