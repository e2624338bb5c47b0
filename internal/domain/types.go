package domain

import (
	"encoding/json"
	"time"
)

// Message roles. The storage engine never interprets content, only roles
// recorded at append time.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn belonging to a session.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds a conversation: its metadata plus the full message list.
// LayoutMode and Config are presentation settings owned by the caller and
// stored verbatim.
type Session struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	LayoutMode         string          `json:"layout_mode,omitempty"`
	Config             json.RawMessage `json:"config,omitempty"`
	MessageCount       int             `json:"message_count"`
	LastMessagePreview string          `json:"last_message_preview,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Messages           []Message       `json:"messages,omitempty"`
}

// Summary returns the metadata-only view of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:                 s.ID,
		Title:              s.Title,
		LayoutMode:         s.LayoutMode,
		Config:             s.Config,
		MessageCount:       s.MessageCount,
		LastMessagePreview: s.LastMessagePreview,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// SessionSummary is a session's metadata without its messages. MessageCount
// and LastMessagePreview are cached derived fields; read paths repair them
// when they diverge from the message collection.
type SessionSummary struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	LayoutMode         string          `json:"layout_mode,omitempty"`
	Config             json.RawMessage `json:"config,omitempty"`
	MessageCount       int             `json:"message_count"`
	LastMessagePreview string          `json:"last_message_preview,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// StorageStats holds corpus-wide counters. EstimatedSizeBytes is a heuristic
// (message count times a configured average), not a byte-exact accounting.
type StorageStats struct {
	TotalSessions      int       `json:"total_sessions"`
	TotalMessages      int       `json:"total_messages"`
	EstimatedSizeBytes int64     `json:"estimated_size_bytes"`
	OldestSessionAt    time.Time `json:"oldest_session_at"`
	NewestSessionAt    time.Time `json:"newest_session_at"`
}
