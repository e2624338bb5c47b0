package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ilikebug/ChatVortex/internal/domain"

	_ "modernc.org/sqlite"
)

// schemaVersion is the layout version this build understands, persisted in
// PRAGMA user_version. A database carrying a newer version is refused rather
// than silently rewritten.
const schemaVersion = 1

// SQLite is the primary store adapter: transactional, indexed, durable
// storage with two logical tables (sessions, messages).
type SQLite struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and prepares the
// schema. Any failure is reported as ErrUnavailable so the caller can
// degrade to the fallback tier.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, unavailable("open db", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("ping db", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewFromDB creates a SQLite store from an existing *sql.DB and prepares the
// schema. Useful for testing with an in-memory database.
func NewFromDB(db *sql.DB) (*SQLite, error) {
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return unavailable("read schema version", err)
	}
	if version > schemaVersion {
		return unavailable("schema version",
			fmt.Errorf("database uses layout v%d, this build understands v%d", version, schemaVersion))
	}

	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			layout_mode TEXT NOT NULL DEFAULT '',
			config TEXT NOT NULL DEFAULT '',
			message_count INTEGER NOT NULL DEFAULT 0,
			last_preview TEXT NOT NULL DEFAULT '',
			created_at_ns INTEGER NOT NULL,
			updated_at_ns INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			ts_ns INTEGER NOT NULL
		);
	`); err != nil {
		return unavailable("create tables", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at_ns DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at_ns);
		CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id);
		CREATE INDEX IF NOT EXISTS idx_messages_session_ts ON messages(session_id, ts_ns);
	`); err != nil {
		return unavailable("create indexes", err)
	}

	if version < schemaVersion {
		if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
			return unavailable("set schema version", err)
		}
	}
	return nil
}

// SaveSession upserts the session row and every one of its messages inside a
// single transaction. The cached message_count and last_preview columns are
// recomputed from the given message list before the write, so a committed
// row never carries a summary older than its messages.
func (s *SQLite) SaveSession(sess *domain.Session) error {
	count, preview := domain.RecomputeSummary(sess.Messages)

	tx, err := s.db.Begin()
	if err != nil {
		return unavailable("begin tx", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, title, layout_mode, config, message_count, last_preview, created_at_ns, updated_at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			layout_mode = excluded.layout_mode,
			config = excluded.config,
			message_count = excluded.message_count,
			last_preview = excluded.last_preview,
			updated_at_ns = MAX(sessions.updated_at_ns, excluded.updated_at_ns)`,
		sess.ID, sess.Title, sess.LayoutMode, string(sess.Config),
		count, preview,
		sess.CreatedAt.UnixNano(), sess.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return unavailable("upsert session", err)
	}

	for _, m := range sess.Messages {
		_, err = tx.Exec(
			`INSERT INTO messages (id, session_id, role, content, ts_ns)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
				session_id = excluded.session_id,
				role = excluded.role,
				content = excluded.content,
				ts_ns = excluded.ts_ns`,
			m.ID, sess.ID, m.Role, m.Content, m.Timestamp.UnixNano(),
		)
		if err != nil {
			return unavailable("upsert message", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// AllSummaries returns every session's metadata, most recently updated
// first. The messages table is never touched.
func (s *SQLite) AllSummaries() ([]domain.SessionSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, title, layout_mode, config, message_count, last_preview, created_at_ns, updated_at_ns
		 FROM sessions ORDER BY updated_at_ns DESC`)
	if err != nil {
		return nil, unavailable("query summaries", err)
	}
	defer rows.Close()

	var out []domain.SessionSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, unavailable("scan summary", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate summaries", err)
	}
	return out, nil
}

// GetSession returns the session joined with all its messages, ascending by
// timestamp. Returns ErrNotFound when the id is absent.
func (s *SQLite) GetSession(id string) (*domain.Session, error) {
	row := s.db.QueryRow(
		`SELECT id, title, layout_mode, config, message_count, last_preview, created_at_ns, updated_at_ns
		 FROM sessions WHERE id = ?`, id)
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("scan session", err)
	}

	rows, err := s.db.Query(
		`SELECT id, session_id, role, content, ts_ns
		 FROM messages WHERE session_id = ? ORDER BY ts_ns ASC, id ASC`, id)
	if err != nil {
		return nil, unavailable("query messages", err)
	}
	defer rows.Close()

	sess := sessionFromSummary(sum)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, unavailable("scan message", err)
		}
		sess.Messages = append(sess.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate messages", err)
	}
	return sess, nil
}

// MessagesPage returns up to limit messages with timestamp strictly before
// the given bound (unbounded when before is the zero time), most recent
// first. The compound (session_id, ts_ns) index serves the scan, so the cost
// is proportional to the page, not the session.
func (s *SQLite) MessagesPage(sessionID string, limit int, before time.Time) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, session_id, role, content, ts_ns
	      FROM messages WHERE session_id = ?`
	args := []any{sessionID}
	if !before.IsZero() {
		q += ` AND ts_ns < ?`
		args = append(args, before.UnixNano())
	}
	q += ` ORDER BY ts_ns DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, unavailable("query page", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, unavailable("scan message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate page", err)
	}
	return out, nil
}

// DeleteSession atomically removes the session row and every message that
// references it.
func (s *SQLite) DeleteSession(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return unavailable("begin tx", err)
	}
	defer tx.Rollback()

	// Explicit message delete: CASCADE is declared, but the store does not
	// depend on the foreign_keys pragma surviving every connection.
	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, id); err != nil {
		return unavailable("delete messages", err)
	}
	if _, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return unavailable("delete session", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// CountTotals returns table-level session and message counts.
func (s *SQLite) CountTotals() (sessions, messages int, err error) {
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessions); err != nil {
		return 0, 0, unavailable("count sessions", err)
	}
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messages); err != nil {
		return 0, 0, unavailable("count messages", err)
	}
	return sessions, messages, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (domain.SessionSummary, error) {
	var sum domain.SessionSummary
	var config string
	var createdNs, updatedNs int64
	err := row.Scan(&sum.ID, &sum.Title, &sum.LayoutMode, &config,
		&sum.MessageCount, &sum.LastMessagePreview, &createdNs, &updatedNs)
	if err != nil {
		return domain.SessionSummary{}, err
	}
	if config != "" {
		sum.Config = []byte(config)
	}
	sum.CreatedAt = time.Unix(0, createdNs).UTC()
	sum.UpdatedAt = time.Unix(0, updatedNs).UTC()
	return sum, nil
}

func scanMessage(row scanner) (domain.Message, error) {
	var m domain.Message
	var tsNs int64
	if err := row.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &tsNs); err != nil {
		return domain.Message{}, err
	}
	m.Timestamp = time.Unix(0, tsNs).UTC()
	return m, nil
}

func sessionFromSummary(sum domain.SessionSummary) *domain.Session {
	return &domain.Session{
		ID:                 sum.ID,
		Title:              sum.Title,
		LayoutMode:         sum.LayoutMode,
		Config:             sum.Config,
		MessageCount:       sum.MessageCount,
		LastMessagePreview: sum.LastMessagePreview,
		CreatedAt:          sum.CreatedAt,
		UpdatedAt:          sum.UpdatedAt,
	}
}
