package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeFormat is fixed width so lexicographic order matches time order
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z"

// SQLiteSessionRepository keeps editing sessions in a local SQLite file for a
// single-node deployment without Redis. Rows expire with the TTL like the
// other stores.
type SQLiteSessionRepository struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLiteSessionRepository opens (or creates) the database at path with WAL
// mode and a busy timeout, then ensures the sessions table exists.
func OpenSQLiteSessionRepository(ctx context.Context, path string, ttl time.Duration) (*SQLiteSessionRepository, error) {
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", url.PathEscape(path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// WAL allows parallel readers; writes are serialized by SQLite
	db.SetMaxOpenConns(4)

	r := &SQLiteSessionRepository{db: db, ttl: ttl, now: time.Now}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteSessionRepository) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS editing_sessions (
		id         TEXT PRIMARY KEY,
		event_key  TEXT NOT NULL,
		data       TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_editing_sessions_expires_at ON editing_sessions(expires_at);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create editing_sessions table: %w", err)
	}
	return nil
}

// Save upserts the session and pushes its expiry forward
func (r *SQLiteSessionRepository) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	now := r.now().UTC()
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM editing_sessions WHERE expires_at <= ?`,
		now.Format(sqliteTimeFormat),
	); err != nil {
		return fmt.Errorf("evict expired sessions: %w", err)
	}

	const query = `
	INSERT INTO editing_sessions (id, event_key, data, expires_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		event_key = excluded.event_key,
		data = excluded.data,
		expires_at = excluded.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query,
		s.ID, s.EventKey, string(data), now.Add(r.ttl).Format(sqliteTimeFormat),
	); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// Get loads a live session
func (r *SQLiteSessionRepository) Get(ctx context.Context, id string) (*Session, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM editing_sessions WHERE id = ? AND expires_at > ?`,
		id, r.now().UTC().Format(sqliteTimeFormat),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// Delete removes a session
func (r *SQLiteSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM editing_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Ping checks the database connection
func (r *SQLiteSessionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Name returns the backend name
func (r *SQLiteSessionRepository) Name() string {
	return "sqlite"
}

// Close closes the database
func (r *SQLiteSessionRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteSessionRepository) journalMode(ctx context.Context) (string, error) {
	var mode string
	if err := r.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return "", err
	}
	return mode, nil
}
