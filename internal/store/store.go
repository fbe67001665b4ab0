// Package store persists the sent-notification audit log. One row is
// written per successful send; rows are never updated or deleted.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Notification is one audit record of a successful send.
type Notification struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS notifs (
    id TEXT PRIMARY KEY,
    "user" TEXT NOT NULL,
    "from" TEXT NOT NULL,
    "to" TEXT NOT NULL,
    subject TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

// Store is the audit log over a SQL database. Concurrent appends and reads
// are safe; the engine's transactional guarantees are all that is needed.
type Store struct {
	db       *sql.DB
	postgres bool
}

// Open connects to the audit database. A non-empty databaseURL selects
// postgres; otherwise an embedded sqlite file at dbPath is used, so the
// service runs with no external database at all.
func Open(databaseURL, dbPath string) (*Store, error) {
	var (
		db       *sql.DB
		err      error
		postgres bool
	)
	if databaseURL != "" {
		db, err = sql.Open("pgx", databaseURL)
		postgres = true
	} else {
		db, err = sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, postgres: postgres}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one audit row. ID and CreatedAt are assigned here when the
// caller leaves them zero.
func (s *Store) Record(ctx context.Context, n Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO notifs (id, "user", "from", "to", subject, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		n.ID, n.User, n.From, n.To, n.Subject, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// ListByUser returns the records whose user column equals email, in
// insertion order.
func (s *Store) ListByUser(ctx context.Context, email string) ([]Notification, error) {
	return s.list(ctx,
		s.rebind(`SELECT id, "user", "from", "to", subject, created_at FROM notifs WHERE "user" = ? ORDER BY created_at`),
		email)
}

// ListAll returns every record in insertion order. Admin gating happens at
// the API layer; the store has no identity concept.
func (s *Store) ListAll(ctx context.Context) ([]Notification, error) {
	return s.list(ctx,
		`SELECT id, "user", "from", "to", subject, created_at FROM notifs ORDER BY created_at`)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.User, &n.From, &n.To, &n.Subject, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// rebind rewrites ? placeholders to $N for the postgres driver.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
