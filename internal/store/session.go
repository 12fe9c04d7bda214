package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one completed (or aborted) game run.
type Session struct {
	ID            string
	Mode          string
	Score         float64
	Collisions    int
	ObjectsPassed int
	Duration      time.Duration
	CreatedAt     time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session. An empty ID is assigned a fresh UUID.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, mode, score, collisions, objects_passed, duration_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Mode, sess.Score, sess.Collisions, sess.ObjectsPassed,
		sess.Duration.Seconds(), sess.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var seconds float64

	err := r.db.QueryRow(
		`SELECT id, mode, score, collisions, objects_passed, duration_seconds, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Mode, &sess.Score, &sess.Collisions, &sess.ObjectsPassed,
		&seconds, &sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess.Duration = time.Duration(seconds * float64(time.Second))
	return sess, nil
}

// List returns sessions ordered newest first, up to limit rows.
// A non-positive limit returns everything.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	query := `SELECT id, mode, score, collisions, objects_passed, duration_seconds, created_at
		 FROM sessions ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var seconds float64
		if err := rows.Scan(&sess.ID, &sess.Mode, &sess.Score, &sess.Collisions,
			&sess.ObjectsPassed, &seconds, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sess.Duration = time.Duration(seconds * float64(time.Second))
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Delete removes a session and, via the foreign key, its latency samples.
func (r *SessionRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
