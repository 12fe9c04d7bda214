package store

import "database/sql"

// LatencySample is one recorded stage duration for a session.
type LatencySample struct {
	ID        int64
	SessionID string
	Stage     string
	Seconds   float64
}

// LatencyRepository stores per-stage latency samples.
type LatencyRepository struct {
	db *sql.DB
}

// Latencies returns the latency repository for this store.
func (s *Store) Latencies() *LatencyRepository {
	return &LatencyRepository{db: s.db}
}

// Record inserts one sample.
func (r *LatencyRepository) Record(sessionID, stage string, seconds float64) error {
	_, err := r.db.Exec(
		`INSERT INTO latency_samples (session_id, stage, seconds) VALUES (?, ?, ?)`,
		sessionID, stage, seconds,
	)
	return err
}

// RecordBatch inserts many samples in one transaction, used when a
// session is flushed on shutdown.
func (r *LatencyRepository) RecordBatch(sessionID string, samples map[string][]float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO latency_samples (session_id, stage, seconds) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for stage, values := range samples {
		for _, v := range values {
			if _, err := stmt.Exec(sessionID, stage, v); err != nil {
				tx.Rollback()
				return err
			}
		}
	}
	return tx.Commit()
}

// BySession returns all samples for a session in insertion order.
func (r *LatencyRepository) BySession(sessionID string) ([]*LatencySample, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, stage, seconds FROM latency_samples
		 WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*LatencySample
	for rows.Next() {
		s := &LatencySample{}
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Stage, &s.Seconds); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// MeanByStage returns the average seconds per stage for a session.
func (r *LatencyRepository) MeanByStage(sessionID string) (map[string]float64, error) {
	rows, err := r.db.Query(
		`SELECT stage, AVG(seconds) FROM latency_samples
		 WHERE session_id = ? GROUP BY stage`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	means := make(map[string]float64)
	for rows.Next() {
		var stage string
		var mean float64
		if err := rows.Scan(&stage, &mean); err != nil {
			return nil, err
		}
		means[stage] = mean
	}
	return means, rows.Err()
}
