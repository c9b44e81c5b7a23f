package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lumen_bridge/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `INSERT INTO sensor_readings (value, mode, captured_at) VALUES (?, ?, ?)`

	selectReadingsSQL = `
		SELECT id, value, mode, captured_at FROM sensor_readings
		ORDER BY captured_at DESC, id DESC
		LIMIT ?
	`
)

// Append inserts a new reading. A zero CapturedAt is set to now.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.SensorReading) (models.SensorReading, error) {
	if rd.CapturedAt.IsZero() {
		rd.CapturedAt = time.Now().UTC()
	} else {
		rd.CapturedAt = rd.CapturedAt.UTC()
	}
	rd.Mode = strings.TrimSpace(rd.Mode)

	res, err := r.db.ExecContext(ctx, insertReadingSQL, rd.Value, rd.Mode, rd.CapturedAt.UnixNano())
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("get last insert id for reading: %w", err)
	}
	rd.ID = id
	return rd, nil
}

// Latest returns the reading with the greatest captured_at, ties broken by id.
func (r *ReadingSQLite) Latest(ctx context.Context) (models.SensorReading, error) {
	out, err := r.Recent(ctx, 1)
	if err != nil {
		return models.SensorReading{}, err
	}
	if len(out) == 0 {
		return models.SensorReading{}, ErrNotFound
	}
	return out[0], nil
}

// Recent returns up to limit readings, newest first.
func (r *ReadingSQLite) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	rows, err := r.db.QueryContext(ctx, selectReadingsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	out := make([]models.SensorReading, 0, limit)
	for rows.Next() {
		var (
			rd         models.SensorReading
			capturedNs int64
		)
		if err := rows.Scan(&rd.ID, &rd.Value, &rd.Mode, &capturedNs); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		rd.CapturedAt = time.Unix(0, capturedNs).UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
