package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lumen_bridge/internal/models"
)

type CommandSQLite struct {
	db *sql.DB
}

func NewCommandSQLite(db *sql.DB) *CommandSQLite {
	return &CommandSQLite{db: db}
}

var _ CommandRepo = (*CommandSQLite)(nil)

const (
	commandRowID = 1

	insertDefaultCommandSQL = `
		INSERT INTO control_command (id, mode, r, g, b, issued_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`

	upsertCommandSQL = `
		INSERT INTO control_command (id, mode, r, g, b, issued_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode=excluded.mode,
			r=excluded.r,
			g=excluded.g,
			b=excluded.b,
			issued_at=excluded.issued_at
	`

	selectCommandSQL = `
		SELECT mode, r, g, b, issued_at
		FROM control_command WHERE id=?
	`
)

// issuedAtOrNow returns t in UTC, or the current UTC time when t is zero.
func issuedAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// EnsureDefault inserts the default row once; racing callers cannot create a duplicate.
func (r *CommandSQLite) EnsureDefault(ctx context.Context, def models.ControlCommand) error {
	_, err := r.db.ExecContext(ctx, insertDefaultCommandSQL,
		commandRowID,
		def.Mode,
		def.Color.R,
		def.Color.G,
		def.Color.B,
		issuedAtOrNow(def.IssuedAt).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("ensure default command: %w", err)
	}
	return nil
}

// Save replaces the control_command row (id always 1).
func (r *CommandSQLite) Save(ctx context.Context, c models.ControlCommand) error {
	_, err := r.db.ExecContext(ctx, upsertCommandSQL,
		commandRowID,
		c.Mode,
		c.Color.R,
		c.Color.G,
		c.Color.B,
		issuedAtOrNow(c.IssuedAt).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save command: %w", err)
	}
	return nil
}

// Load fetches the single control_command row.
func (r *CommandSQLite) Load(ctx context.Context) (models.ControlCommand, error) {
	var (
		c        models.ControlCommand
		issuedNs int64
	)
	err := r.db.QueryRowContext(ctx, selectCommandSQL, commandRowID).Scan(
		&c.Mode,
		&c.Color.R,
		&c.Color.G,
		&c.Color.B,
		&issuedNs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ControlCommand{}, ErrNotFound
		}
		return models.ControlCommand{}, fmt.Errorf("load command: %w", err)
	}
	c.IssuedAt = time.Unix(0, issuedNs).UTC()
	return c, nil
}

func (r *CommandSQLite) IsPersistent() bool { return true }
