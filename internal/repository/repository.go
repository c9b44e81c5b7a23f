package repository

import (
	"context"
	"database/sql"
	"errors"

	"lumen_bridge/internal/models"
)

// ErrNotFound is returned by repositories when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// CommandRepo stores the single current control command.
type CommandRepo interface {
	// EnsureDefault materializes the default command if none exists. Idempotent.
	EnsureDefault(ctx context.Context, def models.ControlCommand) error
	Save(ctx context.Context, c models.ControlCommand) error
	// Load returns ErrNotFound when nothing was ever stored.
	Load(ctx context.Context) (models.ControlCommand, error)
	IsPersistent() bool
}

// ReadingRepo is the append-only sensor reading log.
type ReadingRepo interface {
	// Append stores r and returns it with its assigned ID.
	Append(ctx context.Context, r models.SensorReading) (models.SensorReading, error)
	// Latest returns ErrNotFound when the log is empty.
	Latest(ctx context.Context) (models.SensorReading, error)
	Recent(ctx context.Context, limit int) ([]models.SensorReading, error)
}

type Repository struct {
	CommandRepo CommandRepo
	ReadingRepo ReadingRepo
}

// NewRepository wires SQLite-backed repositories.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		CommandRepo: NewCommandSQLite(db),
		ReadingRepo: NewReadingSQLite(db),
	}
}

// NewVolatileRepository keeps the command in process memory; readings stay in SQLite.
func NewVolatileRepository(db *sql.DB) *Repository {
	return &Repository{
		CommandRepo: NewCommandMemory(),
		ReadingRepo: NewReadingSQLite(db),
	}
}
