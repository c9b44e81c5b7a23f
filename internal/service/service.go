package service

import (
	"context"
	"time"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/repository"
)

// Mailbox is the single-slot command store: the app writes, the device polls.
type Mailbox interface {
	EnsureDefault(ctx context.Context) error
	Get(ctx context.Context) (models.ControlCommand, error)
	Set(ctx context.Context, p CommandParams) (models.ControlCommand, error)
}

// Register records sensor readings and answers "latest".
type Register interface {
	Append(ctx context.Context, p ReadingParams) (models.SensorReading, error)
	Latest(ctx context.Context) (models.SensorReading, error)
	Recent(ctx context.Context, limit int) ([]models.SensorReading, error)
}

// Simulator emulates the device; stop it via context cancellation.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Mailbox
	Register
	Simulator
}

// Options carries the mailbox policy knobs.
type Options struct {
	RetainManualColor bool
	Publisher         CommandPublisher
}

func NewService(repos *repository.Repository, opts Options) *Service {
	mailbox := NewMailboxService(repos.CommandRepo, opts.RetainManualColor, opts.Publisher)
	register := NewRegisterService(repos.ReadingRepo)
	return &Service{
		Mailbox:   mailbox,
		Register:  register,
		Simulator: NewSimulatorService(mailbox, register),
	}
}
