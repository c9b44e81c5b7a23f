package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/repository"
)

// CommandPublisher is notified with every successfully stored command.
type CommandPublisher interface {
	PublishCommand(c models.ControlCommand) error
}

type MailboxService struct {
	commandRepo repository.CommandRepo
	publisher   CommandPublisher

	// retainManualColor keeps the last manual color while in auto mode so a
	// later manual command without a color restores it.
	retainManualColor bool

	mu  sync.Mutex // serializes read-modify-write in Set
	now func() time.Time
}

func NewMailboxService(commandRepo repository.CommandRepo, retainManualColor bool, publisher CommandPublisher) *MailboxService {
	return &MailboxService{
		commandRepo:       commandRepo,
		publisher:         publisher,
		retainManualColor: retainManualColor,
		now:               time.Now,
	}
}

// EnsureDefault materializes the default auto command once at startup.
func (s *MailboxService) EnsureDefault(ctx context.Context) error {
	def := models.DefaultCommand()
	def.IssuedAt = s.now().UTC()
	return s.commandRepo.EnsureDefault(ctx, def)
}

// Get returns the current command, or the default when none was ever stored.
func (s *MailboxService) Get(ctx context.Context) (models.ControlCommand, error) {
	c, err := s.commandRepo.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultCommand(), nil
	}
	if err != nil {
		return models.ControlCommand{}, fmt.Errorf("load control command: %w", err)
	}
	return c, nil
}

// Set validates p and replaces the stored command.
// - auto ignores any supplied color.
// - manual without a color keeps the previous color if it is valid, else {0,0,0}.
// On validation failure the stored command is left untouched.
func (s *MailboxService) Set(ctx context.Context, p CommandParams) (models.ControlCommand, error) {
	if err := validateStruct(p); err != nil {
		return models.ControlCommand{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.Get(ctx)
	if err != nil {
		return models.ControlCommand{}, err
	}

	next := models.ControlCommand{
		Mode:     p.Mode,
		IssuedAt: s.now().UTC(),
	}
	switch p.Mode {
	case models.ModeManual:
		if p.Color != nil {
			next.Color = p.Color.toColor()
		} else if prev.Color.Valid() {
			next.Color = prev.Color
		}
	case models.ModeAuto:
		if s.retainManualColor && prev.Color.Valid() {
			next.Color = prev.Color
		}
	}

	if err := s.commandRepo.Save(ctx, next); err != nil {
		return models.ControlCommand{}, fmt.Errorf("store control command: %w", err)
	}

	// Published under the lock so subscribers see commands in write order.
	if s.publisher != nil {
		_ = s.publisher.PublishCommand(next)
	}
	return next, nil
}
