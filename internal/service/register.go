package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/repository"
)

type RegisterService struct {
	readingRepo repository.ReadingRepo

	mu     sync.Mutex // guards seeded/last and orders appends
	seeded bool
	last   time.Time
	now    func() time.Time
}

func NewRegisterService(readingRepo repository.ReadingRepo) *RegisterService {
	return &RegisterService{readingRepo: readingRepo, now: time.Now}
}

// Append validates p, stamps it with the server time and stores it.
// Capture times never go backwards, so the latest completed append is
// always the one Latest returns.
func (s *RegisterService) Append(ctx context.Context, p ReadingParams) (models.SensorReading, error) {
	p.Mode = strings.TrimSpace(p.Mode)
	if err := validateStruct(p); err != nil {
		return models.SensorReading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		latest, err := s.readingRepo.Latest(ctx)
		switch {
		case err == nil:
			s.last = latest.CapturedAt
		case !errors.Is(err, repository.ErrNotFound):
			return models.SensorReading{}, fmt.Errorf("load latest reading: %w", err)
		}
		s.seeded = true
	}

	ts := s.now().UTC()
	if ts.Before(s.last) {
		ts = s.last
	}

	stored, err := s.readingRepo.Append(ctx, models.SensorReading{
		Value:      *p.Value,
		Mode:       p.Mode,
		CapturedAt: ts,
	})
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("append reading: %w", err)
	}
	s.last = ts
	return stored, nil
}

// Latest returns the most recent reading or ErrNoReadings.
func (s *RegisterService) Latest(ctx context.Context) (models.SensorReading, error) {
	rd, err := s.readingRepo.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return models.SensorReading{}, ErrNoReadings
	}
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("load latest reading: %w", err)
	}
	return rd, nil
}

// Recent returns up to limit readings newest first. Zero means the default.
func (s *RegisterService) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	switch {
	case limit < 0:
		return nil, NewValidationError("limite", "deve ser um inteiro positivo")
	case limit == 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	out, err := s.readingRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return out, nil
}
