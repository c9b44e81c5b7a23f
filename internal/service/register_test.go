package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/repository"
)

// fakeReadingRepo mimics the SQLite ordering: captured_at DESC, id DESC.
type fakeReadingRepo struct {
	mu        sync.Mutex
	rows      []models.SensorReading
	appendErr error
	latestErr error

	gotLimit int
}

func (f *fakeReadingRepo) Append(ctx context.Context, r models.SensorReading) (models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return models.SensorReading{}, f.appendErr
	}
	r.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeReadingRepo) sorted() []models.SensorReading {
	out := append([]models.SensorReading(nil), f.rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CapturedAt.Equal(out[j].CapturedAt) {
			return out[i].CapturedAt.After(out[j].CapturedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeReadingRepo) Latest(ctx context.Context) (models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latestErr != nil {
		return models.SensorReading{}, f.latestErr
	}
	if len(f.rows) == 0 {
		return models.SensorReading{}, repository.ErrNotFound
	}
	return f.sorted()[0], nil
}

func (f *fakeReadingRepo) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotLimit = limit
	out := f.sorted()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestRegister_Latest_EmptyIsErrNoReadings(t *testing.T) {
	s := NewRegisterService(&fakeReadingRepo{})
	_, err := s.Latest(context.Background())
	if !errors.Is(err, ErrNoReadings) {
		t.Fatalf("expected ErrNoReadings, got %v", err)
	}
}

func TestRegister_Latest_StorageErrorIsNotNotFound(t *testing.T) {
	s := NewRegisterService(&fakeReadingRepo{latestErr: errors.New("db down")})
	_, err := s.Latest(context.Background())
	if err == nil || errors.Is(err, ErrNoReadings) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestRegister_Append_ThenLatestReturnsSameRecord(t *testing.T) {
	s := NewRegisterService(&fakeReadingRepo{})
	ctx := context.Background()

	t0 := time.Now().UTC()
	stored, err := s.Append(ctx, ReadingParams{Value: intp(512), Mode: " auto "})
	t1 := time.Now().UTC()
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if stored.ID == 0 || stored.Value != 512 || stored.Mode != "auto" {
		t.Fatalf("Append returned %+v", stored)
	}
	assertWithinTimeWindow(t, stored.CapturedAt, t0, t1)

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest != stored {
		t.Fatalf("Latest = %+v, want %+v", latest, stored)
	}
}

func TestRegister_Append_Validation(t *testing.T) {
	cases := []struct {
		name   string
		params ReadingParams
		field  string
	}{
		{"missing value", ReadingParams{Mode: "auto"}, "valor"},
		{"missing mode", ReadingParams{Value: intp(1)}, "modo"},
		{"blank mode", ReadingParams{Value: intp(1), Mode: "   "}, "modo"},
		{"mode too long", ReadingParams{Value: intp(1), Mode: string(make([]byte, 51))}, "modo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeReadingRepo{}
			s := NewRegisterService(repo)
			_, err := s.Append(context.Background(), tc.params)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q, got %v", tc.field, ve.Fields)
			}
			if len(repo.rows) != 0 {
				t.Fatalf("nothing must be stored on invalid input")
			}
		})
	}
}

func TestRegister_Append_ClockStepBackDoesNotReorder(t *testing.T) {
	repo := &fakeReadingRepo{}
	s := NewRegisterService(repo)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := []time.Time{base, base.Add(-time.Minute)}
	s.now = func() time.Time {
		t := clock[0]
		clock = clock[1:]
		return t
	}

	ctx := context.Background()
	if _, err := s.Append(ctx, ReadingParams{Value: intp(1), Mode: "auto"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := s.Append(ctx, ReadingParams{Value: intp(2), Mode: "auto"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !second.CapturedAt.Equal(base) {
		t.Fatalf("captured_at = %v, want clamped to %v", second.CapturedAt, base)
	}
	latest, _ := s.Latest(ctx)
	if latest.Value != 2 {
		t.Fatalf("Latest = %+v, want the second append", latest)
	}
}

func TestRegister_Append_SeedsFromStoredLatest(t *testing.T) {
	future := time.Now().UTC().Add(time.Hour)
	repo := &fakeReadingRepo{rows: []models.SensorReading{{ID: 1, Value: 9, Mode: "auto", CapturedAt: future}}}
	s := NewRegisterService(repo)

	got, err := s.Append(context.Background(), ReadingParams{Value: intp(10), Mode: "auto"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got.CapturedAt.Before(future) {
		t.Fatalf("captured_at %v went behind stored latest %v", got.CapturedAt, future)
	}
}

func TestRegister_ConcurrentAppends_LatestIsLastCompleted(t *testing.T) {
	repo := &fakeReadingRepo{}
	s := NewRegisterService(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Append(ctx, ReadingParams{Value: intp(i), Mode: "auto"}); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	lastInserted := repo.rows[len(repo.rows)-1]
	if latest != lastInserted {
		t.Fatalf("Latest = %+v, want last completed append %+v", latest, lastInserted)
	}
}

func TestRegister_Append_StorageErrorIsWrapped(t *testing.T) {
	dbErr := errors.New("disk full")
	s := NewRegisterService(&fakeReadingRepo{appendErr: dbErr})
	_, err := s.Append(context.Background(), ReadingParams{Value: intp(1), Mode: "auto"})
	if !errors.Is(err, dbErr) || IsValidation(err) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

func TestRegister_Recent_LimitHandling(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultRecentLimit},
		{5, 5},
		{MaxRecentLimit + 1, MaxRecentLimit},
	}
	for _, tc := range cases {
		repo := &fakeReadingRepo{}
		s := NewRegisterService(repo)
		if _, err := s.Recent(context.Background(), tc.in); err != nil {
			t.Fatalf("Recent(%d): %v", tc.in, err)
		}
		if repo.gotLimit != tc.want {
			t.Fatalf("Recent(%d) used limit %d, want %d", tc.in, repo.gotLimit, tc.want)
		}
	}

	_, err := NewRegisterService(&fakeReadingRepo{}).Recent(context.Background(), -1)
	if !IsValidation(err) {
		t.Fatalf("negative limit: expected validation error, got %v", err)
	}
}
