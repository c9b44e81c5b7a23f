package handlers

import (
	"context"
	"sync"

	"lumen_bridge/internal/models"
	"lumen_bridge/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMailbox struct {
	mu       sync.Mutex
	cmd      models.ControlCommand
	getErr   error
	setErr   error
	setCalls int
	lastSet  service.CommandParams
}

func (m *mockMailbox) EnsureDefault(ctx context.Context) error { return nil }

func (m *mockMailbox) Get(ctx context.Context) (models.ControlCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cmd, m.getErr
}

func (m *mockMailbox) Set(ctx context.Context, p service.CommandParams) (models.ControlCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	m.lastSet = p
	if m.setErr != nil {
		return models.ControlCommand{}, m.setErr
	}
	m.cmd = models.ControlCommand{Mode: p.Mode}
	if p.Color != nil && p.Color.R != nil && p.Color.G != nil && p.Color.B != nil {
		m.cmd.Color = models.Color{R: *p.Color.R, G: *p.Color.G, B: *p.Color.B}
	}
	return m.cmd, nil
}

type mockRegister struct {
	mu         sync.Mutex
	readings   []models.SensorReading // newest last
	appendErr  error
	latestErr  error
	recentErr  error
	lastAppend service.ReadingParams
	lastLimit  int
}

func (m *mockRegister) Append(ctx context.Context, p service.ReadingParams) (models.SensorReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAppend = p
	if m.appendErr != nil {
		return models.SensorReading{}, m.appendErr
	}
	rd := models.SensorReading{ID: int64(len(m.readings) + 1), Mode: p.Mode}
	if p.Value != nil {
		rd.Value = *p.Value
	}
	m.readings = append(m.readings, rd)
	return rd, nil
}

func (m *mockRegister) Latest(ctx context.Context) (models.SensorReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latestErr != nil {
		return models.SensorReading{}, m.latestErr
	}
	if len(m.readings) == 0 {
		return models.SensorReading{}, service.ErrNoReadings
	}
	return m.readings[len(m.readings)-1], nil
}

func (m *mockRegister) Recent(ctx context.Context, limit int) ([]models.SensorReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if limit == 0 {
		limit = service.DefaultRecentLimit
	}
	out := make([]models.SensorReading, 0, limit)
	for i := len(m.readings) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.readings[i])
	}
	return out, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func newMockService() (*service.Service, *mockMailbox, *mockRegister) {
	mb := &mockMailbox{cmd: models.DefaultCommand()}
	reg := &mockRegister{}
	return &service.Service{Mailbox: mb, Register: reg}, mb, reg
}
