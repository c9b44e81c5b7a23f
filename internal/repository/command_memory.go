package repository

import (
	"context"
	"sync"

	"lumen_bridge/internal/models"
)

// CommandMemory is a mutex-guarded in-process cell. A restart resets it.
type CommandMemory struct {
	mu  sync.RWMutex
	cmd *models.ControlCommand
}

func NewCommandMemory() *CommandMemory {
	return &CommandMemory{}
}

var _ CommandRepo = (*CommandMemory)(nil)

func (m *CommandMemory) EnsureDefault(_ context.Context, def models.ControlCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd == nil {
		def.IssuedAt = issuedAtOrNow(def.IssuedAt)
		m.cmd = &def
	}
	return nil
}

func (m *CommandMemory) Save(_ context.Context, c models.ControlCommand) error {
	c.IssuedAt = issuedAtOrNow(c.IssuedAt)
	m.mu.Lock()
	m.cmd = &c
	m.mu.Unlock()
	return nil
}

func (m *CommandMemory) Load(_ context.Context) (models.ControlCommand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cmd == nil {
		return models.ControlCommand{}, ErrNotFound
	}
	return *m.cmd, nil
}

func (m *CommandMemory) IsPersistent() bool { return false }
