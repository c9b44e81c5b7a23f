package service

import "lumen_bridge/internal/models"

// CommandParams is a request to replace the mailbox command.
type CommandParams struct {
	Mode  string       `json:"modo" validate:"required,oneof=auto manual"`
	Color *ColorParams `json:"cor" validate:"omitempty"` // optional; ignored in auto mode
}

// ColorParams uses pointers so a missing channel is distinguishable from 0.
type ColorParams struct {
	R *int `json:"r" validate:"required,min=0,max=255"`
	G *int `json:"g" validate:"required,min=0,max=255"`
	B *int `json:"b" validate:"required,min=0,max=255"`
}

func (c *ColorParams) toColor() models.Color {
	return models.Color{R: *c.R, G: *c.G, B: *c.B}
}

// ReadingParams is one sample pushed by the device.
type ReadingParams struct {
	Value *int   `json:"valor" validate:"required"`
	Mode  string `json:"modo" validate:"required,max=50"`
}

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 500
)
