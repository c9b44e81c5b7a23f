package models

import "time"

const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Color is an RGB triple; each channel is in [0,255].
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Valid reports whether every channel lies in [0,255].
func (c Color) Valid() bool {
	return inByte(c.R) && inByte(c.G) && inByte(c.B)
}

func inByte(v int) bool { return v >= 0 && v <= 255 }

// ControlCommand is the single current command the device polls for.
type ControlCommand struct {
	Mode     string    `json:"modo"` // auto | manual
	Color    Color     `json:"cor"`  // meaningful only in manual mode
	IssuedAt time.Time `json:"issued_at"`
}

// DefaultCommand is what the mailbox holds before anyone has written to it.
func DefaultCommand() ControlCommand {
	return ControlCommand{Mode: ModeAuto}
}
