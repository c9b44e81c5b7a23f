package models

import "time"

// SensorReading is one luminosity sample pushed by the device.
type SensorReading struct {
	ID         int64     `json:"id"`
	Value      int       `json:"valor"`
	Mode       string    `json:"modo"` // device operating mode at capture time
	CapturedAt time.Time `json:"timestamp"`
}
