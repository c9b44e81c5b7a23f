package service

import (
	"context"
	"math/rand/v2"
	"time"
)

// ----------- Simulation constants -----------
const (
	SensorMin     = 0    // darkest ADC reading
	SensorMax     = 1023 // brightest ADC reading (10-bit analog input)
	SensorMaxStep = 40   // largest change between two samples
)

// SimulatorService plays the embedded device for local development: every
// tick it polls the mailbox the way the device would and pushes a sample
// whose value drifts randomly.
type SimulatorService struct {
	mailbox  Mailbox
	register Register

	value int
	rnd   *rand.Rand
}

// NewSimulatorService returns a simulator starting at mid-scale.
func NewSimulatorService(mailbox Mailbox, register Register) *SimulatorService {
	return &SimulatorService{
		mailbox:  mailbox,
		register: register,
		value:    (SensorMin + SensorMax) / 2,
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6c756d656e)),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = s.step(ctx)
		}
	}
}

// step performs one poll + push cycle. Errors are dropped: the next tick retries.
func (s *SimulatorService) step(ctx context.Context) error {
	cmd, err := s.mailbox.Get(ctx)
	if err != nil {
		return err
	}
	s.value = clampInt(s.value+s.rnd.IntN(2*SensorMaxStep+1)-SensorMaxStep, SensorMin, SensorMax)
	v := s.value
	_, err = s.register.Append(ctx, ReadingParams{Value: &v, Mode: cmd.Mode})
	return err
}

// helpers
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
