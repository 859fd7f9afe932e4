package application

import "time"

// SetClock replaces the gate's time source in tests.
func (g *SessionGate) SetClock(now func() time.Time) {
	g.now = now
}
