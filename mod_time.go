package particlefield

import (
	"time"
)

// Time is the frame clock. Dt is the wall time since the previous frame,
// capped at MaxDt so a stalled host does not fling the rotation forward.
type Time struct {
	Start time.Time
	Time  time.Time
	Dt    time.Duration
	MaxDt time.Duration
}

// RefreshScale converts Dt into a count of refreshes at hz.
func (t *Time) RefreshScale(hz float64) float64 {
	return t.Dt.Seconds() * hz
}

// Elapsed is the time since the clock started.
func (t *Time) Elapsed() time.Duration {
	return t.Time.Sub(t.Start)
}

type TimeModule struct {
	MaxDt time.Duration
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	maxDt := mod.MaxDt
	if maxDt <= 0 {
		maxDt = 250 * time.Millisecond
	}
	now := time.Now()
	cmd.AddResources(&Time{
		Start: now,
		Time:  now,
		MaxDt: maxDt,
	})
	cmd.UseSystem(System(timeSystem).InStage(Prelude))
}

func timeSystem(clock *Time) {
	now := time.Now()

	clock.Dt = now.Sub(clock.Time)
	if clock.MaxDt > 0 && clock.Dt > clock.MaxDt {
		clock.Dt = clock.MaxDt
	}
	clock.Time = now
}
