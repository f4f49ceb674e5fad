package particlefield

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSystem_CapsDt(t *testing.T) {
	clock := &Time{
		Time:  time.Now().Add(-2 * time.Second),
		MaxDt: 100 * time.Millisecond,
	}
	timeSystem(clock)
	assert.Equal(t, 100*time.Millisecond, clock.Dt)
}

func TestTime_RefreshScale(t *testing.T) {
	clock := &Time{Dt: 50 * time.Millisecond}
	assert.InDelta(t, 3.0, clock.RefreshScale(60), 1e-9)
}

func TestTimeModule_Defaults(t *testing.T) {
	app := NewApp().UseModules(TimeModule{})
	clock, ok := Resource[Time](app)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, clock.MaxDt)

	app.Frame()
	assert.GreaterOrEqual(t, clock.Elapsed(), time.Duration(0))
	assert.LessOrEqual(t, clock.Dt, clock.MaxDt)
}
