package boundary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhuntgg/manhunt-server/internal/geo"
)

func testConfig() Config {
	return Config{
		InitialRadiusMeters: 500,
		ShrinkInterval:      2 * time.Minute,
		ShrinkFraction:      0.15,
		OutsideGrace:        10 * time.Second,
		DamageEnabled:       true,
	}
}

func TestActivate(t *testing.T) {
	e := New(testConfig())
	now := time.Unix(1000, 0)

	assert.Equal(t, PhaseWaiting, e.Phase())
	assert.Nil(t, e.Activate(nil, now), "no positions keeps the engine waiting")

	positions := []geo.LatLng{
		{Lat: 0.002, Lng: 0},
		{Lat: 0, Lng: 0.002},
		{Lat: -0.002, Lng: 0},
		{Lat: 0, Lng: -0.002},
	}
	change := e.Activate(positions, now)
	require.NotNil(t, change)
	assert.Equal(t, PhaseWaiting, change.From)
	assert.Equal(t, PhaseStable, change.To)
	assert.InDelta(t, 500, change.RadiusMeters, 0.001)

	// Center is the arithmetic mean of the initial positions.
	assert.InDelta(t, 0, e.Center().Lat, 1e-9)
	assert.InDelta(t, 0, e.Center().Lng, 1e-9)
	assert.InDelta(t, 500, e.Radius(now), 0.001)

	// A second activation is a no-op.
	assert.Nil(t, e.Activate(positions, now))
}

func TestFullShrinkCycle(t *testing.T) {
	e := New(testConfig())
	start := time.Unix(1000, 0)
	e.Activate([]geo.LatLng{{Lat: 0, Lng: 0}}, start)

	// Nothing fires before the deadline.
	assert.Empty(t, e.Advance(start.Add(time.Minute)))
	assert.Equal(t, PhaseStable, e.Phase())

	// Deadline passes: stable -> shrinking.
	changes := e.Advance(start.Add(2 * time.Minute))
	require.Len(t, changes, 1)
	assert.Equal(t, PhaseShrinking, changes[0].To)

	// Shrink window elapses: shrinking -> stable with the new radius.
	changes = e.Advance(start.Add(2*time.Minute + ShrinkWindow))
	require.Len(t, changes, 1)
	assert.Equal(t, PhaseStable, changes[0].To)
	assert.InDelta(t, 425, changes[0].RadiusMeters, 0.001, "500 * 0.85 after one full cycle")
	assert.InDelta(t, 425, e.Radius(start.Add(2*time.Minute+ShrinkWindow)), 0.001)
}

func TestRadiusInterpolatesDuringShrink(t *testing.T) {
	e := New(testConfig())
	start := time.Unix(1000, 0)
	e.Activate([]geo.LatLng{{Lat: 0, Lng: 0}}, start)

	shrinkStart := start.Add(2 * time.Minute)
	e.Advance(shrinkStart)
	require.Equal(t, PhaseShrinking, e.Phase())

	assert.InDelta(t, 500, e.Radius(shrinkStart), 0.001)
	assert.InDelta(t, 462.5, e.Radius(shrinkStart.Add(ShrinkWindow/2)), 0.001, "halfway between 500 and 425")
	assert.InDelta(t, 443.75, e.Radius(shrinkStart.Add(3*ShrinkWindow/4)), 0.001)
	assert.InDelta(t, 425, e.Radius(shrinkStart.Add(ShrinkWindow)), 0.001)
}

func TestRadiusMonotonicallyNonIncreasing(t *testing.T) {
	for _, fraction := range []float64{0.05, 0.15, 0.5, 0.9} {
		cfg := testConfig()
		cfg.ShrinkFraction = fraction
		e := New(cfg)
		now := time.Unix(1000, 0)
		e.Activate([]geo.LatLng{{Lat: 0, Lng: 0}}, now)

		prev := e.Radius(now)
		for i := 0; i < 600; i++ {
			now = now.Add(5 * time.Second)
			e.Advance(now)
			r := e.Radius(now)
			assert.LessOrEqual(t, r, prev+1e-9, "fraction %v: radius rose at step %d", fraction, i)
			prev = r
		}
	}
}

func TestAdvanceCatchesUpAfterLongGap(t *testing.T) {
	e := New(testConfig())
	start := time.Unix(1000, 0)
	e.Activate([]geo.LatLng{{Lat: 0, Lng: 0}}, start)

	// One interval plus one shrink window plus a bit of the next interval:
	// both transitions of the first cycle must fire in order.
	changes := e.Advance(start.Add(2*time.Minute + ShrinkWindow + time.Second))
	require.Len(t, changes, 2)
	assert.Equal(t, PhaseShrinking, changes[0].To)
	assert.Equal(t, PhaseStable, changes[1].To)
}

func TestOutsideAccrualAndElimination(t *testing.T) {
	e := New(testConfig())
	now := time.Unix(1000, 0)
	e.Activate([]geo.LatLng{{Lat: 0, Lng: 0}}, now)

	inside := geo.LatLng{Lat: 0.001, Lng: 0}  // ~111 m from center, radius 500
	outside := geo.LatLng{Lat: 0.006, Lng: 0} // ~667 m from center

	const dt = time.Second

	// Nine seconds outside: warnings but no elimination yet.
	for i := 0; i < 9; i++ {
		warning, elim := e.Track("p1", outside, dt, now)
		require.NotNil(t, warning)
		assert.Nil(t, elim)
	}

	// Tenth second reaches the grace period.
	warning, elim := e.Track("p1", outside, dt, now)
	require.NotNil(t, warning)
	require.NotNil(t, elim)
	assert.Equal(t, "p1", elim.PlayerID)
	assert.Equal(t, 10*time.Second, elim.Outside)
	assert.True(t, e.Eliminated("p1"))

	// Elimination is terminal: further ticks emit nothing.
	warning, elim = e.Track("p1", outside, dt, now)
	assert.Nil(t, warning)
	assert.Nil(t, elim)

	// Re-entering resets accrual for a live player.
	for i := 0; i < 9; i++ {
		e.Track("p2", outside, dt, now)
	}
	w, el := e.Track("p2", inside, dt, now)
	assert.Nil(t, w)
	assert.Nil(t, el)
	for i := 0; i < 9; i++ {
		_, el = e.Track("p2", outside, dt, now)
		assert.Nil(t, el, "accrual must restart after re-entry")
	}
}

func TestDamageDisabledNeverEliminates(t *testing.T) {
	cfg := testConfig()
	cfg.DamageEnabled = false
	e := New(cfg)
	now := time.Unix(1000, 0)
	e.Activate([]geo.LatLng{{Lat: 0, Lng: 0}}, now)

	outside := geo.LatLng{Lat: 0.01, Lng: 0}
	for i := 0; i < 60; i++ {
		warning, elim := e.Track("p1", outside, time.Second, now)
		require.NotNil(t, warning, "warnings still fire with damage disabled")
		assert.Nil(t, elim)
	}
	assert.False(t, e.Eliminated("p1"))
}

func TestWarningSeverityBands(t *testing.T) {
	tests := []struct {
		overage float64
		want    Severity
	}{
		{1, SeverityLow},
		{50, SeverityLow},
		{51, SeverityHigh},
		{100, SeverityHigh},
		{101, SeveritySevere},
		{500, SeveritySevere},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, severityFor(tt.overage), "overage %v", tt.overage)
	}
}

func TestTrackWhileWaitingIsNoop(t *testing.T) {
	e := New(testConfig())
	warning, elim := e.Track("p1", geo.LatLng{Lat: 1, Lng: 1}, time.Second, time.Unix(1000, 0))
	assert.Nil(t, warning)
	assert.Nil(t, elim)
}
