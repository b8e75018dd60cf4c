package ramp

import (
	"math"

	"github.com/41rumble/crew-planner/internal/domain"
)

// Reconcile rewrites a department's ramp durations so that at least one
// plateau month remains inside its timeframe. It reports whether either
// ramp changed. The timeframe itself must be non-empty (EndMonth >= StartMonth);
// that is the caller's responsibility.
//
// When both ramps are set they are shrunk proportionally with a floor of one
// month each, then the larger is decremented (ties shrink ramp-down) until the
// pair fits. A one-sided ramp takes the whole remaining budget.
func Reconcile(d *domain.Department) bool {
	origUp, origDown := d.RampUpDuration, d.RampDownDuration

	up := max(0, d.RampUpDuration)
	down := max(0, d.RampDownDuration)

	timeframe := d.TimeframeDuration()
	if up+down >= timeframe {
		maxTotalRamp := timeframe - 1

		switch {
		case up > 0 && down > 0:
			upRatio := float64(up) / float64(up+down)
			downRatio := 1 - upRatio
			up = max(1, int(math.Floor(float64(maxTotalRamp)*upRatio)))
			down = max(1, int(math.Floor(float64(maxTotalRamp)*downRatio)))
			for up+down > maxTotalRamp {
				if up > down {
					up--
				} else {
					down--
				}
			}
		case up > 0:
			up, down = maxTotalRamp, 0
		case down > 0:
			up, down = 0, maxTotalRamp
		}
	}

	d.RampUpDuration = up
	d.RampDownDuration = down
	return up != origUp || down != origDown
}

// Apply reconciles the department at idx and regenerates its crew row from
// the resulting ramps. The row becomes derived, replacing any imported
// authoritative counts.
func Apply(t *domain.Timeline, idx int) bool {
	d := &t.Departments[idx]
	changed := Reconcile(d)

	for len(t.Crew) <= idx {
		t.Crew = append(t.Crew, domain.CrewRow{Source: domain.CrewDerived})
	}
	t.Crew[idx] = domain.CrewRow{
		Counts: GenerateCurve(*d, t.MonthCount()),
		Source: domain.CrewDerived,
	}
	return changed
}
