package ramp

import (
	"math"

	"github.com/41rumble/crew-planner/internal/domain"
)

// GenerateCurve derives a department's month-by-month crew counts from its
// ramp parameters. The department must already satisfy the timeframe and
// plateau invariants; GenerateCurve does not validate them.
//
// Ramp-up month i (0-based) holds round((i+1)*max/up); ramp-down month i holds
// round(max*(down-i-1)/down); the plateau between them holds max. Months
// outside [StartMonth, EndMonth] are zero.
func GenerateCurve(d domain.Department, monthCount int) []int {
	curve := make([]int, monthCount)

	plateauStart := d.StartMonth + d.RampUpDuration
	plateauEnd := d.EndMonth - d.RampDownDuration

	for i := 0; i < d.RampUpDuration; i++ {
		v := roundHalfUp(float64((i+1)*d.MaxCrew) / float64(d.RampUpDuration))
		setMonth(curve, d.StartMonth+i, v)
	}

	for m := plateauStart; m <= plateauEnd; m++ {
		setMonth(curve, m, d.MaxCrew)
	}

	for i := 0; i < d.RampDownDuration; i++ {
		v := roundHalfUp(float64(d.MaxCrew*(d.RampDownDuration-i-1)) / float64(d.RampDownDuration))
		setMonth(curve, plateauEnd+1+i, v)
	}

	return curve
}

// PreviewCurve generates the curve a department would have after
// reconciliation, without touching the department itself.
func PreviewCurve(d domain.Department, monthCount int) []int {
	Reconcile(&d)
	return GenerateCurve(d, monthCount)
}

// roundHalfUp rounds x to the nearest integer with .5 going toward +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func setMonth(curve []int, month, v int) {
	if month < 0 || month >= len(curve) {
		return
	}
	curve[month] = v
}
