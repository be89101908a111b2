package profile

import (
	"math"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// RecommendLift computes the mast raises that bring the critical point to zero
// 60% clearance. Raising A by x lifts the line of sight at fraction f by
// x(1-f); raising B lifts it by x*f; raising both by x lifts it by x.
//
// An unobstructed path needs no lift. An obstruction located at an endpoint has
// no finite single-mast solution and is reported as a calculation error.
func RecommendLift(minClearance60, criticalDistance, total float64) (domain.RecommendedLift, error) {
	obstruction := math.Max(0, -minClearance60)
	if obstruction == 0 {
		return domain.RecommendedLift{}, nil
	}
	if !(total > 0) {
		return domain.RecommendedLift{}, domain.CalculationError("lift: path length must be positive, got %g", total)
	}

	f := criticalDistance / total
	if !(f > 0 && f < 1) {
		return domain.RecommendedLift{}, domain.CalculationError("lift: critical point at path endpoint (f=%g), single-mast lift undefined", f).
			WithDetail("obstruction", obstruction)
	}

	lift := domain.RecommendedLift{
		OnlyA:     obstruction / (1 - f),
		OnlyB:     obstruction / f,
		BothEqual: obstruction,
	}
	if !finite(lift.OnlyA) || !finite(lift.OnlyB) || !finite(lift.BothEqual) {
		return domain.RecommendedLift{}, domain.CalculationError("lift: non-finite result for f=%g", f)
	}
	return lift, nil
}
