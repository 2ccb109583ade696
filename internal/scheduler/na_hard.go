package scheduler

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// postNAHardConstraints posts H1-H4 and H6 (H5 is AÖ-only; there are no
// night shifts in NA mode) against v's model.
func postNAHardConstraints(v *naVars, upperBound int) {
	m := v.m

	// H1 — seat exclusivity.
	for si, s := range m.Slots {
		for ci := range s.Seats {
			var occupants []cpmodel.BoolVar
			for pi := range m.Persons {
				occupants = append(occupants, v.x[pi][si][ci])
			}
			v.model.AddExactlyOne(occupants...)
		}
	}

	// H2 — single occupancy per slot.
	for pi := range m.Persons {
		for si := range m.Slots {
			v.model.AddLessOrEqual(v.personSlotSum(pi, si), cpmodel.NewConstant(1))
		}
	}

	// H3 — daily cap: MORNING + EVENING on the same day counts as two, the
	// hard maximum, so this constraint is unchanged from AÖ.
	for pi := range m.Persons {
		for day := range m.slotsByDay {
			v.model.AddLessOrEqual(v.personDaySum(pi, day), cpmodel.NewConstant(2))
		}
	}

	// H4 — hard upper bound on total assignments.
	for pi := range m.Persons {
		v.model.AddLessOrEqual(v.personTotalExpr(pi), cpmodel.NewConstant(int64(upperBound)))
	}

	// H6 — coverage equality, redundant with H1, kept explicit.
	for si, s := range m.Slots {
		expr := cpmodel.NewLinearExpr()
		for pi := range m.Persons {
			for ci := range s.Seats {
				expr.Add(v.x[pi][si][ci])
			}
		}
		v.model.AddEquality(expr, cpmodel.NewConstant(int64(len(s.Seats))))
	}
}
