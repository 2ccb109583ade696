package scheduler

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// postAOHardConstraints posts H1-H6 against v's model. upperBound is base+2
// on the first solve attempt, relaxed to base+3 on an infeasible retry.
func postAOHardConstraints(v *aoVars, upperBound int) {
	m := v.m

	// H1 — seat exclusivity: every seat filled by exactly one person.
	for si, s := range m.Slots {
		for ci := range s.Seats {
			var occupants []cpmodel.BoolVar
			for pi := range m.Persons {
				occupants = append(occupants, v.x[pi][si][ci])
			}
			v.model.AddExactlyOne(occupants...)
		}
	}

	// H2 — single occupancy: a person occupies at most one seat of a slot.
	for pi := range m.Persons {
		for si := range m.Slots {
			v.model.AddLessOrEqual(v.personSlotSum(pi, si), cpmodel.NewConstant(1))
		}
	}

	// H3 — daily cap: at most two shifts per calendar day.
	for pi := range m.Persons {
		for day := range m.slotsByDay {
			v.model.AddLessOrEqual(v.personDaySum(pi, day), cpmodel.NewConstant(2))
		}
	}

	// H4 — hard upper bound on total assignments.
	for pi := range m.Persons {
		v.model.AddLessOrEqual(v.personTotalExpr(pi), cpmodel.NewConstant(int64(upperBound)))
	}

	// H5 — forbidden transitions: no C/F on day d followed by A/D on day d+1.
	for day, slotsToday := range m.slotsByDay {
		slotsTomorrow, ok := m.slotsByDay[day+1]
		if !ok {
			continue
		}
		var nightSlots, morningSlots []int
		for _, si := range slotsToday {
			if m.Slots[si].Duty.isNight() {
				nightSlots = append(nightSlots, si)
			}
		}
		for _, si := range slotsTomorrow {
			duty := m.Slots[si].Duty
			if duty == DutyA || duty == DutyD {
				morningSlots = append(morningSlots, si)
			}
		}
		if len(nightSlots) == 0 || len(morningSlots) == 0 {
			continue
		}
		for pi := range m.Persons {
			for _, nightSi := range nightSlots {
				for _, morningSi := range morningSlots {
					pair := cpmodel.NewLinearExpr()
					for _, bv := range v.x[pi][nightSi] {
						pair.Add(bv)
					}
					for _, bv := range v.x[pi][morningSi] {
						pair.Add(bv)
					}
					v.model.AddLessOrEqual(pair, cpmodel.NewConstant(1))
				}
			}
		}
	}

	// H6 — coverage equality, redundant with H1 summed over a slot's seats;
	// kept explicit to aid the solver as spec.md §4.2 directs.
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
