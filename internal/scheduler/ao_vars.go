package scheduler

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// aoVars holds the boolean assignment matrix x[person, slot, seat] plus the
// CP-SAT model it was posted against. It is the shared substrate both the
// hard-constraint builder and the objective builder operate on.
type aoVars struct {
	model *cpmodel.CpModelBuilder
	m     *AOModel

	// x[personIdx][slotIdx][seatIdx]
	x [][][]cpmodel.BoolVar
}

func newAOVars(m *AOModel) *aoVars {
	model := cpmodel.NewCpModelBuilder()
	v := &aoVars{model: model, m: m}
	v.x = make([][][]cpmodel.BoolVar, len(m.Persons))
	for pi := range m.Persons {
		v.x[pi] = make([][]cpmodel.BoolVar, len(m.Slots))
		for si, s := range m.Slots {
			v.x[pi][si] = make([]cpmodel.BoolVar, len(s.Seats))
			for ci := range s.Seats {
				name := fmt.Sprintf("x_p%d_s%d_c%d", pi, si, ci)
				v.x[pi][si][ci] = model.NewBoolVar().WithName(name)
			}
		}
	}
	return v
}

// personSlotSum returns a linear expression summing every seat variable of
// slot si for person pi (H2's "occupies at most one seat of a slot" building
// block).
func (v *aoVars) personSlotSum(pi, si int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, bv := range v.x[pi][si] {
		expr.Add(bv)
	}
	return expr
}

// personTotalExpr sums every assignment variable belonging to person pi,
// across every slot and seat — used for the hard upper bound and the
// ideal-deviation objective terms.
func (v *aoVars) personTotalExpr(pi int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for si := range v.m.Slots {
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}

// personDaySum sums assignment variables for person pi across every slot
// falling on the given day offset.
func (v *aoVars) personDaySum(pi, day int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, si := range v.m.slotsByDay[day] {
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}

// personDutySum sums assignments of person pi to slots of the given duty type.
func (v *aoVars) personDutySum(pi int, duty DutyType) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for si, s := range v.m.Slots {
		if s.Duty != duty {
			continue
		}
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}

// personNightSum sums night-duty (C or F) assignments of person pi.
func (v *aoVars) personNightSum(pi int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for si, s := range v.m.Slots {
		if !s.Duty.isNight() {
			continue
		}
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}

// personWeekendDutySum sums assignments of person pi to a specific weekend
// duty type (D, E, or F individually).
func (v *aoVars) personWeekendDutySum(pi int, duty DutyType) *cpmodel.LinearExpr {
	return v.personDutySum(pi, duty)
}
