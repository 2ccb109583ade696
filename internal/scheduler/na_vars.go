package scheduler

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
)

// naVars holds the boolean assignment matrix x[person, slot, seat] for NA mode.
type naVars struct {
	model *cpmodel.CpModelBuilder
	m     *NAModel

	x [][][]cpmodel.BoolVar
}

func newNAVars(m *NAModel) *naVars {
	model := cpmodel.NewCpModelBuilder()
	v := &naVars{model: model, m: m}
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

func (v *naVars) personSlotSum(pi, si int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, bv := range v.x[pi][si] {
		expr.Add(bv)
	}
	return expr
}

func (v *naVars) personTotalExpr(pi int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for si := range v.m.Slots {
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}

func (v *naVars) personDaySum(pi, day int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, si := range v.m.slotsByDay[day] {
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}

// personSegmentSum sums assignments of person pi to slots of the given segment.
func (v *naVars) personSegmentSum(pi int, seg Segment) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for si, s := range v.m.Slots {
		if s.Segment != seg {
			continue
		}
		for _, bv := range v.x[pi][si] {
			expr.Add(bv)
		}
	}
	return expr
}
