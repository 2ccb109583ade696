package scheduler

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/noah-isme/roster-scheduler-api/pkg/config"
)

// buildNAObjective constructs the tiered penalty expression of spec.md §4.3
// (NA table) and posts it as the model's minimization objective.
func buildNAObjective(v *naVars, w config.NAWeights) *cpmodel.LinearExpr {
	obj := cpmodel.NewLinearExpr()

	addNAUnavailability(v, obj, w.Unavailability)
	addNAAboveIdeal(v, obj, w.AboveIdealPlus2)
	addNAThreeConsecutiveDays(v, obj, w.ThreeConsecutiveDays)
	addNASegmentFairness(v, obj, w.SegmentFairness)
	addNAHistoryFairness(v, obj, w.HistoryFairness)
	addNAWeeklyClustering(v, obj, w.WeeklyClustering)
	addNABothSegmentsSameDay(v, obj, w.BothSegmentsSameDay)
	addNAPreferences(v, obj, w.LikesMorningMatched, w.LikesEveningMatched)
	addNALexicographicTiebreak(v, obj, w.LexicographicTiebreak)

	return obj
}

func addNAUnavailability(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for pi, p := range m.Persons {
		for si, s := range m.Slots {
			if !m.isUnavailable(p.ID, s.ID) {
				continue
			}
			for _, bv := range v.x[pi][si] {
				obj.AddTerm(bv, weight)
			}
		}
	}
}

// addNAAboveIdeal penalizes assignments beyond ideal+2; NA mode has no
// below-ideal tier (spec.md §4.3 NA table lists only the above-ideal term).
func addNAAboveIdeal(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for pi := range m.Persons {
		ideal := m.ideal[pi]
		over := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("over_p%d", pi))
		under := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("under_p%d", pi))

		eq := v.personTotalExpr(pi)
		eq.AddTerm(over, -1)
		eq.AddTerm(under, 1)
		v.model.AddEquality(eq, cpmodel.NewConstant(int64(ideal)))

		over2 := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("over2_p%d", pi))
		v.model.AddLessOrEqual(over, overPlusSlack(v, over2))
		obj.AddTerm(over2, weight)
	}
}

// overPlusSlack expresses `over <= 2 + over2` so that over2 only accumulates
// the portion of the deviation strictly beyond +2.
func overPlusSlack(v *naVars, over2 cpmodel.IntVar) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	expr.AddConstant(2)
	expr.Add(over2)
	return expr
}

func addNAThreeConsecutiveDays(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	days := sortedDayKeys(m.slotsByDay)
	if len(days) == 0 {
		return
	}
	maxDay := days[len(days)-1]

	for pi := range m.Persons {
		y := make(map[int]cpmodel.BoolVar, len(days))
		for _, day := range days {
			yv := v.model.NewBoolVar().WithName(fmt.Sprintf("y_p%d_d%d", pi, day))
			sum := v.personDaySum(pi, day)
			v.model.AddLessOrEqual(yv, sum)
			doubled := cpmodel.NewLinearExpr()
			doubled.AddTerm(yv, 2)
			v.model.AddLessOrEqual(sum, doubled)
			y[day] = yv
		}
		for day := 0; day+2 <= maxDay; day++ {
			y0, ok0 := y[day]
			y1, ok1 := y[day+1]
			y2, ok2 := y[day+2]
			if !ok0 || !ok1 || !ok2 {
				continue
			}
			z := v.model.NewBoolVar().WithName(fmt.Sprintf("z3_p%d_d%d", pi, day))
			window := cpmodel.NewLinearExpr()
			window.Add(y0)
			window.Add(y1)
			window.Add(y2)
			window.AddConstant(-2)
			v.model.AddLessOrEqual(window, z)
			obj.AddTerm(z, weight)
		}
	}
}

func addNASegmentFairness(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	if weight == 0 {
		return
	}
	m := v.m
	for _, seg := range []Segment{SegmentMorning, SegmentEvening} {
		seg := seg
		count := 0
		for _, s := range m.Slots {
			if s.Segment == seg {
				count += len(s.Seats)
			}
		}
		target := count / len(m.Persons)
		for pi := range m.Persons {
			over := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("seg%s_over_p%d", seg, pi))
			under := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("seg%s_under_p%d", seg, pi))
			eq := v.personSegmentSum(pi, seg)
			eq.AddTerm(over, -1)
			eq.AddTerm(under, 1)
			v.model.AddEquality(eq, cpmodel.NewConstant(int64(target)))
			obj.AddTerm(over, weight)
			obj.AddTerm(under, weight)
		}
	}
}

// addNAHistoryFairness dispersion-penalizes deviation of each person's total
// assignments from the in-period ideal (base). The person's History counts
// are not read, so this term carries no historical debt or credit.
func addNAHistoryFairness(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	if weight == 0 {
		return
	}
	m := v.m
	for pi := range m.Persons {
		target := m.ideal[pi]
		over := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("hist_over_p%d", pi))
		under := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("hist_under_p%d", pi))
		eq := v.personTotalExpr(pi)
		eq.AddTerm(over, -1)
		eq.AddTerm(under, 1)
		v.model.AddEquality(eq, cpmodel.NewConstant(int64(target)))
		obj.AddTerm(over, weight)
		obj.AddTerm(under, weight)
	}
}

func addNAWeeklyClustering(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	weeks := make(map[[2]int][]int)
	for day := range m.slotsByDay {
		y, w := m.Period.isoWeek(day)
		key := [2]int{y, w}
		weeks[key] = append(weeks[key], day)
	}
	for pi := range m.Persons {
		for week, days := range weeks {
			sum := cpmodel.NewLinearExpr()
			for _, day := range days {
				for _, si := range m.slotsByDay[day] {
					for _, bv := range v.x[pi][si] {
						sum.Add(bv)
					}
				}
			}
			slack := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(
				fmt.Sprintf("week_slack_p%d_y%dw%d", pi, week[0], week[1]))
			sum.AddConstant(-2)
			v.model.AddLessOrEqual(sum, slack)
			obj.AddTerm(slack, weight)
		}
	}
}

func addNABothSegmentsSameDay(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for pi := range m.Persons {
		for day := range m.slotsByDay {
			both := v.model.NewBoolVar().WithName(fmt.Sprintf("both_p%d_d%d", pi, day))
			sum := v.personDaySum(pi, day)
			// 2*both <= sum and sum-1 <= both: both=1 exactly when sum==2.
			doubled := cpmodel.NewLinearExpr()
			doubled.AddTerm(both, 2)
			v.model.AddLessOrEqual(doubled, sum)
			excess := v.personDaySum(pi, day)
			excess.AddConstant(-1)
			v.model.AddLessOrEqual(excess, both)
			obj.AddTerm(both, weight)
		}
	}
}

func addNAPreferences(v *naVars, obj *cpmodel.LinearExpr, morningWeight, eveningWeight int64) {
	m := v.m
	for pi, p := range m.Persons {
		if p.LikesMorning && morningWeight != 0 {
			for si, s := range m.Slots {
				if s.Segment != SegmentMorning {
					continue
				}
				for _, bv := range v.x[pi][si] {
					obj.AddTerm(bv, morningWeight)
				}
			}
		}
		if p.LikesEvening && eveningWeight != 0 {
			for si, s := range m.Slots {
				if s.Segment != SegmentEvening {
					continue
				}
				for _, bv := range v.x[pi][si] {
					obj.AddTerm(bv, eveningWeight)
				}
			}
		}
	}
}

func addNALexicographicTiebreak(v *naVars, obj *cpmodel.LinearExpr, weight int64) {
	if weight == 0 {
		return
	}
	m := v.m
	order := make([]int, len(m.Persons))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := m.Persons[order[j-1]], m.Persons[order[j]]
			less := a.History.TotalAllTime < b.History.TotalAllTime ||
				(a.History.TotalAllTime == b.History.TotalAllTime && a.ID < b.ID)
			if !less {
				break
			}
			order[j-1], order[j] = order[j], order[j-1]
		}
	}
	rank := make([]int64, len(m.Persons))
	for r, pi := range order {
		rank[pi] = int64(len(m.Persons) - r)
	}
	for pi := range m.Persons {
		for si := range m.Slots {
			for _, bv := range v.x[pi][si] {
				obj.AddTerm(bv, weight*rank[pi])
			}
		}
	}
}
