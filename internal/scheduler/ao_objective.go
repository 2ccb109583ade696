package scheduler

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/noah-isme/roster-scheduler-api/pkg/config"
)

// buildAOObjective constructs the full tiered penalty expression of
// spec.md §4.3 and posts it as the model's minimization objective.
func buildAOObjective(v *aoVars, w config.AOWeights) *cpmodel.LinearExpr {
	obj := cpmodel.NewLinearExpr()

	addUnavailability(v, obj, w.Unavailability, w.UnavailabilityTie)
	addIdealDeviation(v, obj, w)
	addZeroAssignments(v, obj, w.ZeroAssignments)
	addThreeConsecutiveDays(v, obj, w.ThreeConsecutiveDays)
	addDutyTypeFairness(v, obj, w.DutyTypeFairness)
	addNightFairness(v, obj, w.NightFairness)
	addWeekendSlotFairness(v, obj, w.WeekendSlotFairness)
	addWeeklyClustering(v, obj, w.WeeklyClustering)
	addTwoShiftsSameDay(v, obj, w.TwoShiftsSameDay)
	addConsecutiveNight(v, obj, w.ConsecutiveNight)
	addPreferences(v, obj, w.DislikesWeekend, w.LikesNight)
	addLexicographicTiebreak(v, obj, w.LexicographicTiebreak)

	return obj
}

// addUnavailability penalizes each (person, slot) actually assigned despite
// being blocked. On a slot from which every person is blocked, the much
// smaller tie-breaker weight is added on top of each such assignment.
func addUnavailability(v *aoVars, obj *cpmodel.LinearExpr, weight, tieWeight int64) {
	m := v.m
	allBlocked := make([]bool, len(m.Slots))
	for si, s := range m.Slots {
		allBlocked[si] = true
		for _, p := range m.Persons {
			if !m.isUnavailable(p.ID, s.ID) {
				allBlocked[si] = false
				break
			}
		}
	}
	for pi, p := range m.Persons {
		for si, s := range m.Slots {
			if !m.isUnavailable(p.ID, s.ID) {
				continue
			}
			coef := weight
			if allBlocked[si] {
				coef += tieWeight
			}
			for _, bv := range v.x[pi][si] {
				obj.AddTerm(bv, coef)
			}
		}
	}
}

// addIdealDeviation implements the tiered over/under deviation terms:
// actual - ideal = over - under, with over split into a [0,1]-band (4000)
// and a [2,inf)-band (120000), and under split into a [0,1]-band (history
// fairness proxy, 3000, folded in separately) and a [2,inf)-band (140000).
func addIdealDeviation(v *aoVars, obj *cpmodel.LinearExpr, w config.AOWeights) {
	m := v.m
	for pi := range m.Persons {
		ideal := m.ideal[pi]

		over1 := v.model.NewIntVar(0, 1).WithName(fmt.Sprintf("over1_p%d", pi))
		over2 := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("over2_p%d", pi))
		under1 := v.model.NewIntVar(0, 1).WithName(fmt.Sprintf("under1_p%d", pi))
		under2 := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("under2_p%d", pi))

		// actual - ideal = (over1+over2) - (under1+under2)
		eq := cpmodel.NewLinearExpr()
		for si := range m.Slots {
			for _, bv := range v.x[pi][si] {
				eq.Add(bv)
			}
		}
		eq.AddTerm(over1, -1)
		eq.AddTerm(over2, -1)
		eq.AddTerm(under1, 1)
		eq.AddTerm(under2, 1)
		v.model.AddEquality(eq, cpmodel.NewConstant(int64(ideal)))

		obj.AddTerm(over1, w.SoftIdealDeviation)
		obj.AddTerm(over2, w.AboveIdealPlus2)
		obj.AddTerm(under1, w.HistoryFairness)
		obj.AddTerm(under2, w.BelowIdealMinus2)
	}
}

// addZeroAssignments adds an 80000 indicator per person who ends up with
// zero shifts.
func addZeroAssignments(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for pi := range m.Persons {
		zero := v.model.NewBoolVar().WithName(fmt.Sprintf("zero_p%d", pi))
		maxPossible := len(m.Slots) * 2

		// actual <= M*(1-zero): forces zero=0 whenever actual>0.
		upper := cpmodel.NewLinearExpr()
		upper.AddConstant(int64(maxPossible))
		upper.AddTerm(zero, int64(-maxPossible))
		v.model.AddLessOrEqual(v.personTotalExpr(pi), upper)

		// actual >= 1-M*zero: forces zero=1 whenever actual==0.
		lower := cpmodel.NewLinearExpr()
		lower.AddConstant(1)
		lower.AddTerm(zero, int64(-maxPossible))
		v.model.AddLessOrEqual(lower, v.personTotalExpr(pi))

		obj.AddTerm(zero, weight)
	}
}

// addThreeConsecutiveDays penalizes every 3-day window in which a person is
// assigned on all three days.
func addThreeConsecutiveDays(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
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

// dispersionPenalty adds a paired-absolute-difference-to-target dispersion
// term: for each person, |count - target| via over/under slacks, summed with
// the given weight. target is the per-person ideal share of the category.
func dispersionPenalty(v *aoVars, obj *cpmodel.LinearExpr, weight int64, label string, countExpr func(pi int) *cpmodel.LinearExpr, target func(pi int) int) {
	if weight == 0 {
		return
	}
	m := v.m
	for pi := range m.Persons {
		t := target(pi)
		over := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("%s_over_p%d", label, pi))
		under := v.model.NewIntVar(0, int64(len(m.Slots))).WithName(fmt.Sprintf("%s_under_p%d", label, pi))

		eq := countExpr(pi)
		eq.AddTerm(over, -1)
		eq.AddTerm(under, 1)
		v.model.AddEquality(eq, cpmodel.NewConstant(int64(t)))

		obj.AddTerm(over, weight)
		obj.AddTerm(under, weight)
	}
}

func addDutyTypeFairness(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for _, duty := range []DutyType{DutyA, DutyB, DutyC} {
		duty := duty
		count := 0
		for _, s := range m.Slots {
			if s.Duty == duty {
				count += len(s.Seats)
			}
		}
		target := count / len(m.Persons)
		dispersionPenalty(v, obj, weight, "duty"+string(duty),
			func(pi int) *cpmodel.LinearExpr { return v.personDutySum(pi, duty) },
			func(int) int { return target },
		)
	}
}

func addNightFairness(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	count := 0
	for _, s := range m.Slots {
		if s.Duty.isNight() {
			count += len(s.Seats)
		}
	}
	target := count / len(m.Persons)
	dispersionPenalty(v, obj, weight, "night",
		func(pi int) *cpmodel.LinearExpr { return v.personNightSum(pi) },
		func(int) int { return target },
	)
}

func addWeekendSlotFairness(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for _, duty := range []DutyType{DutyD, DutyE, DutyF} {
		duty := duty
		count := 0
		for _, s := range m.Slots {
			if s.Duty == duty {
				count += len(s.Seats)
			}
		}
		target := count / len(m.Persons)
		dispersionPenalty(v, obj, weight, "weekend"+string(duty),
			func(pi int) *cpmodel.LinearExpr { return v.personWeekendDutySum(pi, duty) },
			func(int) int { return target },
		)
	}
}

// addWeeklyClustering penalizes assignments beyond 2 in any ISO week.
func addWeeklyClustering(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	weeks := make(map[[2]int][]int) // (isoYear, isoWeek) -> day offsets
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

// addTwoShiftsSameDay penalizes each day a person has exactly 2 assignments.
func addTwoShiftsSameDay(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	for pi := range m.Persons {
		for day := range m.slotsByDay {
			two := v.model.NewBoolVar().WithName(fmt.Sprintf("two_p%d_d%d", pi, day))
			sum := v.personDaySum(pi, day)
			// 2*two <= sum and sum-1 <= two: two=1 exactly when sum==2.
			doubled := cpmodel.NewLinearExpr()
			doubled.AddTerm(two, 2)
			v.model.AddLessOrEqual(doubled, sum)
			excess := v.personDaySum(pi, day)
			excess.AddConstant(-1)
			v.model.AddLessOrEqual(excess, two)
			obj.AddTerm(two, weight)
		}
	}
}

// addConsecutiveNight penalizes adjacent days both carrying a night (C/F)
// assignment for the same person.
func addConsecutiveNight(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
	m := v.m
	days := sortedDayKeys(m.slotsByDay)
	if len(days) == 0 {
		return
	}

	for pi := range m.Persons {
		nightIndicator := make(map[int]cpmodel.BoolVar, len(days))
		for _, day := range days {
			nightSum := cpmodel.NewLinearExpr()
			hasNight := false
			for _, si := range m.slotsByDay[day] {
				if !m.Slots[si].Duty.isNight() {
					continue
				}
				hasNight = true
				for _, bv := range v.x[pi][si] {
					nightSum.Add(bv)
				}
			}
			if !hasNight {
				continue
			}
			zv := v.model.NewBoolVar().WithName(fmt.Sprintf("night_p%d_d%d", pi, day))
			v.model.AddLessOrEqual(zv, nightSum)
			doubled := cpmodel.NewLinearExpr()
			doubled.AddTerm(zv, 2)
			v.model.AddLessOrEqual(nightSum, doubled)
			nightIndicator[day] = zv
		}
		for _, day := range days {
			z0, ok0 := nightIndicator[day]
			z1, ok1 := nightIndicator[day+1]
			if !ok0 || !ok1 {
				continue
			}
			pairVar := v.model.NewBoolVar().WithName(fmt.Sprintf("consnight_p%d_d%d", pi, day))
			pairSum := cpmodel.NewLinearExpr()
			pairSum.Add(z0)
			pairSum.Add(z1)
			pairSum.AddConstant(-1)
			v.model.AddLessOrEqual(pairSum, pairVar)
			obj.AddTerm(pairVar, weight)
		}
	}
}

// addPreferences folds the +10/-5 per-assignment preference terms directly
// into the objective.
func addPreferences(v *aoVars, obj *cpmodel.LinearExpr, dislikesWeekendWeight, likesNightWeight int64) {
	m := v.m
	for pi, p := range m.Persons {
		if p.DislikesWeekend && dislikesWeekendWeight != 0 {
			for si, s := range m.Slots {
				if !s.Duty.isWeekend() {
					continue
				}
				for _, bv := range v.x[pi][si] {
					obj.AddTerm(bv, dislikesWeekendWeight)
				}
			}
		}
		if p.LikesNight && likesNightWeight != 0 {
			for si, s := range m.Slots {
				if !s.Duty.isNight() {
					continue
				}
				for _, bv := range v.x[pi][si] {
					obj.AddTerm(bv, likesNightWeight)
				}
			}
		}
	}
}

// addLexicographicTiebreak nudges the solver toward a deterministic ordering:
// persons with higher (totalAllTime, id) are ranked first and penalized
// first, at a per-assignment weight of `weight` times their ordinal rank
// (personCount for the first-ranked person down to 1 for the last). Moving
// one assignment between two persons changes this term by up to
// weight*(personCount-1), so with enough persons it can outweigh a tier-5
// preference term.
func addLexicographicTiebreak(v *aoVars, obj *cpmodel.LinearExpr, weight int64) {
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

// sortedDayKeys returns the day offsets present in slotsByDay in ascending order.
func sortedDayKeys(byDay map[int][]int) []int {
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j-1] > days[j]; j-- {
			days[j-1], days[j] = days[j], days[j-1]
		}
	}
	return days
}
