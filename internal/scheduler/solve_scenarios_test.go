package scheduler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roster-scheduler-api/pkg/config"
)

// These mirror the concrete end-to-end scenarios enumerated for this domain:
// small, hand-constructed requests with a single obviously-correct solution,
// exercised against the real CP-SAT backed SolveAO/SolveNA entry points.

func testDriverConfig() DriverConfig {
	return DriverConfig{
		TimeLimitSeconds:     5,
		RandomSeed:           42,
		NumSearchWorkers:     4,
		RelaxedUpperBoundGap: 3,
	}
}

func testAOWeights() config.AOWeights {
	return config.AOWeights{
		Unavailability:        200000,
		BelowIdealMinus2:      140000,
		AboveIdealPlus2:       120000,
		ZeroAssignments:       80000,
		UnavailabilityTie:     1000,
		ThreeConsecutiveDays:  7000,
		SoftIdealDeviation:    4000,
		HistoryFairness:       3000,
		DutyTypeFairness:      1000,
		NightFairness:         1000,
		WeekendSlotFairness:   50,
		WeeklyClustering:      100,
		TwoShiftsSameDay:      100,
		ConsecutiveNight:      100,
		DislikesWeekend:       10,
		LikesNight:            -5,
		LexicographicTiebreak: 1,
	}
}

func testNAWeights() config.NAWeights {
	return config.NAWeights{
		Unavailability:        200000,
		AboveIdealPlus2:       120000,
		ThreeConsecutiveDays:  7000,
		SegmentFairness:       1000,
		HistoryFairness:       3000,
		WeeklyClustering:      100,
		BothSegmentsSameDay:   100,
		LikesMorningMatched:   -5,
		LikesEveningMatched:   -5,
		LexicographicTiebreak: 1,
	}
}

func TestSolveAOTrivialSingleSeat(t *testing.T) {
	req := AORequest{
		Period: Period{ID: "p1", Start: mustParseDate("2025-12-01"), End: mustParseDate("2025-12-01")},
		Persons: []AOPerson{
			{ID: "u1"},
		},
		Slots: []AOSlot{
			{ID: "s1", Date: "2025-12-01", Duty: DutyA, Seats: []AOSeat{{ID: "seat1", Role: RoleOperator}}},
		},
	}

	result, err := SolveAO(req, testAOWeights(), testDriverConfig(), nil)
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Meta.SolverStatus)

	require.Len(t, result.Assignments, 1)
	a := result.Assignments[0]
	assert.Equal(t, "s1", a.SlotID)
	assert.Equal(t, "seat1", a.SeatID)
	assert.Equal(t, "u1", a.PersonID)
	assert.Equal(t, RoleOperator, a.SeatRole)
	assert.False(t, a.IsExtra)
	assert.Equal(t, 1, result.Meta.Base)
}

func TestSolveAODeskOperatorSplit(t *testing.T) {
	req := AORequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-02")},
		Persons: []AOPerson{
			{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "u4"},
		},
		Slots: []AOSlot{
			{ID: "s1", Date: "2026-03-02", Duty: DutyA, Seats: []AOSeat{
				{ID: "seat1"}, {ID: "seat2"}, {ID: "seat3"}, {ID: "seat4"},
			}},
		},
	}

	result, err := SolveAO(req, testAOWeights(), testDriverConfig(), nil)
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Meta.SolverStatus)
	require.Len(t, result.Assignments, 4)

	var desk, operator int
	seen := make(map[string]bool)
	for _, a := range result.Assignments {
		assert.False(t, seen[a.PersonID], "each person should be assigned exactly once")
		seen[a.PersonID] = true
		switch a.SeatRole {
		case RoleDesk:
			desk++
		case RoleOperator:
			operator++
		}
	}
	assert.Equal(t, 2, desk)
	assert.Equal(t, 2, operator)
}

func TestSolveAOForbiddenTransition(t *testing.T) {
	req := AORequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-03")},
		Persons: []AOPerson{
			{ID: "u1"}, {ID: "u2"},
		},
		Slots: []AOSlot{
			{ID: "day1", Date: "2026-03-02", Duty: DutyC, Seats: []AOSeat{{ID: "seat1"}}},
			{ID: "day2", Date: "2026-03-03", Duty: DutyA, Seats: []AOSeat{{ID: "seat2"}}},
		},
	}

	result, err := SolveAO(req, testAOWeights(), testDriverConfig(), nil)
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Meta.SolverStatus)
	require.Len(t, result.Assignments, 2)

	var day1Person, day2Person string
	for _, a := range result.Assignments {
		switch a.SlotID {
		case "day1":
			day1Person = a.PersonID
		case "day2":
			day2Person = a.PersonID
		}
	}
	assert.NotEmpty(t, day1Person)
	assert.NotEmpty(t, day2Person)
	assert.NotEqual(t, day1Person, day2Person, "the day1 C-shift person must not take the day2 A-shift")
}

func TestSolveAOUnavailabilityRespected(t *testing.T) {
	req := AORequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-03")},
		Persons: []AOPerson{
			{ID: "u1"}, {ID: "u2"},
		},
		Slots: []AOSlot{
			{ID: "s1", Date: "2026-03-02", Duty: DutyA, Seats: []AOSeat{{ID: "seat1"}}},
			{ID: "s2", Date: "2026-03-03", Duty: DutyA, Seats: []AOSeat{{ID: "seat2"}}},
		},
		Unavailability: []AOUnavailability{
			{PersonID: "u1", SlotID: "s2"},
		},
	}

	result, err := SolveAO(req, testAOWeights(), testDriverConfig(), nil)
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Meta.SolverStatus)
	assert.Equal(t, 0, result.Meta.UnavailabilityViolations)

	byPerson := make(map[string]string)
	for _, a := range result.Assignments {
		byPerson[a.SlotID] = a.PersonID
	}
	assert.Equal(t, "u1", byPerson["s1"])
	assert.Equal(t, "u2", byPerson["s2"])
}

func TestSolveAOUnavailabilityForced(t *testing.T) {
	req := AORequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-03")},
		Persons: []AOPerson{
			{ID: "u1"},
		},
		Slots: []AOSlot{
			{ID: "s1", Date: "2026-03-02", Duty: DutyA, Seats: []AOSeat{{ID: "seat1"}}},
			{ID: "s2", Date: "2026-03-03", Duty: DutyA, Seats: []AOSeat{{ID: "seat2"}}},
		},
		Unavailability: []AOUnavailability{
			{PersonID: "u1", SlotID: "s1"},
			{PersonID: "u1", SlotID: "s2"},
		},
	}

	result, err := SolveAO(req, testAOWeights(), testDriverConfig(), nil)
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Meta.SolverStatus)
	require.Len(t, result.Assignments, 2)
	for _, a := range result.Assignments {
		assert.Equal(t, "u1", a.PersonID)
	}
	assert.Equal(t, 2, result.Meta.UnavailabilityViolations)
	assert.True(t, containsSubstring(result.Meta.Warnings, "unavailability constraint(s) could not be honored"),
		"expected a warning naming the forced unavailability override, got: %v", result.Meta.Warnings)
}

func containsSubstring(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestSolveNADaySplit(t *testing.T) {
	req := NARequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-02")},
		Persons: []NAPerson{
			{ID: "u1", LikesMorning: true},
			{ID: "u2", LikesEvening: true},
		},
		Slots: []NASlot{
			{ID: "morning", Date: "2026-03-02", Segment: SegmentMorning, Seats: []NASeat{{ID: "seat1"}}},
			{ID: "evening", Date: "2026-03-02", Segment: SegmentEvening, Seats: []NASeat{{ID: "seat2"}}},
		},
	}

	result, err := SolveNA(req, testNAWeights(), testDriverConfig(), nil)
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Meta.SolverStatus)
	require.Len(t, result.Assignments, 2)

	bySlot := make(map[string]string)
	for _, a := range result.Assignments {
		bySlot[a.SlotID] = a.PersonID
	}
	assert.NotEqual(t, bySlot["morning"], bySlot["evening"])
	// preferences break ties: u1 likes morning, u2 likes evening
	assert.Equal(t, "u1", bySlot["morning"])
	assert.Equal(t, "u2", bySlot["evening"])
}
