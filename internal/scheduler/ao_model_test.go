package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func baseAORequest() AORequest {
	return AORequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-08")},
		Persons: []AOPerson{
			{ID: "alice", History: AOHistory{ExpectedTotal: 0}},
			{ID: "bob", History: AOHistory{TotalAllTime: 10, ExpectedTotal: 8}},
		},
		Slots: []AOSlot{
			{ID: "s1", Date: "2026-03-02", Duty: DutyA, Seats: []AOSeat{{ID: "seat1"}, {ID: "seat2"}}},
			{ID: "s2", Date: "2026-03-03", Duty: DutyB, Seats: []AOSeat{{ID: "seat3"}}},
		},
	}
}

func TestNewAOModelIdealShare(t *testing.T) {
	req := baseAORequest()
	m, err := NewAOModel(req)
	require.NoError(t, err)

	// base = floor(3 seats / 2 persons) = 1
	assert.Equal(t, 1, m.base)
	// alice is a newcomer (expectedTotal==0) -> ideal = base
	assert.Equal(t, 1, m.ideal[m.personIdx["alice"]])
	// bob: fark = totalAllTime(10) - expectedTotal(8) = 2; ideal = clamp(base-fark,0,base+2) = clamp(-1,0,3) = 0
	assert.Equal(t, 0, m.ideal[m.personIdx["bob"]])
}

func TestNewAOModelRejectsEmptySlots(t *testing.T) {
	req := baseAORequest()
	req.Slots = nil
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsEmptyPersons(t *testing.T) {
	req := baseAORequest()
	req.Persons = nil
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsInvertedPeriod(t *testing.T) {
	req := baseAORequest()
	req.Period.End = mustParseDate("2026-03-01")
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsDuplicatePersonID(t *testing.T) {
	req := baseAORequest()
	req.Persons = append(req.Persons, AOPerson{ID: "alice"})
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsDuplicateSlotID(t *testing.T) {
	req := baseAORequest()
	req.Slots = append(req.Slots, AOSlot{ID: "s1", Date: "2026-03-04", Duty: DutyA, Seats: []AOSeat{{ID: "seat9"}}})
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsUnknownDutyType(t *testing.T) {
	req := baseAORequest()
	req.Slots[0].Duty = "Z"
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsZeroSeatSlot(t *testing.T) {
	req := baseAORequest()
	req.Slots = append(req.Slots, AOSlot{ID: "s3", Date: "2026-03-05", Duty: DutyA})
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsDuplicateSeatID(t *testing.T) {
	req := baseAORequest()
	req.Slots[1].Seats = append(req.Slots[1].Seats, AOSeat{ID: "seat1"})
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsUnavailabilityForUnknownPerson(t *testing.T) {
	req := baseAORequest()
	req.Unavailability = []AOUnavailability{{PersonID: "ghost", SlotID: "s1"}}
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelRejectsUnavailabilityForUnknownSlot(t *testing.T) {
	req := baseAORequest()
	req.Unavailability = []AOUnavailability{{PersonID: "alice", SlotID: "ghost"}}
	_, err := NewAOModel(req)
	require.Error(t, err)
}

func TestNewAOModelIsUnavailable(t *testing.T) {
	req := baseAORequest()
	req.Unavailability = []AOUnavailability{{PersonID: "alice", SlotID: "s1"}}
	m, err := NewAOModel(req)
	require.NoError(t, err)
	assert.True(t, m.isUnavailable("alice", "s1"))
	assert.False(t, m.isUnavailable("alice", "s2"))
	assert.False(t, m.isUnavailable("bob", "s1"))
}

func TestDutyTypeHelpers(t *testing.T) {
	assert.True(t, DutyC.isNight())
	assert.True(t, DutyF.isNight())
	assert.False(t, DutyA.isNight())

	assert.True(t, DutyD.isWeekend())
	assert.True(t, DutyE.isWeekend())
	assert.True(t, DutyF.isWeekend())
	assert.False(t, DutyA.isWeekend())

	assert.True(t, DutyA.valid())
	assert.False(t, DutyType("Z").valid())
}
