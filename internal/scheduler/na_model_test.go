package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseNARequest() NARequest {
	return NARequest{
		Period: Period{ID: "p1", Start: mustParseDate("2026-03-02"), End: mustParseDate("2026-03-08")},
		Persons: []NAPerson{
			{ID: "alice", LikesMorning: true},
			{ID: "bob", LikesEvening: true},
		},
		Slots: []NASlot{
			{ID: "s1", Date: "2026-03-02", Segment: SegmentMorning, Seats: []NASeat{{ID: "seat1"}, {ID: "seat2"}}},
			{ID: "s2", Date: "2026-03-02", Segment: SegmentEvening, Seats: []NASeat{{ID: "seat3"}}},
		},
	}
}

func TestNewNAModelIdealIsAlwaysBase(t *testing.T) {
	req := baseNARequest()
	m, err := NewNAModel(req)
	require.NoError(t, err)

	// base = floor(3 seats / 2 persons) = 1
	assert.Equal(t, 1, m.base)
	for pi := range m.Persons {
		assert.Equal(t, m.base, m.ideal[pi])
	}
}

func TestNewNAModelRejectsEmptySlots(t *testing.T) {
	req := baseNARequest()
	req.Slots = nil
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsEmptyPersons(t *testing.T) {
	req := baseNARequest()
	req.Persons = nil
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsInvertedPeriod(t *testing.T) {
	req := baseNARequest()
	req.Period.End = mustParseDate("2026-03-01")
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsDuplicatePersonID(t *testing.T) {
	req := baseNARequest()
	req.Persons = append(req.Persons, NAPerson{ID: "alice"})
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsDuplicateSlotID(t *testing.T) {
	req := baseNARequest()
	req.Slots = append(req.Slots, NASlot{ID: "s1", Date: "2026-03-03", Segment: SegmentMorning, Seats: []NASeat{{ID: "seat9"}}})
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsUnknownSegment(t *testing.T) {
	req := baseNARequest()
	req.Slots[0].Segment = "NIGHT"
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsZeroSeatSlot(t *testing.T) {
	req := baseNARequest()
	req.Slots = append(req.Slots, NASlot{ID: "s3", Date: "2026-03-04", Segment: SegmentMorning})
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsDuplicateSeatID(t *testing.T) {
	req := baseNARequest()
	req.Slots[1].Seats = append(req.Slots[1].Seats, NASeat{ID: "seat1"})
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsUnavailabilityForUnknownPerson(t *testing.T) {
	req := baseNARequest()
	req.Unavailability = []NAUnavailability{{PersonID: "ghost", SlotID: "s1"}}
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelRejectsUnavailabilityForUnknownSlot(t *testing.T) {
	req := baseNARequest()
	req.Unavailability = []NAUnavailability{{PersonID: "alice", SlotID: "ghost"}}
	_, err := NewNAModel(req)
	require.Error(t, err)
}

func TestNewNAModelIsUnavailable(t *testing.T) {
	req := baseNARequest()
	req.Unavailability = []NAUnavailability{{PersonID: "bob", SlotID: "s2"}}
	m, err := NewNAModel(req)
	require.NoError(t, err)
	assert.True(t, m.isUnavailable("bob", "s2"))
	assert.False(t, m.isUnavailable("bob", "s1"))
	assert.False(t, m.isUnavailable("alice", "s2"))
}

func TestSegmentValid(t *testing.T) {
	assert.True(t, SegmentMorning.valid())
	assert.True(t, SegmentEvening.valid())
	assert.False(t, Segment("NIGHT").valid())
}
