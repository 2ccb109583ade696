package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roster-scheduler-api/internal/dto"
	"github.com/noah-isme/roster-scheduler-api/internal/scheduler"
	"github.com/noah-isme/roster-scheduler-api/pkg/config"
	appErrors "github.com/noah-isme/roster-scheduler-api/pkg/errors"
	"github.com/noah-isme/roster-scheduler-api/pkg/solvepool"
)

func newNAServiceFixture() *NAService {
	pool := solvepool.New("test-na", solvepool.Config{MaxConcurrent: 2})
	return NewNAService(nil, nil, NewMetricsService(), pool, config.NAWeights{
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
	}, scheduler.DriverConfig{TimeLimitSeconds: 5, RandomSeed: 42, NumSearchWorkers: 4, RelaxedUpperBoundGap: 3})
}

func TestNAServiceGenerateRejectsMissingSlots(t *testing.T) {
	svc := newNAServiceFixture()
	_, err := svc.Generate(context.Background(), dto.GenerateNARequest{
		Period: dto.NAPeriodRequest{ID: "p1", Start: "2026-03-02", End: "2026-03-02"},
		Persons: []dto.NAPersonRequest{
			{ID: "u1"},
		},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestNAServiceGenerateDaySplit(t *testing.T) {
	svc := newNAServiceFixture()
	resp, err := svc.Generate(context.Background(), dto.GenerateNARequest{
		Period: dto.NAPeriodRequest{ID: "p1", Start: "2026-03-02", End: "2026-03-02"},
		Persons: []dto.NAPersonRequest{
			{ID: "u1", LikesMorning: true},
			{ID: "u2", LikesEvening: true},
		},
		Slots: []dto.NASlotRequest{
			{ID: "morning", Date: "2026-03-02", Segment: "MORNING", Seats: []dto.NASeatRequest{{ID: "seat1"}}},
			{ID: "evening", Date: "2026-03-02", Segment: "EVENING", Seats: []dto.NASeatRequest{{ID: "seat2"}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Assignments, 2)

	bySlot := make(map[string]string)
	for _, a := range resp.Assignments {
		bySlot[a.SlotID] = a.PersonID
	}
	assert.Equal(t, "u1", bySlot["morning"])
	assert.Equal(t, "u2", bySlot["evening"])
}
