package service

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/roster-scheduler-api/internal/dto"
	"github.com/noah-isme/roster-scheduler-api/internal/scheduler"
	"github.com/noah-isme/roster-scheduler-api/pkg/config"
	appErrors "github.com/noah-isme/roster-scheduler-api/pkg/errors"
	"github.com/noah-isme/roster-scheduler-api/pkg/solvepool"
)

// NAService orchestrates NA requests: validate, build the scheduler model,
// solve (bounded by the solve pool), and map the result back to a DTO.
type NAService struct {
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	pool      *solvepool.Pool
	weights   config.NAWeights
	driverCfg scheduler.DriverConfig
}

// NewNAService wires NA dependencies.
func NewNAService(validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, pool *solvepool.Pool, weights config.NAWeights, driverCfg scheduler.DriverConfig) *NAService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NAService{
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		pool:      pool,
		weights:   weights,
		driverCfg: driverCfg,
	}
}

// Generate solves an NA request and returns the assignment response.
func (s *NAService) Generate(ctx context.Context, req dto.GenerateNARequest) (*dto.GenerateNAResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid NA request")
	}

	schedReq, err := naRequestFromDTO(req)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	var result *scheduler.Result
	start := time.Now()
	runErr := s.pool.Run(ctx, func(ctx context.Context) error {
		var solveErr error
		result, solveErr = scheduler.SolveNA(schedReq, s.weights, s.driverCfg, s.logger)
		return solveErr
	})
	duration := time.Since(start)

	if runErr != nil {
		s.metrics.ObserveSolve("na", "error", duration, 0)
		return nil, mapSchedulerError(runErr)
	}

	s.metrics.ObserveSolve("na", string(result.Meta.SolverStatus), duration, len(result.Meta.Warnings))
	return naResponseFromResult(result), nil
}

func naRequestFromDTO(req dto.GenerateNARequest) (scheduler.NARequest, error) {
	start, err := parseISODate("period.start", req.Period.Start)
	if err != nil {
		return scheduler.NARequest{}, err
	}
	end, err := parseISODate("period.end", req.Period.End)
	if err != nil {
		return scheduler.NARequest{}, err
	}

	out := scheduler.NARequest{
		Period: scheduler.Period{
			ID:    req.Period.ID,
			Name:  req.Period.Name,
			Start: start,
			End:   end,
		},
	}

	for _, p := range req.Persons {
		out.Persons = append(out.Persons, scheduler.NAPerson{
			ID:           p.ID,
			Name:         p.Name,
			LikesMorning: p.LikesMorning,
			LikesEvening: p.LikesEvening,
			History: scheduler.NAHistory{
				TotalAllTime:        p.History.TotalAllTime,
				CountAAllTime:       p.History.CountAAllTime,
				CountMorningAllTime: p.History.CountMorningAllTime,
				CountEveningAllTime: p.History.CountEveningAllTime,
			},
		})
	}

	for _, sl := range req.Slots {
		seats := make([]scheduler.NASeat, 0, len(sl.Seats))
		for _, seat := range sl.Seats {
			seats = append(seats, scheduler.NASeat{ID: seat.ID, Role: scheduler.SeatRole(seat.Role)})
		}
		out.Slots = append(out.Slots, scheduler.NASlot{
			ID:      sl.ID,
			Date:    sl.Date,
			Segment: scheduler.Segment(sl.Segment),
			Seats:   seats,
		})
	}

	for _, u := range req.Unavailability {
		out.Unavailability = append(out.Unavailability, scheduler.NAUnavailability{PersonID: u.PersonID, SlotID: u.SlotID})
	}

	return out, nil
}

func naResponseFromResult(result *scheduler.Result) *dto.GenerateNAResponse {
	resp := &dto.GenerateNAResponse{
		Meta: dto.MetaResponse{
			Base:                     result.Meta.Base,
			MaxShifts:                result.Meta.MaxShifts,
			MinShifts:                result.Meta.MinShifts,
			UsersAtBasePlus2:         result.Meta.UsersAtBasePlus2,
			UnavailabilityViolations: result.Meta.UnavailabilityViolations,
			Warnings:                 result.Meta.Warnings,
			SolverStatus:             string(result.Meta.SolverStatus),
			SolveTimeMs:              result.Meta.SolveTimeMs,
		},
	}
	for _, a := range result.Assignments {
		resp.Assignments = append(resp.Assignments, dto.AssignmentResponse{
			SlotID:   a.SlotID,
			SeatID:   a.SeatID,
			PersonID: a.PersonID,
			SeatRole: string(a.SeatRole),
			IsExtra:  a.IsExtra,
		})
	}
	return resp
}
