package service

import (
	"context"
	"errors"
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

// parseISODate parses an ISO-8601 (YYYY-MM-DD) date; the DTO layer already
// enforces the format via its `datetime` validator tag, so a failure here is
// defensive rather than expected.
func parseISODate(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, field+" is not a valid ISO-8601 date")
	}
	return t, nil
}

// AOService orchestrates AÖ requests: validate, build the scheduler model,
// solve (bounded by the solve pool), and map the result back to a DTO.
type AOService struct {
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	pool      *solvepool.Pool
	weights   config.AOWeights
	driverCfg scheduler.DriverConfig
}

// NewAOService wires AÖ dependencies.
func NewAOService(validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, pool *solvepool.Pool, weights config.AOWeights, driverCfg scheduler.DriverConfig) *AOService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AOService{
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		pool:      pool,
		weights:   weights,
		driverCfg: driverCfg,
	}
}

// Generate solves an AÖ request and returns the assignment response.
func (s *AOService) Generate(ctx context.Context, req dto.GenerateAORequest) (*dto.GenerateAOResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid AÖ request")
	}

	schedReq, err := aoRequestFromDTO(req)
	if err != nil {
		return nil, mapSchedulerError(err)
	}

	var result *scheduler.Result
	start := time.Now()
	runErr := s.pool.Run(ctx, func(ctx context.Context) error {
		var solveErr error
		result, solveErr = scheduler.SolveAO(schedReq, s.weights, s.driverCfg, s.logger)
		return solveErr
	})
	duration := time.Since(start)

	if runErr != nil {
		s.metrics.ObserveSolve("ao", "error", duration, 0)
		return nil, mapSchedulerError(runErr)
	}

	s.metrics.ObserveSolve("ao", string(result.Meta.SolverStatus), duration, len(result.Meta.Warnings))
	return aoResponseFromResult(result), nil
}

func aoRequestFromDTO(req dto.GenerateAORequest) (scheduler.AORequest, error) {
	start, err := parseISODate("period.start", req.Period.Start)
	if err != nil {
		return scheduler.AORequest{}, err
	}
	end, err := parseISODate("period.end", req.Period.End)
	if err != nil {
		return scheduler.AORequest{}, err
	}

	out := scheduler.AORequest{
		Period: scheduler.Period{
			ID:    req.Period.ID,
			Name:  req.Period.Name,
			Start: start,
			End:   end,
		},
	}

	for _, p := range req.Persons {
		out.Persons = append(out.Persons, scheduler.AOPerson{
			ID:              p.ID,
			Name:            p.Name,
			LikesNight:      p.LikesNight,
			DislikesWeekend: p.DislikesWeekend,
			History: scheduler.AOHistory{
				TotalAllTime:        p.History.TotalAllTime,
				ExpectedTotal:       p.History.ExpectedTotal,
				WeekdayCount:        p.History.WeekdayCount,
				WeekendCount:        p.History.WeekendCount,
				CountA:              p.History.CountA,
				CountB:              p.History.CountB,
				CountC:              p.History.CountC,
				CountD:              p.History.CountD,
				CountE:              p.History.CountE,
				CountF:              p.History.CountF,
				CountNightAllTime:   p.History.CountNightAllTime,
				CountWeekendAllTime: p.History.CountWeekendAllTime,
			},
		})
	}

	for _, sl := range req.Slots {
		seats := make([]scheduler.AOSeat, 0, len(sl.Seats))
		for _, seat := range sl.Seats {
			seats = append(seats, scheduler.AOSeat{ID: seat.ID, Role: scheduler.SeatRole(seat.Role)})
		}
		out.Slots = append(out.Slots, scheduler.AOSlot{
			ID:        sl.ID,
			Date:      sl.Date,
			Duty:      scheduler.DutyType(sl.DutyType),
			IsWeekend: sl.DayType == "WEEKEND",
			Seats:     seats,
		})
	}

	for _, u := range req.Unavailability {
		out.Unavailability = append(out.Unavailability, scheduler.AOUnavailability{PersonID: u.PersonID, SlotID: u.SlotID})
	}

	return out, nil
}

func aoResponseFromResult(result *scheduler.Result) *dto.GenerateAOResponse {
	resp := &dto.GenerateAOResponse{
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

// mapSchedulerError converts a scheduler package error into the taxonomy of
// pkg/errors.
func mapSchedulerError(err error) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var verr *scheduler.ValidationError
	if errors.As(err, &verr) {
		return appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, http.StatusBadRequest, verr.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrSolverFault.Code, http.StatusInternalServerError, "solver backend fault")
}
