package scheduler

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	scpb "github.com/google/or-tools/ortools/sat/proto/sat"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	"github.com/noah-isme/roster-scheduler-api/pkg/config"
)

// SolveNA builds, posts, and solves the NA model, retrying once with a
// relaxed hard upper bound if the first attempt is INFEASIBLE.
func SolveNA(req NARequest, weights config.NAWeights, cfg DriverConfig, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	model, err := NewNAModel(req)
	if err != nil {
		return nil, err
	}

	upperBound := model.base + 2
	start := time.Now()
	response, vars, warnings, err := solveNAAttempt(model, weights, cfg, upperBound)
	if err != nil {
		return nil, err
	}

	status := cpStatus(response.GetStatus())
	if status == StatusInfeasible {
		logger.Sugar().Warnw("NA model infeasible, relaxing hard upper bound and retrying",
			"base", model.base, "relaxedTo", model.base+cfg.RelaxedUpperBoundGap)
		upperBound = model.base + cfg.RelaxedUpperBoundGap
		response, vars, warnings, err = solveNAAttempt(model, weights, cfg, upperBound)
		if err != nil {
			return nil, err
		}
		status = cpStatus(response.GetStatus())
		warnings = append(warnings, fmt.Sprintf(
			"hard upper bound relaxed from base+2 to base+%d after initial infeasibility", cfg.RelaxedUpperBoundGap))
	}
	solveTime := time.Since(start)

	return decodeNAResult(model, vars, response, status, warnings, solveTime), nil
}

func solveNAAttempt(model *NAModel, weights config.NAWeights, cfg DriverConfig, upperBound int) (*cpmodel.CpSolverResponse, *naVars, []string, error) {
	vars := newNAVars(model)
	postNAHardConstraints(vars, upperBound)
	obj := buildNAObjective(vars, weights)
	vars.model.Minimize(obj)

	modelProto, err := vars.model.Model()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to instantiate NA CP model: %w", err)
	}

	params := &scpb.SatParameters{
		MaxTimeInSeconds: proto.Float64(float64(cfg.TimeLimitSeconds)),
		NumSearchWorkers: proto.Int32(int32(cfg.NumSearchWorkers)),
		RandomSeed:       proto.Int32(int32(cfg.RandomSeed)),
	}
	response, err := cpmodel.SolveCpModelWithParameters(modelProto, params)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("NA solver backend fault: %w", err)
	}
	return response, vars, nil, nil
}

func decodeNAResult(model *NAModel, vars *naVars, response *cpmodel.CpSolverResponse, status Status, warnings []string, solveTime time.Duration) *Result {
	var assignments []Assignment
	counts := make([]int, len(model.Persons))
	unavailabilityViolations := 0

	if status == StatusOptimal || status == StatusFeasible {
		for si, slot := range model.Slots {
			roles := assignNASeatRoles(slot)
			for ci, seat := range slot.Seats {
				for pi, person := range model.Persons {
					if !cpmodel.SolutionBooleanValue(response, vars.x[pi][si][ci]) {
						continue
					}
					counts[pi]++
					if model.isUnavailable(person.ID, slot.ID) {
						unavailabilityViolations++
					}
					assignments = append(assignments, Assignment{
						SlotID:   slot.ID,
						SeatID:   seat.ID,
						PersonID: person.ID,
						SeatRole: roles[seat.ID],
					})
					break
				}
			}
		}
	}

	maxShifts, minShifts, usersAtBasePlus2 := 0, 0, 0
	if len(counts) > 0 {
		minShifts = counts[0]
	}
	for pi := range counts {
		if counts[pi] > maxShifts {
			maxShifts = counts[pi]
		}
		if counts[pi] < minShifts {
			minShifts = counts[pi]
		}
		if counts[pi] >= model.base+2 {
			usersAtBasePlus2++
		}
	}
	for i := range assignments {
		pi := model.personIdx[assignments[i].PersonID]
		assignments[i].IsExtra = counts[pi] > model.base+1
	}

	if !model.Period.startsOnMonday() {
		warnings = append(warnings, "period does not start on an ISO week boundary (Monday); weekly-clustering penalties use true ISO-8601 weeks, not a period-anchored rolling window")
	}
	if unavailabilityViolations > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"%d unavailability constraint(s) could not be honored and were overridden to keep every seat filled", unavailabilityViolations))
	}
	if status == StatusInfeasible {
		warnings = append(warnings, "model remained INFEASIBLE after relaxing the hard upper bound; likely cause is over-constrained unavailability or too few persons for the given seat count")
	}

	return &Result{
		Assignments: assignments,
		Meta: Meta{
			Base:                     model.base,
			MaxShifts:                maxShifts,
			MinShifts:                minShifts,
			UsersAtBasePlus2:         usersAtBasePlus2,
			UnavailabilityViolations: unavailabilityViolations,
			Warnings:                 warnings,
			SolverStatus:             status,
			SolveTimeMs:              solveTime.Milliseconds(),
		},
	}
}
