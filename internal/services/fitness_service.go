package services

import (
	"context"
	"fmt"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"
	"fleetdesk/internal/lifecycle"
	"fleetdesk/internal/utils"

	"github.com/zoobzio/clockz"
	"golang.org/x/sync/errgroup"
)

// FitnessService loads shift history and company thresholds, then runs the
// aggregator and classifier. Nothing it computes is stored.
type FitnessService struct {
	Shifts      lifecycle.ShiftSource
	Thresholds  lifecycle.ThresholdSource
	Clock       clockz.Clock
	Location    *time.Location
	Defaults    models.FatigueThresholds
	Concurrency int
}

// FitnessReport pairs the label with the numbers it came from.
type FitnessReport struct {
	models.FitnessClassification
	Shift lifecycle.ShiftSummary `json:"shift"`
	Day   time.Time              `json:"day"`
}

func (s FitnessService) now() time.Time {
	if s.Clock == nil {
		return clockz.RealClock.Now()
	}
	return s.Clock.Now()
}

func (s FitnessService) thresholds(ctx context.Context, companyID int64) (models.FatigueThresholds, error) {
	th := models.FatigueThresholds{CompanyID: companyID}
	if s.Thresholds != nil {
		var err error
		th, err = s.Thresholds.GetThresholds(ctx, companyID)
		if err != nil {
			return th, err
		}
	}
	if th.MaxContinuousDriveHours <= 0 {
		th.MaxContinuousDriveHours = s.Defaults.MaxContinuousDriveHours
	}
	if th.MinRestHours <= 0 {
		th.MinRestHours = s.Defaults.MinRestHours
	}
	th = lifecycle.NormalizeThresholds(th)
	if th.OverrideFitHours != "" {
		if _, _, err := lifecycle.ParseOverrideWindow(th.OverrideFitHours); err != nil {
			utils.LogEvent(utils.RequestIDFromContext(ctx), "fitness", "override_malformed", err.Error())
		}
	}
	return th, nil
}

// DriverFitness classifies one driver for the current day.
func (s FitnessService) DriverFitness(ctx context.Context, rc domain.RequestContext, driverID int64) (FitnessReport, error) {
	return s.DriverFitnessAt(ctx, rc, driverID, s.now())
}

// DriverFitnessAt classifies a driver as of at, using the day containing at.
func (s FitnessService) DriverFitnessAt(ctx context.Context, rc domain.RequestContext, driverID int64, at time.Time) (FitnessReport, error) {
	if !rc.IsAdmin() && int64(rc.DriverID) != driverID {
		return FitnessReport{}, domain.ForbiddenError{Msg: "cannot view another driver's fitness"}
	}
	th, err := s.thresholds(ctx, int64(rc.CompanyID))
	if err != nil {
		return FitnessReport{}, fmt.Errorf("load thresholds: %w", err)
	}
	return s.classify(ctx, driverID, th, at)
}

// FleetFitness classifies many drivers concurrently against one company's
// thresholds. Results keep the order of driverIDs.
func (s FitnessService) FleetFitness(ctx context.Context, rc domain.RequestContext, driverIDs []int64) ([]FitnessReport, error) {
	if !rc.IsAdmin() {
		return nil, domain.ForbiddenError{Msg: "fleet fitness is restricted to administrators"}
	}
	th, err := s.thresholds(ctx, int64(rc.CompanyID))
	if err != nil {
		return nil, fmt.Errorf("load thresholds: %w", err)
	}

	now := s.now()
	out := make([]FitnessReport, len(driverIDs))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = 8
	}
	g.SetLimit(limit)
	for i, id := range driverIDs {
		g.Go(func() error {
			rep, err := s.classify(gctx, id, th, now)
			if err != nil {
				return fmt.Errorf("driver %d: %w", id, err)
			}
			out[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s FitnessService) classify(ctx context.Context, driverID int64, th models.FatigueThresholds, now time.Time) (FitnessReport, error) {
	day := lifecycle.DayWindowFor(now, s.Location)
	var shifts []models.ShiftInterval
	if s.Shifts != nil {
		var err error
		shifts, err = s.Shifts.ListShifts(ctx, driverID, day.Start, day.End)
		if err != nil {
			return FitnessReport{}, fmt.Errorf("list shifts: %w", err)
		}
	}

	summary := lifecycle.AggregateShifts(shifts, day, now)
	class := lifecycle.Classify(summary.TotalContinuousHours, summary.MostRecentRestHours, th, th.OverrideFitHours)
	class.DriverID = driverID
	return FitnessReport{FitnessClassification: class, Shift: summary, Day: day.Start}, nil
}
