package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "fleetdesk/internal/config"
	"fleetdesk/internal/domain/models"
)

type FatigueRepository struct {
	DB *sql.DB
}

func (r FatigueRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// GetThresholds returns the company's settings. A company without a row gets
// zero values, which the classifier replaces with defaults.
func (r FatigueRepository) GetThresholds(ctx context.Context, companyID int64) (models.FatigueThresholds, error) {
	th := models.FatigueThresholds{CompanyID: companyID}
	db := r.db()
	if db == nil {
		return th, nil
	}

	var maxHours, minRest sql.NullFloat64
	err := db.QueryRowContext(ctx, `
		SELECT max_continuous_drive_hours, min_rest_hours, COALESCE(override_fit_hours,'')
		FROM fatigue_settings
		WHERE company_id=?
		LIMIT 1`, companyID).Scan(&maxHours, &minRest, &th.OverrideFitHours)
	if errors.Is(err, sql.ErrNoRows) {
		return th, nil
	}
	if err != nil {
		return th, fmt.Errorf("fatigue settings for company %d: %w", companyID, err)
	}
	th.MaxContinuousDriveHours = maxHours.Float64
	th.MinRestHours = minRest.Float64
	return th, nil
}
