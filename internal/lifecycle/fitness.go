package lifecycle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fleetdesk/internal/domain/models"
)

const (
	DefaultMaxContinuousDriveHours = 24
	DefaultMinRestHours            = 8
)

// NormalizeThresholds replaces missing or malformed values with defaults.
func NormalizeThresholds(th models.FatigueThresholds) models.FatigueThresholds {
	if !validHours(th.MaxContinuousDriveHours) {
		th.MaxContinuousDriveHours = DefaultMaxContinuousDriveHours
	}
	if !validHours(th.MinRestHours) {
		th.MinRestHours = DefaultMinRestHours
	}
	th.OverrideFitHours = strings.TrimSpace(th.OverrideFitHours)
	return th
}

func validHours(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Classify maps shift totals to a fitness label. Rules are evaluated in a
// fixed order and the first match wins; a non-empty override window replaces
// whatever the rules produced.
func Classify(totalHours, restHours float64, th models.FatigueThresholds, overrideWindow string) models.FitnessClassification {
	th = NormalizeThresholds(th)

	var label models.FitnessLabel
	switch {
	case totalHours >= th.MaxContinuousDriveHours:
		label = models.AvoidDrivingExceedingLimit
	case restHours < th.MinRestHours && totalHours >= 10:
		label = models.NotFitToDrive
	case totalHours >= 10 && restHours >= 2:
		label = models.CanDrive
	case totalHours >= 15 && restHours < 8:
		label = models.AvoidDrivingLongerPeriod
	case totalHours > 10:
		label = models.High
	case totalHours > 8:
		label = models.Elevated
	default:
		label = models.FitToDrive
	}

	window := strings.TrimSpace(overrideWindow)
	if window != "" {
		label = models.ApprovedLimited
	}

	out := models.FitnessClassification{
		Label:      label,
		TotalHours: round2(totalHours),
		RestHours:  round2(restHours),
	}
	if label == models.ApprovedLimited {
		out.Window = window
	}
	out.Display = models.DisplayFor(label, out.Window)
	return out
}

// ParseOverrideWindow splits a "<start>-<end>" hour window.
func ParseOverrideWindow(window string) (start, end float64, err error) {
	parts := strings.SplitN(strings.TrimSpace(window), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("override window %q: want <start>-<end>", window)
	}
	start, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("override window %q: %w", window, err)
	}
	end, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("override window %q: %w", window, err)
	}
	if start < 0 || end < start {
		return 0, 0, fmt.Errorf("override window %q: bounds out of order", window)
	}
	return start, end, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
