package models

// FatigueThresholds is the per-company fatigue configuration.
type FatigueThresholds struct {
	CompanyID               int64   `json:"companyId"`
	MaxContinuousDriveHours float64 `json:"maxContinuousDriveHours"`
	MinRestHours            float64 `json:"minRestHours"`
	// OverrideFitHours is an administrator-granted window such as "3-5".
	OverrideFitHours string `json:"overrideFitHours,omitempty"`
}

type FitnessLabel string

const (
	FitToDrive                 FitnessLabel = "FitToDrive"
	CanDrive                   FitnessLabel = "CanDrive"
	Elevated                   FitnessLabel = "Elevated"
	High                       FitnessLabel = "High"
	AvoidDrivingLongerPeriod   FitnessLabel = "AvoidDrivingLongerPeriod"
	AvoidDrivingExceedingLimit FitnessLabel = "AvoidDrivingExceedingLimit"
	NotFitToDrive              FitnessLabel = "NotFitToDrive"
	ApprovedLimited            FitnessLabel = "ApprovedLimited"
)

var fitnessDisplay = map[FitnessLabel]string{
	FitToDrive:                 "Fit to drive",
	CanDrive:                   "Can drive",
	Elevated:                   "Elevated fatigue",
	High:                       "High fatigue",
	AvoidDrivingLongerPeriod:   "Avoid driving for a longer period",
	AvoidDrivingExceedingLimit: "Avoid driving: exceeding limit",
	NotFitToDrive:              "Not fit to drive",
	ApprovedLimited:            "Approved for limited driving",
}

// FitnessClassification is derived on demand and never stored.
type FitnessClassification struct {
	DriverID   int64        `json:"driverId,omitempty"`
	Label      FitnessLabel `json:"label"`
	Window     string       `json:"window,omitempty"`
	Display    string       `json:"display"`
	TotalHours float64      `json:"totalHours"`
	RestHours  float64      `json:"restHours"`
}

// DisplayFor renders the UI text for a label and optional override window.
func DisplayFor(label FitnessLabel, window string) string {
	text, ok := fitnessDisplay[label]
	if !ok {
		return string(label)
	}
	if label == ApprovedLimited && window != "" {
		return text + " (" + window + " hrs)"
	}
	return text
}
