package domain

// ID is used across domain entities.
type ID int64

// Status represents a lightweight state value.
type Status string

const (
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// RequestContext carries the authenticated caller. Every engine call takes
// these values as arguments instead of reading them from process state.
type RequestContext struct {
	UserID    ID     `json:"userId"`
	DriverID  ID     `json:"driverId"`
	CompanyID ID     `json:"companyId"`
	Role      string `json:"role"`
	RequestID string `json:"-"`
}

func (rc RequestContext) IsAdmin() bool {
	return rc.Role == RoleAdmin
}
