package db

import (
	"database/sql"
	"time"
)

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullTime maps a nil pointer to SQL NULL.
func NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// NullInt maps a nil pointer to SQL NULL.
func NullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// TimeOrNil converts a scanned nullable time.
func TimeOrNil(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// IntOrNil converts a scanned nullable integer.
func IntOrNil(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
