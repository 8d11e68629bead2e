// Package mcu holds the pure date arithmetic behind the MCU lifecycle:
// work tenure, result expiry, and status classification.
package mcu

import (
	"fmt"
	"time"
)

// Status classifies how current an employee's MCU result is.
type Status string

const (
	StatusNoMCU      Status = "No MCU"
	StatusActive     Status = "Active"
	StatusWillExpire Status = "Will Expire"
	StatusExpired    Status = "Expired"
)

// ValidityPeriod is how long an MCU result stays valid after the exam date.
const ValidityPeriod = 365 * 24 * time.Hour

// ExpiryWarningWindow is the remaining-validity window that flags a result as
// about to expire.
const ExpiryWarningWindow = 30 * 24 * time.Hour

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusNoMCU, StatusActive, StatusWillExpire, StatusExpired:
		return true
	}
	return false
}

// Tenure formats the work period since hireDate. The legacy tool divides by a
// fixed 365 days per year and 30 days per month rather than using calendar
// arithmetic; that behaviour is kept for compatibility with stored rows.
func Tenure(hireDate *time.Time, now time.Time) string {
	if hireDate == nil {
		return "0 year"
	}
	days := int(now.Sub(*hireDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	years := days / 365
	months := (days % 365) / 30
	return fmt.Sprintf("%d year(s) %d month(s)", years, months)
}

// Expiry returns the date the MCU result goes stale: exam date + 365 days.
func Expiry(mcuDate *time.Time) *time.Time {
	if mcuDate == nil {
		return nil
	}
	expiry := mcuDate.Add(ValidityPeriod)
	return &expiry
}

// Classify derives the status for an expiry date at the given instant.
// The expired comparison is strictly after: on the expiry date itself the
// result still counts as current. Exactly 30 days of remaining validity
// already classifies as Will Expire.
func Classify(expiry *time.Time, now time.Time) Status {
	if expiry == nil {
		return StatusNoMCU
	}
	if now.After(*expiry) {
		return StatusExpired
	}
	if expiry.Sub(now) <= ExpiryWarningWindow {
		return StatusWillExpire
	}
	return StatusActive
}
