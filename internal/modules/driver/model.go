// README: Driver aggregate, availability flag, and approval status definitions.
package driver

import (
	"time"

	"drivehire/internal/types"
)

type Availability string

const (
	Available    Availability = "Available"
	NotAvailable Availability = "NotAvailable"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// MinSalaryPerDay is the lowest daily rate a driver may register with.
const MinSalaryPerDay = 500

type Driver struct {
	ID             types.ID
	Name           string
	Email          string
	Phone          string
	PasswordHash   string
	LicenseNumber  string
	District       string
	City           string
	SalaryPerDay   int
	Rating         float64
	Availability   Availability
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
