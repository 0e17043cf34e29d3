// README: Booking aggregate, status definitions, and the transition table.
package booking

import (
	"strings"
	"time"

	"drivehire/internal/types"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusRejected  Status = "Rejected"
)

type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

type Booking struct {
	ID              types.ID
	Reference       string
	UserID          types.ID
	DriverID        types.ID
	PickupLocation  string
	DropLocation    string
	TripStart       time.Time
	TripEnd         *time.Time
	Status          Status
	Amount          float64
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// allowedTransitions represents the booking state flow as code. Statuses with
// no outgoing edges are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

var actionTargets = map[Action]Status{
	ActionAccept:   StatusConfirmed,
	ActionReject:   StatusRejected,
	ActionCancel:   StatusCancelled,
	ActionComplete: StatusCompleted,
}

// ParseAction normalizes a caller-supplied action string.
func ParseAction(raw string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := actionTargets[a]
	return a, ok
}

func (a Action) Target() Status {
	return actionTargets[a]
}

// releasesDriver reports whether entering to frees the assigned driver.
// Reject behaves like cancel here: a Pending booking holds the driver, so
// every terminal exit from Pending must give the driver back.
func releasesDriver(to Status) bool {
	switch to {
	case StatusCancelled, StatusCompleted, StatusRejected:
		return true
	}
	return false
}
