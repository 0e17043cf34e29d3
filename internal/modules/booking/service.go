// README: Booking service: creation checks, state transitions, and actor rules.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"drivehire/internal/types"
)

var (
	ErrInvalidInput      = errors.New("invalid booking input")
	ErrNotFound          = errors.New("booking not found")
	ErrDuplicate         = errors.New("duplicate booking")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownAction     = errors.New("unknown action")
	ErrForbidden         = errors.New("actor not allowed")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

type Filter struct {
	UserID   *types.ID
	DriverID *types.ID
	Limit    int
}

// Store is the transactional persistence contract. Create must reserve the
// driver, check for duplicates, and insert the row as one atomic unit;
// UpdateStatus must compare-and-swap on the current status and release the
// driver in the same transaction when asked to.
type Store interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, releaseDriver bool) (bool, error)
	List(ctx context.Context, f Filter) ([]*Booking, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log.With(zap.String("service", "booking"))}
}

type CreateCommand struct {
	UserID          types.ID
	DriverID        types.ID
	PickupLocation  string
	DropLocation    string
	TripStart       time.Time
	TripEnd         *time.Time
	SpecialRequests string
	Amount          float64
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Booking, error) {
	pickup := strings.TrimSpace(cmd.PickupLocation)
	drop := strings.TrimSpace(cmd.DropLocation)

	if cmd.UserID <= 0 || cmd.DriverID <= 0 || pickup == "" || drop == "" || cmd.TripStart.IsZero() {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}
	if strings.EqualFold(pickup, drop) {
		return nil, fmt.Errorf("%w: pickup and drop are the same", ErrInvalidInput)
	}
	if cmd.TripEnd != nil && cmd.TripEnd.Before(cmd.TripStart) {
		return nil, fmt.Errorf("%w: trip ends before it starts", ErrInvalidInput)
	}
	if cmd.Amount < 0 {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}

	b := &Booking{
		Reference:       uuid.NewString(),
		UserID:          cmd.UserID,
		DriverID:        cmd.DriverID,
		PickupLocation:  pickup,
		DropLocation:    drop,
		TripStart:       cmd.TripStart,
		TripEnd:         cmd.TripEnd,
		Status:          StatusPending,
		Amount:          cmd.Amount,
		SpecialRequests: strings.TrimSpace(cmd.SpecialRequests),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", int64(b.ID)),
		zap.Int64("user_id", int64(b.UserID)),
		zap.Int64("driver_id", int64(b.DriverID)),
		zap.String("pickup", b.PickupLocation),
		zap.String("drop", b.DropLocation),
	)
	return b, nil
}

type TransitionCommand struct {
	BookingID types.ID
	Action    string
	ActorID   types.ID
	ActorRole types.Role
}

// Transition applies accept/reject/cancel/complete. The status write is a
// compare-and-swap against the status read here; a concurrent transition
// makes the swap miss and the loser gets ErrInvalidTransition with no side
// effects.
func (s *Service) Transition(ctx context.Context, cmd TransitionCommand) (*Booking, error) {
	action, ok := ParseAction(cmd.Action)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}

	target := action.Target()
	if !CanTransition(b.Status, target) {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, b.Status)
	}
	if !actorAllowed(b, action, cmd.ActorID, cmd.ActorRole) {
		return nil, ErrForbidden
	}

	applied, err := s.store.UpdateStatus(ctx, b.ID, b.Status, target, releasesDriver(target))
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone moved the booking first.
		return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}
	b.Status = target

	s.log.Info("booking transitioned",
		zap.Int64("booking_id", int64(b.ID)),
		zap.String("action", string(action)),
		zap.String("status", string(target)),
		zap.String("actor_role", string(cmd.ActorRole)),
	)
	return b, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

// List returns bookings for the filter ordered by trip start, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Booking, error) {
	if f.Limit < 0 {
		f.Limit = 0
	}
	return s.store.List(ctx, f)
}

// actorAllowed enforces the allowed-actor column of the transition table.
func actorAllowed(b *Booking, action Action, actorID types.ID, role types.Role) bool {
	switch action {
	case ActionAccept, ActionReject:
		return role == types.RoleDriver && b.DriverID == actorID
	case ActionComplete:
		if role == types.RoleAdmin {
			return true
		}
		return role == types.RoleDriver && b.DriverID == actorID
	case ActionCancel:
		switch role {
		case types.RoleAdmin:
			return true
		case types.RoleUser:
			return b.UserID == actorID
		case types.RoleDriver:
			// Drivers reject Pending bookings; they may only cancel after accepting.
			return b.Status == StatusConfirmed && b.DriverID == actorID
		}
	}
	return false
}
