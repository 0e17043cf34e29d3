// README: Availability guard; the sole writer of the driver availability flag.
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"drivehire/internal/types"
)

var (
	ErrNotFound    = errors.New("driver not found")
	ErrUnavailable = errors.New("driver not available")
)

// Guard owns every mutation of drivers.availability. Booking operations call
// Reserve and Release inside their own transaction so the flag and the
// booking row commit together.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// Reserve flips the driver to NotAvailable. The conditional update serializes
// concurrent reservations on the driver row: the loser sees zero rows
// affected and gets ErrUnavailable.
func (g *Guard) Reserve(ctx context.Context, tx pgx.Tx, id types.ID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE drivers
		SET availability = $1, updated_at = NOW()
		WHERE id = $2 AND approval_status = $3 AND availability = $4`,
		NotAvailable, int64(id), ApprovalApproved, Available,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1)`, int64(id),
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrUnavailable
}

// Release flips the driver back to Available when a booking reaches a
// terminal status. Callers guarantee the driver has no other active booking.
func (g *Guard) Release(ctx context.Context, tx pgx.Tx, id types.ID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE drivers SET availability = $1, updated_at = NOW() WHERE id = $2`,
		Available, int64(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
