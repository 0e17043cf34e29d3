// README: Booking store backed by PostgreSQL; create and transition each run as one transaction.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"drivehire/internal/modules/driver"
	"drivehire/internal/types"
)

// retryBackoff is the pause before the single retry of a transaction that
// failed to serialize.
const retryBackoff = 50 * time.Millisecond

type SQLStore struct {
	db    *pgxpool.Pool
	guard *driver.Guard
}

func NewStore(db *pgxpool.Pool, guard *driver.Guard) *SQLStore {
	return &SQLStore{db: db, guard: guard}
}

// Create rejects duplicates, reserves the driver, and inserts the booking in
// one transaction. The duplicate probe runs first so a repeated request
// reports the duplicate rather than the hold its own earlier booking placed
// on the driver. The driver-row update serializes racing creates: exactly one
// caller wins, the rest roll back with ErrUnavailable.
func (s *SQLStore) Create(ctx context.Context, b *Booking) error {
	return s.withRetry(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM bookings
				WHERE user_id = $1 AND pickup_location = $2 AND drop_location = $3
				  AND trip_start = $4 AND status <> $5
			)`,
			int64(b.UserID), b.PickupLocation, b.DropLocation, b.TripStart, StatusCancelled,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicate
		}

		if err := s.guard.Reserve(ctx, tx, b.DriverID); err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (
				reference, user_id, driver_id, pickup_location, drop_location,
				trip_start, trip_end, status, amount, special_requests
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, created_at, updated_at`,
			b.Reference, int64(b.UserID), int64(b.DriverID), b.PickupLocation, b.DropLocation,
			b.TripStart, b.TripEnd, b.Status, b.Amount, nullIfEmpty(b.SpecialRequests),
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		// Racing creates of the same tuple against different drivers both pass
		// the probe; the partial unique index catches the second insert.
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	})
}

func (s *SQLStore) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, selectBooking+` WHERE id = $1`, int64(id))
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return b, nil
}

// UpdateStatus swaps status from→to and, when releaseDriver is set, frees the
// driver in the same transaction. A false result means the row no longer held
// the expected status.
func (s *SQLStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, releaseDriver bool) (bool, error) {
	var applied bool
	err := s.withRetry(ctx, func(tx pgx.Tx) error {
		var driverID int64
		err := tx.QueryRow(ctx, `
			UPDATE bookings
			SET status = $1, updated_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING driver_id`,
			to, int64(id), from,
		).Scan(&driverID)
		if errors.Is(err, pgx.ErrNoRows) {
			applied = false
			return nil
		}
		if err != nil {
			return err
		}
		applied = true

		if releaseDriver {
			return s.guard.Release(ctx, tx, types.ID(driverID))
		}
		return nil
	})
	return applied, err
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]*Booking, error) {
	query := selectBooking
	var args []any
	switch {
	case f.UserID != nil:
		query += ` WHERE user_id = $1`
		args = append(args, int64(*f.UserID))
	case f.DriverID != nil:
		query += ` WHERE driver_id = $1`
		args = append(args, int64(*f.DriverID))
	}
	query += ` ORDER BY trip_start DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// withRetry runs fn in a transaction, retrying once after a serialization
// failure. Anything still failing surfaces as ErrStoreUnavailable unless it
// is a domain rejection from inside fn.
func (s *SQLStore) withRetry(ctx context.Context, fn func(pgx.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := pgx.BeginFunc(ctx, s.db, fn)
		if err == nil || isDomainErr(err) {
			return err
		}
		if isSerializationFailure(err) && attempt == 0 {
			time.Sleep(retryBackoff)
			continue
		}
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, driver.ErrNotFound) ||
		errors.Is(err, driver.ErrUnavailable)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// serialization_failure / deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const selectBooking = `
	SELECT id, reference, user_id, driver_id, pickup_location, drop_location,
	       trip_start, trip_end, status, amount, special_requests,
	       created_at, updated_at
	FROM bookings`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var tripEnd *time.Time
	var special *string
	err := row.Scan(
		&b.ID, &b.Reference, &b.UserID, &b.DriverID, &b.PickupLocation, &b.DropLocation,
		&b.TripStart, &tripEnd, &b.Status, &b.Amount, &special,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.TripEnd = tripEnd
	if special != nil {
		b.SpecialRequests = *special
	}
	return &b, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
