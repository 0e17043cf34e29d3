// README: Projection queries over bookings/drivers, with a redis cache for recommendations.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"drivehire/internal/types"
)

const (
	recommendedKey = "stats:recommended_drivers"
	recommendedTTL = 30 * time.Second
)

type Store struct {
	db    *pgxpool.Pool
	cache *redis.Client
}

func NewStore(db *pgxpool.Pool, cache *redis.Client) *Store {
	return &Store{db: db, cache: cache}
}

func (s *Store) UserDashboard(ctx context.Context, userID types.ID) (*UserDashboard, error) {
	var d UserDashboard
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'Pending'),
		       COUNT(*) FILTER (WHERE status = 'Confirmed'),
		       COUNT(*) FILTER (WHERE status = 'Completed'),
		       COUNT(*) FILTER (WHERE status = 'Cancelled'),
		       COUNT(*) FILTER (WHERE status = 'Rejected'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'Completed'), 0)
		FROM bookings WHERE user_id = $1`, int64(userID),
	).Scan(&d.TotalBookings, &d.Pending, &d.Confirmed, &d.Completed,
		&d.Cancelled, &d.Rejected, &d.TotalSpent)
	if err != nil {
		return nil, err
	}

	// Most-booked driver; ties go to the lowest id.
	var frequent int64
	err = s.db.QueryRow(ctx, `
		SELECT driver_id FROM bookings
		WHERE user_id = $1
		GROUP BY driver_id
		ORDER BY COUNT(*) DESC, driver_id ASC
		LIMIT 1`, int64(userID),
	).Scan(&frequent)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		id := types.ID(frequent)
		d.FrequentDriver = &id
	}
	return &d, nil
}

func (s *Store) RecentBookings(ctx context.Context, userID types.ID, limit int) ([]RecentBooking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT b.id, b.pickup_location, b.drop_location, b.trip_start, b.status,
		       d.id, d.name, d.district, d.rating, d.salary_per_day
		FROM bookings b
		JOIN drivers d ON d.id = b.driver_id
		WHERE b.user_id = $1
		ORDER BY b.trip_start DESC
		LIMIT $2`, int64(userID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecentBooking, 0, limit)
	for rows.Next() {
		var r RecentBooking
		if err := rows.Scan(
			&r.ID, &r.PickupLocation, &r.DropLocation, &r.TripStart, &r.Status,
			&r.DriverID, &r.DriverName, &r.DriverDistrict, &r.DriverRating, &r.SalaryPerDay,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecommendedDrivers serves from the redis cache when it can; a cold or
// failing cache falls through to Postgres.
func (s *Store) RecommendedDrivers(ctx context.Context, limit int) ([]RecommendedDriver, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, recommendedKey).Result(); err == nil {
			var cached []RecommendedDriver
			if json.Unmarshal([]byte(raw), &cached) == nil && len(cached) >= limit {
				return cached[:limit], nil
			}
		}
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, district, city, rating, salary_per_day
		FROM drivers
		WHERE availability = 'Available' AND approval_status = 'approved'
		ORDER BY rating DESC, id ASC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecommendedDriver, 0, limit)
	for rows.Next() {
		var d RecommendedDriver
		if err := rows.Scan(&d.ID, &d.Name, &d.District, &d.City, &d.Rating, &d.SalaryPerDay); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			s.cache.Set(ctx, recommendedKey, raw, recommendedTTL)
		}
	}
	return out, nil
}

func (s *Store) DriverStats(ctx context.Context, driverID types.ID) (*DriverStats, error) {
	var d DriverStats
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = 'Completed'),
		       COUNT(*) FILTER (WHERE status = 'Pending'),
		       COUNT(*) FILTER (WHERE status = 'Confirmed'),
		       COUNT(*) FILTER (WHERE status = 'Cancelled'),
		       COUNT(*) FILTER (WHERE status = 'Rejected'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'Completed'), 0)
		FROM bookings WHERE driver_id = $1`, int64(driverID),
	).Scan(&d.TotalTrips, &d.Pending, &d.Confirmed, &d.Cancelled, &d.Rejected, &d.TotalEarnings)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `SELECT rating FROM drivers WHERE id = $1`, int64(driverID)).Scan(&d.Rating)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return &d, nil
}

func (s *Store) AdminStats(ctx context.Context) (*AdminStats, error) {
	var a AdminStats
	err := s.db.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM drivers),
		       (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM bookings),
		       (SELECT COALESCE(SUM(amount), 0) FROM bookings WHERE status = 'Completed'),
		       (SELECT COUNT(*) FROM drivers WHERE approval_status = 'pending'),
		       (SELECT COUNT(*) FROM bookings WHERE status IN ('Pending', 'Confirmed'))`,
	).Scan(&a.TotalDrivers, &a.TotalUsers, &a.TotalBookings,
		&a.TotalRevenue, &a.PendingApprovals, &a.ActiveBookings)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
