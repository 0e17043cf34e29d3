// README: Driver store backed by PostgreSQL (registration, lookup, approval, search).
package driver

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"drivehire/internal/types"
)

const uniqueViolation = "23505"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, d *Driver) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO drivers (
			name, email, phone, password_hash, license_number,
			district, city, salary_per_day, rating, availability, approval_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		d.Name, d.Email, d.Phone, d.PasswordHash, d.LicenseNumber,
		d.District, d.City, d.SalaryPerDay, d.Rating, d.Availability, d.ApprovalStatus,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrExists
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.scanOne(s.db.QueryRow(ctx, selectDriver+` WHERE id = $1`, int64(id)))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Driver, error) {
	return s.scanOne(s.db.QueryRow(ctx, selectDriver+` WHERE email = $1`, email))
}

// SetApproval records the admin's approve/reject decision.
func (s *Store) SetApproval(ctx context.Context, id types.ID, status ApprovalStatus) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE drivers SET approval_status = $1, updated_at = NOW() WHERE id = $2`,
		status, int64(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Search lists bookable drivers, optionally narrowed to a district.
func (s *Store) Search(ctx context.Context, district string) ([]*Driver, error) {
	query := selectDriver + ` WHERE availability = $1 AND approval_status = $2`
	args := []any{Available, ApprovalApproved}
	if district != "" {
		query += ` AND district = $3`
		args = append(args, district)
	}
	query += ` ORDER BY rating DESC, id ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Driver
	for rows.Next() {
		var d Driver
		if err := scanInto(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

const selectDriver = `
	SELECT id, name, email, phone, password_hash, license_number,
	       district, city, salary_per_day, rating, availability, approval_status,
	       created_at, updated_at
	FROM drivers`

func (s *Store) scanOne(row pgx.Row) (*Driver, error) {
	var d Driver
	err := scanInto(row, &d)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanInto(row pgx.Row, d *Driver) error {
	return row.Scan(
		&d.ID, &d.Name, &d.Email, &d.Phone, &d.PasswordHash, &d.LicenseNumber,
		&d.District, &d.City, &d.SalaryPerDay, &d.Rating, &d.Availability, &d.ApprovalStatus,
		&d.CreatedAt, &d.UpdatedAt,
	)
}
