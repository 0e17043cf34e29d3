// README: User store backed by PostgreSQL.
package user

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

func (s *Store) Create(ctx context.Context, u *User) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, phone, district, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		u.Username, u.Email, u.Phone, u.District, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrExists
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx, selectUser+` WHERE id = $1`, int64(id)))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRow(ctx, selectUser+` WHERE email = $1`, email))
}

func (s *Store) UpdateProfile(ctx context.Context, id types.ID, username, phone, district string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET username = $1, phone = $2, district = $3, updated_at = NOW()
		WHERE id = $4`,
		username, phone, district, int64(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectUser = `
	SELECT id, username, email, phone, district, password_hash, role, created_at, updated_at
	FROM users`

func (s *Store) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.District,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
