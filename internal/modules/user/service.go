// README: User service: registration, login, and profile upkeep.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"drivehire/internal/auth"
	"drivehire/internal/types"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrExists      = errors.New("email already registered")
	ErrBadRequest  = errors.New("bad user request")
	ErrCredentials = errors.New("invalid email or password")
)

var validate = validator.New()

type Service struct {
	store     *Store
	log       *zap.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(store *Store, log *zap.Logger, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:     store,
		log:       log.With(zap.String("service", "user")),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type RegisterCommand struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,min=10,max=15"`
	Password string `validate:"required,min=6"`
	District string
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (string, *User, error) {
	if err := validate.Struct(cmd); err != nil {
		return "", nil, ErrBadRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	u := &User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		Phone:        cmd.Phone,
		District:     cmd.District,
		PasswordHash: string(hash),
		Role:         types.RoleUser,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return "", nil, err
	}

	token, err := auth.Sign(s.jwtSecret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("user registered", zap.Int64("user_id", int64(u.ID)))
	return token, u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrCredentials
	}

	token, err := auth.Sign(s.jwtSecret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id types.ID, username, phone, district string) (*User, error) {
	if username == "" {
		return nil, ErrBadRequest
	}
	if err := s.store.UpdateProfile(ctx, id, username, phone, district); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}
