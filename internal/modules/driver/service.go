// README: Driver service: registration, login, admin approval, and search.
package driver

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
	ErrExists      = errors.New("driver already registered")
	ErrBadRequest  = errors.New("bad driver request")
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
		log:       log.With(zap.String("service", "driver")),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type RegisterCommand struct {
	Name          string `validate:"required"`
	Email         string `validate:"required,email"`
	Phone         string `validate:"required,min=10,max=15"`
	Password      string `validate:"required,min=6"`
	LicenseNumber string `validate:"required"`
	District      string `validate:"required"`
	City          string `validate:"required"`
	SalaryPerDay  int    `validate:"required,gte=500"`
}

// Register creates a driver record. New drivers start Available but stay
// unbookable until an admin approves them.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*Driver, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, ErrBadRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		Name:           cmd.Name,
		Email:          cmd.Email,
		Phone:          cmd.Phone,
		PasswordHash:   string(hash),
		LicenseNumber:  cmd.LicenseNumber,
		District:       cmd.District,
		City:           cmd.City,
		SalaryPerDay:   cmd.SalaryPerDay,
		Rating:         0,
		Availability:   Available,
		ApprovalStatus: ApprovalPending,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info("driver registered",
		zap.Int64("driver_id", int64(d.ID)),
		zap.String("district", d.District),
	)
	return d, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *Driver, error) {
	d, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", nil, ErrCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrCredentials
	}

	token, err := auth.Sign(s.jwtSecret, d.ID, types.RoleDriver, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, d, nil
}

// Approve records the admin decision for a pending driver.
func (s *Service) Approve(ctx context.Context, id types.ID, approved bool) error {
	status := ApprovalRejected
	if approved {
		status = ApprovalApproved
	}
	if err := s.store.SetApproval(ctx, id, status); err != nil {
		return err
	}
	s.log.Info("driver approval updated",
		zap.Int64("driver_id", int64(id)),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, district string) ([]*Driver, error) {
	return s.store.Search(ctx, district)
}
