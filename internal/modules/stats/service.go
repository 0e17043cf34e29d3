// README: Stats service; read-only aggregations with no invariants of their own.
package stats

import (
	"context"

	"go.uber.org/zap"

	"drivehire/internal/types"
)

const (
	recentLimit      = 5
	recommendedLimit = 5
)

type Service struct {
	store *Store
	log   *zap.Logger
}

func NewService(store *Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log.With(zap.String("service", "stats"))}
}

func (s *Service) UserDashboard(ctx context.Context, userID types.ID) (*UserDashboard, error) {
	return s.store.UserDashboard(ctx, userID)
}

func (s *Service) RecentBookings(ctx context.Context, userID types.ID) ([]RecentBooking, error) {
	return s.store.RecentBookings(ctx, userID, recentLimit)
}

func (s *Service) RecommendedDrivers(ctx context.Context) ([]RecommendedDriver, error) {
	drivers, err := s.store.RecommendedDrivers(ctx, recommendedLimit)
	if err != nil {
		s.log.Warn("recommended drivers query failed", zap.Error(err))
		return nil, err
	}
	return drivers, nil
}

func (s *Service) DriverStats(ctx context.Context, driverID types.ID) (*DriverStats, error) {
	return s.store.DriverStats(ctx, driverID)
}

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	return s.store.AdminStats(ctx)
}
