package service

import (
	"context"

	"marketplace/internal/domain"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
)

// DriverService handles driver presence and position updates.
type DriverService struct {
	locationStore redis.LocationStoreInterface
	orderRepo     repository.OrderRepository
	accountRepo   repository.AccountRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	locationStore redis.LocationStoreInterface,
	orderRepo repository.OrderRepository,
	accountRepo repository.AccountRepository,
) *DriverService {
	return &DriverService{
		locationStore: locationStore,
		orderRepo:     orderRepo,
		accountRepo:   accountRepo,
	}
}

// UpdateLocation records a GPS tick for a driver. The geo index and the
// tracking point on the driver's active orders are both last-writer-wins.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if !domain.ValidCoordinates(lat, lng) {
		return ErrInvalidLocation
	}

	if err := s.locationStore.UpdateLocation(ctx, driverID, lat, lng); err != nil {
		return err
	}

	return s.orderRepo.UpdateDriverPosition(ctx, driverID, domain.Location{Lat: lat, Lng: lng})
}

// SetDuty flips a driver online or offline. Going offline removes the
// position fix, which in turn suppresses route suggestions.
func (s *DriverService) SetDuty(ctx context.Context, driverID string, online bool) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	account, err := s.accountRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if account.Role != domain.RoleDriver {
		return ErrInvalidRole
	}

	if !online {
		return s.locationStore.RemoveLocation(ctx, driverID)
	}
	// Online is implicit: the driver shows up once the first fix arrives.
	return nil
}
