package service

import (
	"context"
	"errors"

	"marketplace/internal/domain"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
)

// RoutePlan is an ordered visiting sequence for a driver's active stops.
// Only the first stop is actionable; consumers must not offer completion
// actions for later stops.
type RoutePlan struct {
	DriverID  string
	Origin    domain.Location
	Stops     []domain.Stop
	TotalKm   float64
	Narration string
}

// RouteService computes multi-stop routes for drivers carrying concurrent
// orders. It is read-only: it may run on a timer against a slightly stale
// snapshot and never mutates order or account state.
type RouteService struct {
	orderRepo     repository.OrderRepository
	locationStore redis.LocationStoreInterface
	advisor       Advisor
}

// NewRouteService creates a new RouteService. advisor may be nil; narration
// then falls back to the empty string.
func NewRouteService(orderRepo repository.OrderRepository, locationStore redis.LocationStoreInterface, advisor Advisor) *RouteService {
	return &RouteService{
		orderRepo:     orderRepo,
		locationStore: locationStore,
		advisor:       advisor,
	}
}

// OptimizeRoute builds the visiting sequence for a driver's current workload.
//
// Stops are derived from the driver's assigned, non-terminal orders: a pickup
// at the origin for orders not yet collected, a dropoff at the destination
// for orders in transit. Ordering is the greedy nearest-neighbor heuristic:
// always advance to the closest remaining stop by great-circle distance. The
// result is not a globally optimal tour, and every call recomputes from
// scratch with no ordering stability across calls.
//
// Without a position fix the driver gets ErrLocationUnavailable, which
// callers degrade to "no route suggestion". An empty workload yields an empty
// plan and no advisory call.
func (s *RouteService) OptimizeRoute(ctx context.Context, driverID string) (*RoutePlan, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	fix, err := s.locationStore.GetLocation(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if fix == nil {
		return nil, ErrLocationUnavailable
	}

	orders, err := s.orderRepo.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	origin := domain.Location{Lat: fix.Lat, Lng: fix.Lng}
	plan := &RoutePlan{
		DriverID: driverID,
		Origin:   origin,
		Stops:    NearestNeighborRoute(origin, DeriveStops(orders)),
	}
	for _, stop := range plan.Stops {
		plan.TotalKm += stop.DistanceFromPreviousKm
	}

	if len(plan.Stops) > 0 && s.advisor != nil {
		plan.Narration = s.advisor.RouteNarration(ctx, plan.Stops)
	}

	return plan, nil
}

// ErrNoActiveRoute reports whether a route error just means "nothing to
// suggest" rather than a failure.
func ErrNoActiveRoute(err error) bool {
	return errors.Is(err, ErrLocationUnavailable)
}

// DeriveStops converts a driver's active orders into unvisited stops.
func DeriveStops(orders []*domain.Order) []domain.Stop {
	stops := make([]domain.Stop, 0, len(orders))
	for _, order := range orders {
		if order.DriverID == "" || domain.IsTerminal(order.Status) {
			continue
		}
		if domain.Collected(order.Status) {
			stops = append(stops, domain.Stop{
				Kind:     domain.StopDropoff,
				OrderID:  order.ID,
				Label:    order.DestinationText,
				Location: order.Destination,
			})
		} else {
			stops = append(stops, domain.Stop{
				Kind:     domain.StopPickup,
				OrderID:  order.ID,
				Label:    order.MerchantID,
				Location: order.Origin,
			})
		}
	}
	return stops
}

// NearestNeighborRoute orders stops greedily: repeatedly take the unvisited
// stop closest to the current position, record the hop distance, and advance.
// O(n^2), fine for the handful of concurrent orders a driver carries.
func NearestNeighborRoute(current domain.Location, stops []domain.Stop) []domain.Stop {
	remaining := make([]domain.Stop, len(stops))
	copy(remaining, stops)

	route := make([]domain.Stop, 0, len(remaining))
	for len(remaining) > 0 {
		best := 0
		bestDist := domain.HaversineKm(current, remaining[0].Location)
		for i := 1; i < len(remaining); i++ {
			if d := domain.HaversineKm(current, remaining[i].Location); d < bestDist {
				best = i
				bestDist = d
			}
		}

		next := remaining[best]
		next.DistanceFromPreviousKm = bestDist
		route = append(route, next)
		current = next.Location
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return route
}
