package jobs

import (
	"context"
	"log"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// MovementJob nudges every driver with active orders one step toward the
// first stop of their suggested route. It stands in for real GPS feeds in
// demo environments; each tick goes through the same location update path a
// device would use.
type MovementJob struct {
	orderRepo     repository.OrderRepository
	routeService  *service.RouteService
	driverService *service.DriverService
	stepKm        float64
}

// NewMovementJob creates a new MovementJob.
func NewMovementJob(
	orderRepo repository.OrderRepository,
	routeService *service.RouteService,
	driverService *service.DriverService,
	stepKm float64,
) *MovementJob {
	return &MovementJob{
		orderRepo:     orderRepo,
		routeService:  routeService,
		driverService: driverService,
		stepKm:        stepKm,
	}
}

// Run executes one movement tick.
func (j *MovementJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	driverIDs, err := j.orderRepo.GetActiveDriverIDs(ctx)
	if err != nil {
		log.Printf("movement job: list active drivers: %v", err)
		return
	}

	for _, driverID := range driverIDs {
		if err := j.advance(ctx, driverID); err != nil {
			log.Printf("movement job: driver %s: %v", driverID, err)
		}
	}
}

// advance moves one driver a single step along their route. Drivers without
// a position fix are skipped; they have nothing to advance from.
func (j *MovementJob) advance(ctx context.Context, driverID string) error {
	plan, err := j.routeService.OptimizeRoute(ctx, driverID)
	if err != nil {
		if service.ErrNoActiveRoute(err) {
			return nil
		}
		return err
	}
	if len(plan.Stops) == 0 {
		return nil
	}

	next := StepToward(plan.Origin, plan.Stops[0].Location, j.stepKm)
	return j.driverService.UpdateLocation(ctx, driverID, next.Lat, next.Lng)
}

// StepToward returns the point stepKm along the straight line from a to b,
// clamped to b when the remaining distance is shorter than the step.
func StepToward(a, b domain.Location, stepKm float64) domain.Location {
	dist := domain.HaversineKm(a, b)
	if dist <= stepKm || dist == 0 {
		return b
	}

	frac := stepKm / dist
	return domain.Location{
		Lat: a.Lat + (b.Lat-a.Lat)*frac,
		Lng: a.Lng + (b.Lng-a.Lng)*frac,
	}
}
