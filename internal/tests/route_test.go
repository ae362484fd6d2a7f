package tests

import (
	"context"
	"errors"
	"math"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// ──────────────────────────────────────────────
// 4. ROUTE OPTIMIZATION
// ──────────────────────────────────────────────

func TestRoute_VisitsClosestStopFirst(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	locationStore := NewMockLocationStore()
	advisor := &CountingAdvisor{}

	// Driver at the origin, two collected orders dropping off at 1 and 2
	// degrees of longitude away. The nearer one must come first.
	locationStore.SetLocation("driver-1", 0, 0)
	far := newFoodOrder("order-far", domain.OrderStatusOutForDelivery)
	far.DriverID = "driver-1"
	far.Destination = domain.Location{Lat: 0, Lng: 2}
	near := newFoodOrder("order-near", domain.OrderStatusOutForDelivery)
	near.DriverID = "driver-1"
	near.Destination = domain.Location{Lat: 0, Lng: 1}
	orderRepo.AddOrder(far)
	orderRepo.AddOrder(near)

	routes := service.NewRouteService(orderRepo, locationStore, advisor)

	plan, err := routes.OptimizeRoute(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(plan.Stops))
	}
	if plan.Stops[0].OrderID != "order-near" || plan.Stops[1].OrderID != "order-far" {
		t.Errorf("expected near before far, got %s then %s", plan.Stops[0].OrderID, plan.Stops[1].OrderID)
	}

	// Hop distances chain from the previous stop, and the total is their sum.
	var sum float64
	for _, stop := range plan.Stops {
		if stop.DistanceFromPreviousKm <= 0 {
			t.Errorf("stop %s has non-positive hop distance", stop.OrderID)
		}
		sum += stop.DistanceFromPreviousKm
	}
	if math.Abs(plan.TotalKm-sum) > 1e-9 {
		t.Errorf("total %.4f must equal sum of hops %.4f", plan.TotalKm, sum)
	}

	if advisor.RouteNarrationCallCount != 1 {
		t.Errorf("expected exactly one narration call, got %d", advisor.RouteNarrationCallCount)
	}
}

func TestRoute_StopKindFollowsCollectionState(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	locationStore := NewMockLocationStore()
	locationStore.SetLocation("driver-1", -8.05, -34.9)

	// Accepted but not collected: the driver still has to visit the merchant.
	pickup := newFoodOrder("order-pickup", domain.OrderStatusReady)
	pickup.DriverID = "driver-1"
	// Collected: only the dropoff remains.
	dropoff := newFoodOrder("order-dropoff", domain.OrderStatusOutForDelivery)
	dropoff.DriverID = "driver-1"
	orderRepo.AddOrder(pickup)
	orderRepo.AddOrder(dropoff)

	routes := service.NewRouteService(orderRepo, locationStore, nil)

	plan, err := routes.OptimizeRoute(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kinds := map[string]domain.StopKind{}
	for _, stop := range plan.Stops {
		kinds[stop.OrderID] = stop.Kind
	}
	if kinds["order-pickup"] != domain.StopPickup {
		t.Errorf("uncollected order should yield a PICKUP stop, got %s", kinds["order-pickup"])
	}
	if kinds["order-dropoff"] != domain.StopDropoff {
		t.Errorf("collected order should yield a DROPOFF stop, got %s", kinds["order-dropoff"])
	}
}

func TestRoute_NoPositionFix_Degrades(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	order := newFoodOrder("order-1", domain.OrderStatusOutForDelivery)
	order.DriverID = "driver-1"
	orderRepo.AddOrder(order)

	routes := service.NewRouteService(orderRepo, NewMockLocationStore(), nil)

	_, err := routes.OptimizeRoute(context.Background(), "driver-1")
	if !errors.Is(err, service.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
	if !service.ErrNoActiveRoute(err) {
		t.Error("a missing fix degrades to no suggestion, not a failure")
	}
}

func TestRoute_EmptyWorkload_NoAdvisorCall(t *testing.T) {
	t.Parallel()

	locationStore := NewMockLocationStore()
	locationStore.SetLocation("driver-1", 0, 0)
	advisor := &CountingAdvisor{}

	routes := service.NewRouteService(NewMockOrderRepository(), locationStore, advisor)

	plan, err := routes.OptimizeRoute(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Stops) != 0 || plan.TotalKm != 0 {
		t.Errorf("expected an empty plan, got %d stops total %.2f", len(plan.Stops), plan.TotalKm)
	}
	if advisor.RouteNarrationCallCount != 0 {
		t.Error("an empty plan must not consult the advisor")
	}
}

// ──────────────────────────────────────────────
// 5. DRIVER PRESENCE
// ──────────────────────────────────────────────

func TestDriverDuty_OfflineRemovesFix(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	accountRepo := NewMockAccountRepository()
	locationStore := NewMockLocationStore()
	accountRepo.AddAccount(&domain.Account{ID: "driver-1", Role: domain.RoleDriver})

	drivers := service.NewDriverService(locationStore, orderRepo, accountRepo)
	ctx := context.Background()

	if err := drivers.UpdateLocation(ctx, "driver-1", -8.05, -34.9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !locationStore.HasLocation("driver-1") {
		t.Fatal("expected a position fix after update")
	}

	if err := drivers.SetDuty(ctx, "driver-1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if locationStore.HasLocation("driver-1") {
		t.Error("going offline must remove the position fix")
	}
}

func TestDriverDuty_RejectsNonDrivers(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	accountRepo.AddAccount(&domain.Account{ID: "customer-1", Role: domain.RoleCustomer})

	drivers := service.NewDriverService(NewMockLocationStore(), NewMockOrderRepository(), accountRepo)

	if err := drivers.SetDuty(context.Background(), "customer-1", true); !errors.Is(err, service.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestDriverLocation_UpdatesActiveOrders(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	order := newFoodOrder("order-1", domain.OrderStatusOutForDelivery)
	order.DriverID = "driver-1"
	orderRepo.AddOrder(order)
	done := newFoodOrder("order-2", domain.OrderStatusDelivered)
	done.DriverID = "driver-1"
	orderRepo.AddOrder(done)

	drivers := service.NewDriverService(NewMockLocationStore(), orderRepo, NewMockAccountRepository())

	if err := drivers.UpdateLocation(context.Background(), "driver-1", -8.1, -34.95); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active := orderRepo.GetOrder("order-1")
	if active.DriverPosition == nil || active.DriverPosition.Lat != -8.1 {
		t.Error("active order should carry the latest driver position")
	}
	if orderRepo.GetOrder("order-2").DriverPosition != nil {
		t.Error("terminal orders do not track driver position")
	}
}

func TestDriverLocation_RejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	drivers := service.NewDriverService(NewMockLocationStore(), NewMockOrderRepository(), NewMockAccountRepository())

	if err := drivers.UpdateLocation(context.Background(), "driver-1", 91, 0); !errors.Is(err, service.ErrInvalidLocation) {
		t.Fatalf("expected ErrInvalidLocation, got %v", err)
	}
}
