package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		service ServiceType
		from    OrderStatus
		to      OrderStatus
		want    bool
	}{
		{"food forward step", ServiceFood, OrderStatusPending, OrderStatusPreparing, true},
		{"food skip ahead", ServiceFood, OrderStatusPending, OrderStatusDelivered, false},
		{"food backwards", ServiceFood, OrderStatusReady, OrderStatusPreparing, false},
		{"food collect", ServiceFood, OrderStatusReady, OrderStatusOutForDelivery, true},
		{"food deliver", ServiceFood, OrderStatusOutForDelivery, OrderStatusDelivered, true},
		{"food has no completed", ServiceFood, OrderStatusOutForDelivery, OrderStatusCompleted, false},
		{"parcel starts ready", ServiceParcel, OrderStatusReady, OrderStatusOutForDelivery, true},
		{"parcel never prepares", ServiceParcel, OrderStatusPending, OrderStatusPreparing, false},
		{"ride start", ServiceRide, OrderStatusPending, OrderStatusInTransit, true},
		{"ride complete", ServiceRide, OrderStatusInTransit, OrderStatusCompleted, true},
		{"ride has no delivered", ServiceRide, OrderStatusInTransit, OrderStatusDelivered, false},
		{"cancel pending food", ServiceFood, OrderStatusPending, OrderStatusCancelled, true},
		{"cancel collected food", ServiceFood, OrderStatusOutForDelivery, OrderStatusCancelled, true},
		{"cancel ride in transit", ServiceRide, OrderStatusInTransit, OrderStatusCancelled, true},
		{"no resurrection from delivered", ServiceFood, OrderStatusDelivered, OrderStatusPending, false},
		{"no cancel after delivered", ServiceFood, OrderStatusDelivered, OrderStatusCancelled, false},
		{"no cancel after cancelled", ServiceRide, OrderStatusCancelled, OrderStatusCancelled, false},
		{"unknown service", ServiceType("SCOOTER"), OrderStatusPending, OrderStatusInTransit, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanTransition(tt.service, tt.from, tt.to))
		})
	}
}

func TestLifecycleHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OrderStatusPending, InitialStatus(ServiceFood))
	assert.Equal(t, OrderStatusReady, InitialStatus(ServiceParcel))
	assert.Equal(t, OrderStatusPending, InitialStatus(ServiceRide))

	assert.Equal(t, OrderStatusDelivered, TerminalSuccessStatus(ServiceFood))
	assert.Equal(t, OrderStatusDelivered, TerminalSuccessStatus(ServiceParcel))
	assert.Equal(t, OrderStatusCompleted, TerminalSuccessStatus(ServiceRide))

	assert.Equal(t, OrderStatusReady, BiddableStatus(ServiceFood))
	assert.Equal(t, OrderStatusPending, BiddableStatus(ServiceRide))

	advanced, ok := AcceptAdvance(ServiceRide)
	assert.True(t, ok)
	assert.Equal(t, OrderStatusInTransit, advanced)
	_, ok = AcceptAdvance(ServiceFood)
	assert.False(t, ok)

	assert.True(t, IsTerminal(OrderStatusDelivered))
	assert.True(t, IsTerminal(OrderStatusCompleted))
	assert.True(t, IsTerminal(OrderStatusCancelled))
	assert.False(t, IsTerminal(OrderStatusOutForDelivery))

	assert.True(t, Collected(OrderStatusOutForDelivery))
	assert.True(t, Collected(OrderStatusInTransit))
	assert.False(t, Collected(OrderStatusReady))
}

// Every non-terminal status of every graph must be cancellable.
func TestEveryNonTerminalStatusCanCancel(t *testing.T) {
	t.Parallel()

	for service, graph := range transitions {
		for from := range graph {
			assert.True(t, CanTransition(service, from, OrderStatusCancelled),
				"%s/%s should allow cancellation", service, from)
		}
	}
}
