package domain

import "time"

// ServiceType identifies the marketplace vertical an order belongs to.
type ServiceType string

const (
	ServiceFood   ServiceType = "FOOD"
	ServiceParcel ServiceType = "PARCEL"
	ServiceRide   ServiceType = "RIDE"
)

// OrderStatus represents the current lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusInTransit      OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// PaymentMethod represents how an order is paid.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
)

// PaymentStatus represents the current payment state of an order.
type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusWaiting  PaymentStatus = "WAITING"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Order represents a customer order in the system.
//
// Amount is fixed when the order is placed and never recomputed.
// DriverID is assigned at most once; the first driver to accept wins.
type Order struct {
	ID              string
	ServiceType     ServiceType
	CustomerID      string
	MerchantID      string // empty for rides
	DriverID        string // empty until a driver accepts
	Origin          Location
	Destination     Location
	DestinationText string
	Amount          float64
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	Status          OrderStatus
	DriverPosition  *Location // last reported driver position, nil before first fix
	Rating          int       // 0 = not rated yet
	CreatedAt       time.Time
	CancelledAt     time.Time
	CancelReason    string
}
