package service

import "errors"

var (
	// ErrInvalidOrderID is returned when order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidAccountID is returned when account ID is empty.
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidMerchantID is returned when merchant ID is required but empty.
	ErrInvalidMerchantID = errors.New("invalid merchant id")

	// ErrInvalidServiceType is returned when the service type is unknown.
	ErrInvalidServiceType = errors.New("invalid service type")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidAmount is returned when a monetary amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDistance is returned when a distance is negative.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidRole is returned when an account has the wrong role for an operation.
	ErrInvalidRole = errors.New("invalid account role")

	// ErrAssignmentConflict is returned when an order already has a driver.
	ErrAssignmentConflict = errors.New("order already assigned to a driver")

	// ErrOrderNotBiddable is returned when an order is not open for acceptance.
	ErrOrderNotBiddable = errors.New("order not open for acceptance")

	// ErrInvalidTransition is returned when a status change is not an allowed
	// edge of the order's transition graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientFunds is returned when a wallet debit would exceed the balance.
	ErrInsufficientFunds = errors.New("insufficient wallet funds")

	// ErrLocationUnavailable is returned when a driver has no position fix.
	// Callers degrade to "no route suggestion" rather than surfacing a failure.
	ErrLocationUnavailable = errors.New("driver location unavailable")

	// ErrDriverRequired is returned when a transition needs an assigned driver.
	ErrDriverRequired = errors.New("order has no assigned driver")

	// ErrOrderNotDelivered is returned when rating an order that is not in a
	// terminal success state.
	ErrOrderNotDelivered = errors.New("order not delivered yet")
)
