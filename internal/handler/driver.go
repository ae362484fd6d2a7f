package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/service"
)

// DriverHandler handles HTTP requests for drivers.
type DriverHandler struct {
	driverService *service.DriverService
	routeService  *service.RouteService
	orderService  *service.OrderService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService, routeService *service.RouteService, orderService *service.OrderService) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		routeService:  routeService,
		orderService:  orderService,
	}
}

// UpdateLocationRequest is the HTTP request body for updating driver location.
type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SetDutyRequest is the HTTP request body for flipping duty status.
type SetDutyRequest struct {
	Online bool `json:"online"`
}

// StopResponse is the HTTP response for one route stop.
type StopResponse struct {
	Kind       string          `json:"kind"`
	OrderID    string          `json:"order_id"`
	Label      string          `json:"label,omitempty"`
	Location   LocationPayload `json:"location"`
	DistanceKm float64         `json:"distance_km"`
}

// RouteResponse is the HTTP response for a driver's suggested route.
type RouteResponse struct {
	DriverID  string           `json:"driver_id"`
	Origin    *LocationPayload `json:"origin,omitempty"`
	Stops     []StopResponse   `json:"stops"`
	TotalKm   float64          `json:"total_km"`
	Narration string           `json:"narration,omitempty"`
}

// UpdateLocation handles POST /v1/drivers/:id/location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.UpdateLocation(c.Request.Context(), c.Param("id"), req.Lat, req.Lng); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetDuty handles POST /v1/drivers/:id/duty
func (h *DriverHandler) SetDuty(c *gin.Context) {
	var req SetDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.SetDuty(c.Request.Context(), c.Param("id"), req.Online); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"online": req.Online})
}

// Route handles GET /v1/drivers/:id/route
//
// A driver without a position fix gets an empty suggestion, not an error.
func (h *DriverHandler) Route(c *gin.Context) {
	driverID := c.Param("id")

	plan, err := h.routeService.OptimizeRoute(c.Request.Context(), driverID)
	if err != nil {
		if service.ErrNoActiveRoute(err) {
			c.JSON(http.StatusOK, RouteResponse{DriverID: driverID, Stops: []StopResponse{}})
			return
		}
		respondError(c, err)
		return
	}

	resp := RouteResponse{
		DriverID:  plan.DriverID,
		Origin:    &LocationPayload{Lat: plan.Origin.Lat, Lng: plan.Origin.Lng},
		Stops:     make([]StopResponse, 0, len(plan.Stops)),
		TotalKm:   plan.TotalKm,
		Narration: plan.Narration,
	}
	for _, stop := range plan.Stops {
		resp.Stops = append(resp.Stops, StopResponse{
			Kind:       string(stop.Kind),
			OrderID:    stop.OrderID,
			Label:      stop.Label,
			Location:   LocationPayload{Lat: stop.Location.Lat, Lng: stop.Location.Lng},
			DistanceKm: stop.DistanceFromPreviousKm,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// ActiveOrders handles GET /v1/drivers/:id/orders
func (h *DriverHandler) ActiveOrders(c *gin.Context) {
	orders, err := h.orderService.GetActiveOrdersByDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, resp)
}
