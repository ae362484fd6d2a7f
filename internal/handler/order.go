package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService    *service.OrderService
	dispatchService *service.DispatchService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService, dispatchService *service.DispatchService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		dispatchService: dispatchService,
	}
}

// LocationPayload is a lat/lng pair in request and response bodies.
type LocationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceOrderRequest is the HTTP request body for placing an order.
type PlaceOrderRequest struct {
	ServiceType     string          `json:"service_type"`
	CustomerID      string          `json:"customer_id"`
	MerchantID      string          `json:"merchant_id"`
	Origin          LocationPayload `json:"origin"`
	Destination     LocationPayload `json:"destination"`
	DestinationText string          `json:"destination_text"`
	PaymentMethod   string          `json:"payment_method"`
}

// AcceptOrderRequest is the HTTP request body for accepting an order.
type AcceptOrderRequest struct {
	DriverID string `json:"driver_id"`
}

// UpdateStatusRequest is the HTTP request body for a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CancelOrderRequest is the HTTP request body for cancelling an order.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// RateOrderRequest is the HTTP request body for rating an order.
type RateOrderRequest struct {
	Rating int `json:"rating"`
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID              string           `json:"id"`
	ServiceType     string           `json:"service_type"`
	CustomerID      string           `json:"customer_id"`
	MerchantID      string           `json:"merchant_id,omitempty"`
	DriverID        string           `json:"driver_id,omitempty"`
	Origin          LocationPayload  `json:"origin"`
	Destination     LocationPayload  `json:"destination"`
	DestinationText string           `json:"destination_text"`
	Amount          float64          `json:"amount"`
	PaymentMethod   string           `json:"payment_method"`
	PaymentStatus   string           `json:"payment_status"`
	Status          string           `json:"status"`
	DriverPosition  *LocationPayload `json:"driver_position,omitempty"`
	Rating          int              `json:"rating,omitempty"`
	CreatedAt       string           `json:"created_at"`
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		ServiceType:     string(order.ServiceType),
		CustomerID:      order.CustomerID,
		MerchantID:      order.MerchantID,
		DriverID:        order.DriverID,
		Origin:          LocationPayload{Lat: order.Origin.Lat, Lng: order.Origin.Lng},
		Destination:     LocationPayload{Lat: order.Destination.Lat, Lng: order.Destination.Lng},
		DestinationText: order.DestinationText,
		Amount:          order.Amount,
		PaymentMethod:   string(order.PaymentMethod),
		PaymentStatus:   string(order.PaymentStatus),
		Status:          string(order.Status),
		Rating:          order.Rating,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
	}
	if order.DriverPosition != nil {
		resp.DriverPosition = &LocationPayload{Lat: order.DriverPosition.Lat, Lng: order.DriverPosition.Lng}
	}
	return resp
}

// PlaceOrder handles POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
		ServiceType:     domain.ServiceType(req.ServiceType),
		CustomerID:      req.CustomerID,
		MerchantID:      req.MerchantID,
		Origin:          domain.Location{Lat: req.Origin.Lat, Lng: req.Origin.Lng},
		Destination:     domain.Location{Lat: req.Destination.Lat, Lng: req.Destination.Lng},
		DestinationText: req.DestinationText,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
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

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Accept handles POST /v1/orders/:id/accept
func (h *OrderHandler) Accept(c *gin.Context) {
	var req AcceptOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.dispatchService.AcceptOrder(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles POST /v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.dispatchService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.dispatchService.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Rate handles POST /v1/orders/:id/rating
func (h *OrderHandler) Rate(c *gin.Context) {
	var req RateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.dispatchService.RateOrder(c.Request.Context(), c.Param("id"), req.Rating); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rated"})
}
