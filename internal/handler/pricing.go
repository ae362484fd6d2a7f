package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// PricingHandler handles HTTP requests for fare estimates.
type PricingHandler struct {
	pricingService *service.PricingService
	pricingConfig  domain.PricingConfig
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingService *service.PricingService, pricingConfig domain.PricingConfig) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		pricingConfig:  pricingConfig,
	}
}

// EstimateFareRequest is the HTTP request body for a fare estimate.
// Either an explicit distance or an origin/destination pair is accepted;
// an explicit distance wins.
type EstimateFareRequest struct {
	DistanceKm      float64          `json:"distance_km"`
	Origin          *LocationPayload `json:"origin"`
	Destination     *LocationPayload `json:"destination"`
	DestinationText string           `json:"destination_text"`
}

// FareQuoteResponse is the HTTP response for a fare estimate.
type FareQuoteResponse struct {
	BaseFee     float64 `json:"base_fee"`
	DistanceFee float64 `json:"distance_fee"`
	Surcharge   float64 `json:"surcharge"`
	Region      string  `json:"region,omitempty"`
	Total       float64 `json:"total"`
	DistanceKm  float64 `json:"distance_km"`
}

// Estimate handles POST /v1/pricing/estimate
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req EstimateFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	distanceKm := req.DistanceKm
	if distanceKm == 0 && req.Origin != nil && req.Destination != nil {
		origin := domain.Location{Lat: req.Origin.Lat, Lng: req.Origin.Lng}
		destination := domain.Location{Lat: req.Destination.Lat, Lng: req.Destination.Lng}
		if !domain.ValidCoordinates(origin.Lat, origin.Lng) || !domain.ValidCoordinates(destination.Lat, destination.Lng) {
			respondError(c, service.ErrInvalidLocation)
			return
		}
		distanceKm = domain.HaversineKm(origin, destination)
	}

	quote, err := h.pricingService.EstimateFare(distanceKm, req.DestinationText, h.pricingConfig)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, FareQuoteResponse{
		BaseFee:     quote.BaseFee,
		DistanceFee: quote.DistanceFee,
		Surcharge:   quote.Surcharge,
		Region:      quote.Region,
		Total:       quote.Total,
		DistanceKm:  distanceKm,
	})
}
