package service

import (
	"strings"

	"marketplace/internal/domain"
)

// PricingService computes fare quotes. It is a pure calculator: no state,
// no side effects, safe for concurrent use.
type PricingService struct{}

// NewPricingService creates a new PricingService.
func NewPricingService() *PricingService {
	return &PricingService{}
}

// EstimateFare computes a fare quote from the trip distance and the free-text
// destination.
//
//	fare = max(baseFee + distanceKm*perKmRate + surcharge, minFare)
//
// The surcharge comes from the first region whose name appears in the
// destination text (case-insensitive substring, list order); later matches
// are ignored. Zero distance, empty destination and an empty region list are
// all valid inputs.
func (s *PricingService) EstimateFare(distanceKm float64, destinationText string, cfg domain.PricingConfig) (*domain.FareQuote, error) {
	if distanceKm < 0 {
		return nil, ErrInvalidDistance
	}

	quote := &domain.FareQuote{
		BaseFee:     cfg.BaseFee,
		DistanceFee: distanceKm * cfg.PerKmRate,
	}

	haystack := strings.ToLower(destinationText)
	for _, region := range cfg.Regions {
		if region.Name == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(region.Name)) {
			quote.Surcharge = region.Surcharge
			quote.Region = region.Name
			break
		}
	}

	quote.Total = quote.BaseFee + quote.DistanceFee + quote.Surcharge
	if quote.Total < cfg.MinFare {
		quote.Total = cfg.MinFare
	}

	return quote, nil
}
