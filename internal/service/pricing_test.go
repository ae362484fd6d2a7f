package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
)

func pricingConfig() domain.PricingConfig {
	return domain.PricingConfig{
		BaseFee:   5.0,
		PerKmRate: 2.5,
		MinFare:   10.0,
		Regions: []domain.RegionSurcharge{
			{Name: "Centro Histórico", Surcharge: 3.0},
			{Name: "Zona Sul", Surcharge: 2.5},
		},
	}
}

func TestEstimateFare(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService()
	cfg := pricingConfig()

	tests := []struct {
		name        string
		distanceKm  float64
		destination string
		wantTotal   float64
		wantRegion  string
	}{
		{
			name:       "short trip floors at min fare",
			distanceKm: 1,
			wantTotal:  10.0, // 5 + 2.5 < 10
		},
		{
			name:        "surcharge region lifts above floor",
			distanceKm:  4,
			destination: "Rua do Bom Jesus, Centro Histórico",
			wantTotal:   18.0, // 5 + 10 + 3
			wantRegion:  "Centro Histórico",
		},
		{
			name:       "zero distance is valid",
			distanceKm: 0,
			wantTotal:  10.0,
		},
		{
			name:        "region match is case-insensitive",
			distanceKm:  4,
			destination: "avenida beira mar, CENTRO HISTÓRICO",
			wantTotal:   18.0,
			wantRegion:  "Centro Histórico",
		},
		{
			name:        "first listed region wins",
			distanceKm:  4,
			destination: "entre Centro Histórico e Zona Sul",
			wantTotal:   18.0,
			wantRegion:  "Centro Histórico",
		},
		{
			name:        "no matching region",
			distanceKm:  4,
			destination: "Boa Viagem",
			wantTotal:   15.0, // 5 + 10
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			quote, err := pricing.EstimateFare(tt.distanceKm, tt.destination, cfg)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantTotal, quote.Total, 1e-9)
			assert.Equal(t, tt.wantRegion, quote.Region)
		})
	}
}

func TestEstimateFare_NegativeDistance(t *testing.T) {
	t.Parallel()

	_, err := NewPricingService().EstimateFare(-1, "", pricingConfig())
	assert.ErrorIs(t, err, ErrInvalidDistance)
}

func TestEstimateFare_EmptyRegionList(t *testing.T) {
	t.Parallel()

	cfg := domain.PricingConfig{BaseFee: 5, PerKmRate: 2, MinFare: 0}
	quote, err := NewPricingService().EstimateFare(3, "Centro Histórico", cfg)
	require.NoError(t, err)
	assert.InDelta(t, 11.0, quote.Total, 1e-9)
	assert.Empty(t, quote.Region)
}

func TestEstimateFare_MonotonicInDistance(t *testing.T) {
	t.Parallel()

	pricing := NewPricingService()
	cfg := pricingConfig()

	prev := 0.0
	for km := 0.0; km <= 20; km += 0.5 {
		quote, err := pricing.EstimateFare(km, "", cfg)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.Total, prev, "fare must not decrease with distance (%.1f km)", km)
		prev = quote.Total
	}
}
