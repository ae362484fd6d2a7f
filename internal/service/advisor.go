package service

import (
	"context"
	"fmt"

	"marketplace/internal/domain"
)

// Advisor produces short human-readable strings for display: merchant tips,
// route narration, platform insights. Advice never influences state and is
// consumed strictly out-of-band; implementations must degrade to a static
// string instead of returning errors, so a missing or failing backend can
// never gate a transition.
type Advisor interface {
	MerchantTip(ctx context.Context, orderCount int, avgRating float64) string
	RouteNarration(ctx context.Context, stops []domain.Stop) string
	PlatformInsight(ctx context.Context, totalRevenue float64, totalAccounts int) string
}

// StaticAdvisor is the fallback Advisor used when no generation backend is
// configured. Its strings match the fallbacks of the production service.
type StaticAdvisor struct{}

// NewStaticAdvisor creates a new StaticAdvisor.
func NewStaticAdvisor() *StaticAdvisor {
	return &StaticAdvisor{}
}

// MerchantTip returns a canned sales tip.
func (a *StaticAdvisor) MerchantTip(ctx context.Context, orderCount int, avgRating float64) string {
	return "Continue oferecendo um excelente serviço!"
}

// RouteNarration summarizes the next actionable stop.
func (a *StaticAdvisor) RouteNarration(ctx context.Context, stops []domain.Stop) string {
	if len(stops) == 0 {
		return ""
	}
	first := stops[0]
	if first.Kind == domain.StopPickup {
		return fmt.Sprintf("Próxima parada: coleta a %.1f km.", first.DistanceFromPreviousKm)
	}
	return fmt.Sprintf("Próxima parada: entrega a %.1f km.", first.DistanceFromPreviousKm)
}

// PlatformInsight returns a canned growth insight.
func (a *StaticAdvisor) PlatformInsight(ctx context.Context, totalRevenue float64, totalAccounts int) string {
	return "Sua plataforma está crescendo de forma constante."
}

var _ Advisor = (*StaticAdvisor)(nil)
