package domain

// RegionSurcharge is a named geographic area carrying an additive fare
// adjustment. Matching is a case-insensitive substring check against the
// order's destination text, in list order; the first match wins.
type RegionSurcharge struct {
	Name      string
	Surcharge float64
}

// PricingConfig holds the fare parameters for a deployment.
type PricingConfig struct {
	BaseFee   float64
	PerKmRate float64
	MinFare   float64
	Regions   []RegionSurcharge
}

// FareQuote is the breakdown of an estimated fare.
type FareQuote struct {
	BaseFee     float64
	DistanceFee float64
	Surcharge   float64
	Region      string // matched region name, empty if none
	Total       float64
}
