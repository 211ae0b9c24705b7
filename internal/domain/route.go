package domain

import "math"

// RouteOption - вариант поездки одним видом транспорта. Строится на каждый запрос и нигде не хранится.
type RouteOption struct {
	Mode            string  `json:"mode"`
	DisplayName     string  `json:"name"`
	DurationMinutes int     `json:"duration"`
	DistanceKm      float64 `json:"distance"`
	Cost            float64 `json:"cost"`
	CO2Kg           float64 `json:"co2"`
	EcoRating       float64 `json:"ecoRating"`
	EcoRewardPoints int     `json:"ecoReward"`
	IsGreenest      bool    `json:"isGreenest"`
	IsFastest       bool    `json:"isFastest"`
	IsCheapest      bool    `json:"isCheapest"`
}

// DurationHours is the duration rounded to one decimal hour.
func (o RouteOption) DurationHours() float64 {
	return math.Round(float64(o.DurationMinutes)/60*10) / 10
}

// RouteSummary - сводка экономии CO₂ относительно поездки на машине
type RouteSummary struct {
	BaselineCO2    float64 `json:"baselineCo2"`
	BestCO2        float64 `json:"bestCo2"`
	SavingsKg      float64 `json:"savingsKg"`
	SavingsPercent int     `json:"savingsPercent"`
}

// RouteComparisonResult - полный результат сравнения маршрутов
type RouteComparisonResult struct {
	From       Location
	To         Location
	DistanceKm float64
	Travelers  int
	Options    []RouteOption
	Summary    RouteSummary
}

// Tagged returns the mode keys carrying the greenest/fastest/cheapest labels.
func (r *RouteComparisonResult) Tagged() (greenest, fastest, cheapest string) {
	for _, o := range r.Options {
		if o.IsGreenest {
			greenest = o.Mode
		}
		if o.IsFastest {
			fastest = o.Mode
		}
		if o.IsCheapest {
			cheapest = o.Mode
		}
	}
	return greenest, fastest, cheapest
}

// DefaultTravelers applies when a request does not name a traveler count.
const DefaultTravelers = 1

// RouteQuery - проверенный запрос на сравнение маршрутов
type RouteQuery struct {
	OriginText      string
	DestinationText string
	TravelerCount   int
}
