package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/pkg/utils"
)

// OptionParams - настраиваемые параметры расчёта вариантов
type OptionParams struct {
	RewardFactor       float64 // points per kg of CO₂ saved against the car
	MinDurationMinutes int
}

// DefaultOptionParams mirrors the configuration defaults.
func DefaultOptionParams() OptionParams {
	return OptionParams{
		RewardFactor:       2,
		MinDurationMinutes: 5,
	}
}

// TripCO2 is the unrounded emission of a trip. Private modes are multiplied by travelers.
func TripCO2(mode domain.TransportMode, distanceKm float64, travelers int) float64 {
	co2 := mode.CO2PerKm * distanceKm
	if mode.ScalesWithTravelers {
		co2 *= float64(travelers)
	}
	return co2
}

// BuildOption computes one mode's figures. baselineCO2 is the unrounded car emission
// for the same trip.
//
// A non-positive speed or distance means the catalog check or the caller is broken,
// so it panics instead of returning an error.
func BuildOption(
	catalog *domain.ModeCatalog,
	mode domain.TransportMode,
	distanceKm float64,
	travelers int,
	baselineCO2 float64,
	p OptionParams,
) domain.RouteOption {
	if !(mode.AvgSpeedKmh > 0) {
		panic(fmt.Sprintf("route option: mode %q has non-positive speed %v", mode.Key, mode.AvgSpeedKmh))
	}
	if !(distanceKm > 0) {
		panic(fmt.Sprintf("route option: non-positive distance %v", distanceKm))
	}

	duration := int(math.Round(distanceKm / mode.AvgSpeedKmh * 60))
	if duration < p.MinDurationMinutes {
		duration = p.MinDurationMinutes
	}

	co2 := TripCO2(mode, distanceKm, travelers)
	saved := math.Max(0, baselineCO2-co2)

	return domain.RouteOption{
		Mode:            mode.Key,
		DisplayName:     mode.DisplayName,
		DurationMinutes: duration,
		DistanceKm:      utils.RoundTo(distanceKm, 1),
		Cost:            math.Round((mode.BaseCost + mode.CostPerKm*distanceKm) * float64(travelers)),
		CO2Kg:           utils.RoundTo(co2, 2),
		EcoRating:       catalog.EcoRatingFor(mode),
		EcoRewardPoints: int(math.Round(saved * p.RewardFactor)),
	}
}

// Rank sets exactly one greenest, fastest and cheapest tag. Options must be in
// catalog order, the earliest wins remaining ties.
func Rank(options []domain.RouteOption) {
	if len(options) == 0 {
		return
	}

	greenest, fastest, cheapest := 0, 0, 0
	for i := range options {
		options[i].IsGreenest = false
		options[i].IsFastest = false
		options[i].IsCheapest = false

		o := options[i]
		if lessPair(o.CO2Kg, o.Cost, options[greenest].CO2Kg, options[greenest].Cost) {
			greenest = i
		}
		if lessPair(float64(o.DurationMinutes), o.Cost,
			float64(options[fastest].DurationMinutes), options[fastest].Cost) {
			fastest = i
		}
		if lessPair(o.Cost, o.CO2Kg, options[cheapest].Cost, options[cheapest].CO2Kg) {
			cheapest = i
		}
	}

	options[greenest].IsGreenest = true
	options[fastest].IsFastest = true
	options[cheapest].IsCheapest = true
}

func lessPair(a1, a2, b1, b2 float64) bool {
	if a1 != b1 {
		return a1 < b1
	}
	return a2 < b2
}

// Summarize compares the greenest option with the car baseline.
func Summarize(options []domain.RouteOption, baseline domain.RouteOption) domain.RouteSummary {
	summary := domain.RouteSummary{
		BaselineCO2: baseline.CO2Kg,
		BestCO2:     baseline.CO2Kg,
	}
	for _, o := range options {
		if o.IsGreenest {
			summary.BestCO2 = o.CO2Kg
			break
		}
	}

	summary.SavingsKg = utils.RoundTo(math.Max(0, summary.BaselineCO2-summary.BestCO2), 2)
	if summary.BaselineCO2 > 0 {
		summary.SavingsPercent = int(math.Round(summary.SavingsKg / summary.BaselineCO2 * 100))
	}
	return summary
}

// Assemble orders a copy of the options by eco-rating, cheaper first on equal rating.
func Assemble(
	from, to domain.Location,
	distanceKm float64,
	travelers int,
	options []domain.RouteOption,
	summary domain.RouteSummary,
) *domain.RouteComparisonResult {
	sorted := make([]domain.RouteOption, len(options))
	copy(sorted, options)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EcoRating != sorted[j].EcoRating {
			return sorted[i].EcoRating > sorted[j].EcoRating
		}
		return sorted[i].Cost < sorted[j].Cost
	})

	return &domain.RouteComparisonResult{
		From:       from,
		To:         to,
		DistanceKm: utils.RoundTo(distanceKm, 1),
		Travelers:  travelers,
		Options:    sorted,
		Summary:    summary,
	}
}
