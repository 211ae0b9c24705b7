package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eco-route-service/internal/domain"
	"github.com/eco-route-service/internal/usecase"
)

func mustMode(t *testing.T, catalog *domain.ModeCatalog, key string) domain.TransportMode {
	t.Helper()
	m, ok := catalog.Mode(key)
	require.True(t, ok, key)
	return m
}

func TestBuildOption(t *testing.T) {
	catalog := domain.DefaultModeCatalog()
	params := usecase.DefaultOptionParams()
	car := mustMode(t, catalog, domain.ModeCar)
	train := mustMode(t, catalog, domain.ModeTrain)

	const d = 200.0
	baseline := usecase.TripCO2(car, d, 1)
	assert.InDelta(t, 34.0, baseline, 1e-9)

	opt := usecase.BuildOption(catalog, train, d, 1, baseline, params)

	assert.Equal(t, domain.ModeTrain, opt.Mode)
	assert.Equal(t, "Train", opt.DisplayName)
	assert.Equal(t, 200, opt.DurationMinutes)
	assert.Equal(t, 200.0, opt.DistanceKm)
	assert.Equal(t, 230.0, opt.Cost)
	assert.Equal(t, 8.0, opt.CO2Kg)
	assert.Equal(t, 8.6, opt.EcoRating)
	assert.Equal(t, 52, opt.EcoRewardPoints)
	assert.False(t, opt.IsGreenest || opt.IsFastest || opt.IsCheapest)

	carOpt := usecase.BuildOption(catalog, car, d, 1, baseline, params)
	assert.Zero(t, carOpt.EcoRewardPoints)
}

func TestBuildOption_MinimumDuration(t *testing.T) {
	catalog := domain.DefaultModeCatalog()
	car := mustMode(t, catalog, domain.ModeCar)

	opt := usecase.BuildOption(catalog, car, 0.5, 1, usecase.TripCO2(car, 0.5, 1), usecase.DefaultOptionParams())
	assert.Equal(t, 5, opt.DurationMinutes)
}

func TestBuildOption_TravelerScaling(t *testing.T) {
	catalog := domain.DefaultModeCatalog()
	params := usecase.DefaultOptionParams()
	car := mustMode(t, catalog, domain.ModeCar)
	bus := mustMode(t, catalog, domain.ModeBus)

	const d = 100.0
	carOne := usecase.BuildOption(catalog, car, d, 1, usecase.TripCO2(car, d, 1), params)
	carFour := usecase.BuildOption(catalog, car, d, 4, usecase.TripCO2(car, d, 4), params)
	busOne := usecase.BuildOption(catalog, bus, d, 1, usecase.TripCO2(car, d, 1), params)
	busFour := usecase.BuildOption(catalog, bus, d, 4, usecase.TripCO2(car, d, 4), params)

	assert.Equal(t, 4*carOne.Cost, carFour.Cost)
	assert.Equal(t, 4*busOne.Cost, busFour.Cost)

	assert.InDelta(t, 4*carOne.CO2Kg, carFour.CO2Kg, 1e-9)
	assert.Equal(t, busOne.CO2Kg, busFour.CO2Kg)

	assert.Greater(t, busFour.EcoRewardPoints, busOne.EcoRewardPoints)
}

func TestBuildOption_PanicsOnBrokenInput(t *testing.T) {
	catalog := domain.DefaultModeCatalog()
	params := usecase.DefaultOptionParams()
	car := mustMode(t, catalog, domain.ModeCar)

	assert.Panics(t, func() {
		usecase.BuildOption(catalog, car, 0, 1, 0, params)
	})

	broken := car
	broken.AvgSpeedKmh = 0
	assert.Panics(t, func() {
		usecase.BuildOption(catalog, broken, 10, 1, 0, params)
	})
}

func TestRank_ExactlyOneOfEachTag(t *testing.T) {
	options := []domain.RouteOption{
		{Mode: "walk", DurationMinutes: 59, Cost: 0, CO2Kg: 0, IsFastest: true},
		{Mode: "bike", DurationMinutes: 20, Cost: 30, CO2Kg: 0},
		{Mode: "metro", DurationMinutes: 8, Cost: 17, CO2Kg: 0.15},
		{Mode: "bus", DurationMinutes: 7, Cost: 26, CO2Kg: 0.3},
		{Mode: "car", DurationMinutes: 7, Cost: 44, CO2Kg: 0.84},
	}

	usecase.Rank(options)

	counts := map[string]int{}
	for _, o := range options {
		if o.IsGreenest {
			counts["greenest"]++
			assert.Equal(t, "walk", o.Mode)
		}
		if o.IsFastest {
			counts["fastest"]++
			// bus and car tie on duration, bus is cheaper
			assert.Equal(t, "bus", o.Mode)
		}
		if o.IsCheapest {
			counts["cheapest"]++
			assert.Equal(t, "walk", o.Mode)
		}
	}
	assert.Equal(t, map[string]int{"greenest": 1, "fastest": 1, "cheapest": 1}, counts)
}

func TestRank_FullTieGoesToCatalogOrder(t *testing.T) {
	options := []domain.RouteOption{
		{Mode: "bus", DurationMinutes: 10, Cost: 5, CO2Kg: 1},
		{Mode: "train", DurationMinutes: 10, Cost: 5, CO2Kg: 1},
	}

	usecase.Rank(options)

	assert.True(t, options[0].IsGreenest)
	assert.True(t, options[0].IsFastest)
	assert.True(t, options[0].IsCheapest)
	assert.False(t, options[1].IsGreenest || options[1].IsFastest || options[1].IsCheapest)
}

func TestRank_Empty(t *testing.T) {
	assert.NotPanics(t, func() { usecase.Rank(nil) })
}

func TestSummarize(t *testing.T) {
	options := []domain.RouteOption{
		{Mode: "train", CO2Kg: 9.41, IsGreenest: true},
		{Mode: "car", CO2Kg: 40},
	}

	s := usecase.Summarize(options, domain.RouteOption{Mode: "car", CO2Kg: 40})
	assert.Equal(t, 40.0, s.BaselineCO2)
	assert.Equal(t, 9.41, s.BestCO2)
	assert.Equal(t, 30.59, s.SavingsKg)
	assert.Equal(t, 76, s.SavingsPercent)
}

func TestSummarize_ZeroBaseline(t *testing.T) {
	options := []domain.RouteOption{{Mode: "walk", IsGreenest: true}}

	s := usecase.Summarize(options, domain.RouteOption{Mode: "car"})
	assert.Zero(t, s.SavingsKg)
	assert.Zero(t, s.SavingsPercent)
}

func TestAssemble_OrdersByRatingThenCost(t *testing.T) {
	options := []domain.RouteOption{
		{Mode: "bike", EcoRating: 10, Cost: 30},
		{Mode: "car", EcoRating: 3.9, Cost: 44},
		{Mode: "walk", EcoRating: 10, Cost: 0},
		{Mode: "metro", EcoRating: 8.9, Cost: 17},
	}

	result := usecase.Assemble(domain.Location{Name: "A"}, domain.Location{Name: "B"}, 4.94382, 1, options, domain.RouteSummary{})

	var order []string
	for _, o := range result.Options {
		order = append(order, o.Mode)
	}
	assert.Equal(t, []string{"walk", "bike", "metro", "car"}, order)
	assert.Equal(t, 4.9, result.DistanceKm)

	// input slice untouched
	assert.Equal(t, "bike", options[0].Mode)
}
