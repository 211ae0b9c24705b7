package domain

import (
	"fmt"
	"math"
	"strings"
)

// Transport mode keys
const (
	ModeWalk   = "walk"
	ModeBike   = "bike"
	ModeMetro  = "metro"
	ModeBus    = "bus"
	ModeTrain  = "train"
	ModeCar    = "car"
	ModeFlight = "flight"
)

// BaselineMode is the private-car mode every option is scored against.
const BaselineMode = ModeCar

// TransportMode - параметры вида транспорта.
// MaxDistanceKm == 0 означает, что верхней границы нет.
type TransportMode struct {
	Key           string  `json:"key"`
	DisplayName   string  `json:"name"`
	MinDistanceKm float64 `json:"minDistanceKm"`
	MaxDistanceKm float64 `json:"maxDistanceKm,omitempty"`
	AvgSpeedKmh   float64 `json:"avgSpeedKmh"`
	BaseCost      float64 `json:"baseCost"`
	CostPerKm     float64 `json:"costPerKm"`
	CO2PerKm      float64 `json:"co2PerKm"`
	BaseEcoRating float64 `json:"ecoRating"`
	// ScalesWithTravelers is true for private modes whose emissions grow with every occupant.
	// Shared modes already fold occupancy into CO2PerKm.
	ScalesWithTravelers bool `json:"scalesWithTravelers"`
}

// Unbounded reports whether the mode has no maximum distance.
func (m TransportMode) Unbounded() bool {
	return m.MaxDistanceKm == 0
}

// Covers reports whether distanceKm falls into the mode's range (bounds inclusive).
func (m TransportMode) Covers(distanceKm float64) bool {
	if distanceKm < m.MinDistanceKm {
		return false
	}
	return m.Unbounded() || distanceKm <= m.MaxDistanceKm
}

// ModeCatalog - неизменяемая таблица видов транспорта
type ModeCatalog struct {
	modes     []TransportMode
	minCO2    float64
	maxCO2    float64
	byKey     map[string]int
	validated error
}

// NewModeCatalog builds a catalog, precomputes eco-ratings and runs the self-check.
// The self-check result is available through Validate.
func NewModeCatalog(modes []TransportMode) *ModeCatalog {
	c := &ModeCatalog{
		modes: make([]TransportMode, len(modes)),
		byKey: make(map[string]int, len(modes)),
	}
	copy(c.modes, modes)

	c.minCO2, c.maxCO2 = math.Inf(1), math.Inf(-1)
	for i, m := range c.modes {
		c.byKey[m.Key] = i
		c.minCO2 = math.Min(c.minCO2, m.CO2PerKm)
		c.maxCO2 = math.Max(c.maxCO2, m.CO2PerKm)
	}
	for i := range c.modes {
		c.modes[i].BaseEcoRating = c.ecoRating(c.modes[i].CO2PerKm)
	}

	c.validated = c.selfCheck()
	return c
}

// DefaultModeCatalog returns the built-in table: walk, bike, metro, bus, train, car, flight.
func DefaultModeCatalog() *ModeCatalog {
	return NewModeCatalog([]TransportMode{
		{Key: ModeWalk, DisplayName: "Walk", MinDistanceKm: 0, MaxDistanceKm: 5, AvgSpeedKmh: 5, BaseCost: 0, CostPerKm: 0, CO2PerKm: 0, ScalesWithTravelers: true},
		{Key: ModeBike, DisplayName: "Bike", MinDistanceKm: 0, MaxDistanceKm: 30, AvgSpeedKmh: 15, BaseCost: 20, CostPerKm: 2, CO2PerKm: 0, ScalesWithTravelers: true},
		{Key: ModeMetro, DisplayName: "Metro", MinDistanceKm: 1, MaxDistanceKm: 60, AvgSpeedKmh: 35, BaseCost: 10, CostPerKm: 1.5, CO2PerKm: 0.03},
		{Key: ModeBus, DisplayName: "Bus", MinDistanceKm: 1, AvgSpeedKmh: 40, BaseCost: 20, CostPerKm: 1.2, CO2PerKm: 0.06},
		{Key: ModeTrain, DisplayName: "Train", MinDistanceKm: 20, AvgSpeedKmh: 60, BaseCost: 50, CostPerKm: 0.9, CO2PerKm: 0.04},
		{Key: ModeCar, DisplayName: "Car", MinDistanceKm: 0, AvgSpeedKmh: 50, BaseCost: 0, CostPerKm: 9, CO2PerKm: 0.17, ScalesWithTravelers: true},
		{Key: ModeFlight, DisplayName: "Flight", MinDistanceKm: 150, AvgSpeedKmh: 500, BaseCost: 2000, CostPerKm: 4, CO2PerKm: 0.25},
	})
}

// Validate returns the self-check error, nil for a well-formed catalog.
func (c *ModeCatalog) Validate() error {
	return c.validated
}

func (c *ModeCatalog) selfCheck() error {
	if len(c.modes) == 0 {
		return fmt.Errorf("mode catalog is empty")
	}

	var problems []string
	seen := make(map[string]bool, len(c.modes))
	hasUnbounded := false

	for _, m := range c.modes {
		if m.Key == "" {
			problems = append(problems, "mode with empty key")
			continue
		}
		if seen[m.Key] {
			problems = append(problems, fmt.Sprintf("%s: duplicate key", m.Key))
		}
		seen[m.Key] = true

		if !(m.AvgSpeedKmh > 0) {
			problems = append(problems, fmt.Sprintf("%s: average speed must be positive", m.Key))
		}
		if m.MinDistanceKm < 0 || m.MaxDistanceKm < 0 {
			problems = append(problems, fmt.Sprintf("%s: distance bounds must not be negative", m.Key))
		}
		if !m.Unbounded() && m.MaxDistanceKm < m.MinDistanceKm {
			problems = append(problems, fmt.Sprintf("%s: max distance %.1f below min distance %.1f",
				m.Key, m.MaxDistanceKm, m.MinDistanceKm))
		}
		if m.BaseCost < 0 || m.CostPerKm < 0 {
			problems = append(problems, fmt.Sprintf("%s: costs must not be negative", m.Key))
		}
		if m.CO2PerKm < 0 {
			problems = append(problems, fmt.Sprintf("%s: emissions must not be negative", m.Key))
		}
		if m.Unbounded() && m.MinDistanceKm == 0 {
			hasUnbounded = true
		}
	}

	if !seen[BaselineMode] {
		problems = append(problems, fmt.Sprintf("baseline mode %q is missing", BaselineMode))
	}
	if !hasUnbounded {
		problems = append(problems, "no fallback mode covers every distance")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid mode catalog: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Modes returns a copy of the table in catalog order.
func (c *ModeCatalog) Modes() []TransportMode {
	out := make([]TransportMode, len(c.modes))
	copy(out, c.modes)
	return out
}

// Mode looks a mode up by key.
func (c *ModeCatalog) Mode(key string) (TransportMode, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return TransportMode{}, false
	}
	return c.modes[i], true
}

// ApplicableModes returns the modes whose range includes distanceKm, in catalog order.
func (c *ModeCatalog) ApplicableModes(distanceKm float64) []TransportMode {
	out := make([]TransportMode, 0, len(c.modes))
	for _, m := range c.modes {
		if m.Covers(distanceKm) {
			out = append(out, m)
		}
	}
	return out
}

// EcoRatingFor returns the catalog-normalized rating of a mode.
func (c *ModeCatalog) EcoRatingFor(m TransportMode) float64 {
	return c.ecoRating(m.CO2PerKm)
}

// ecoRating = 10 - 9*(c - min)/(max - min), clamped to [0, 10], one decimal.
func (c *ModeCatalog) ecoRating(co2PerKm float64) float64 {
	spread := c.maxCO2 - c.minCO2
	if !(spread > 0) {
		return 10
	}
	r := 10 - 9*(co2PerKm-c.minCO2)/spread
	r = math.Max(0, math.Min(10, r))
	return math.Round(r*10) / 10
}
