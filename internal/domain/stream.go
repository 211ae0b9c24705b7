package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamRouteCompared = "stream:routes:compared"
)

// RouteComparedEvent - событие об успешном сравнении маршрутов (для аналитики и бонусов)
type RouteComparedEvent struct {
	EventID         uuid.UUID `json:"event_id"`
	OccurredAt      time.Time `json:"occurred_at"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	DistanceKm      float64   `json:"distance_km"`
	Travelers       int       `json:"travelers"`
	Modes           []string  `json:"modes"`
	Greenest        string    `json:"greenest"`
	Fastest         string    `json:"fastest"`
	Cheapest        string    `json:"cheapest"`
	BaselineCO2     float64   `json:"baseline_co2"`
	BestCO2         float64   `json:"best_co2"`
	SavingsKg       float64   `json:"savings_kg"`
	MaxRewardPoints int       `json:"max_reward_points"`
}

// NewRouteComparedEvent builds an event from a finished comparison.
func NewRouteComparedEvent(result *RouteComparisonResult, now time.Time) *RouteComparedEvent {
	greenest, fastest, cheapest := result.Tagged()

	modes := make([]string, len(result.Options))
	maxReward := 0
	for i, o := range result.Options {
		modes[i] = o.Mode
		if o.EcoRewardPoints > maxReward {
			maxReward = o.EcoRewardPoints
		}
	}

	return &RouteComparedEvent{
		EventID:         uuid.New(),
		OccurredAt:      now.UTC(),
		From:            result.From.Name,
		To:              result.To.Name,
		DistanceKm:      result.DistanceKm,
		Travelers:       result.Travelers,
		Modes:           modes,
		Greenest:        greenest,
		Fastest:         fastest,
		Cheapest:        cheapest,
		BaselineCO2:     result.Summary.BaselineCO2,
		BestCO2:         result.Summary.BestCO2,
		SavingsKg:       result.Summary.SavingsKg,
		MaxRewardPoints: maxReward,
	}
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data map[string]interface{}
}
