package dto

import (
	"github.com/eco-route-service/internal/domain"
)

// PlaceResponse - найденная точка маршрута
type PlaceResponse struct {
	Name        string             `json:"name"`
	Region      string             `json:"region"`
	Type        string             `json:"type"`
	Coordinates domain.Coordinates `json:"coordinates"`
}

// RouteOptionResponse - вариант маршрута в ответе API
type RouteOptionResponse struct {
	Mode          string  `json:"mode"`
	Name          string  `json:"name"`
	Duration      int     `json:"duration"`
	DurationHours float64 `json:"durationHours"`
	Distance      float64 `json:"distance"`
	Cost          float64 `json:"cost"`
	CO2           float64 `json:"co2"`
	EcoRating     float64 `json:"ecoRating"`
	EcoReward     int     `json:"ecoReward"`
	IsGreenest    bool    `json:"isGreenest"`
	IsFastest     bool    `json:"isFastest"`
	IsCheapest    bool    `json:"isCheapest"`
}

// RouteComparisonResponse - data для POST /routes
type RouteComparisonResponse struct {
	From      PlaceResponse         `json:"from"`
	To        PlaceResponse         `json:"to"`
	Distance  float64               `json:"distance"`
	Travelers int                   `json:"travelers"`
	Routes    []RouteOptionResponse `json:"routes"`
	Summary   domain.RouteSummary   `json:"summary"`
}

func NewPlaceResponse(l domain.Location) PlaceResponse {
	return PlaceResponse{
		Name:        l.Name,
		Region:      l.Region,
		Type:        l.Type,
		Coordinates: l.Coordinates,
	}
}

// NewRouteComparisonResponse keeps the option order of the result.
func NewRouteComparisonResponse(r *domain.RouteComparisonResult) *RouteComparisonResponse {
	routes := make([]RouteOptionResponse, 0, len(r.Options))
	for _, o := range r.Options {
		routes = append(routes, RouteOptionResponse{
			Mode:          o.Mode,
			Name:          o.DisplayName,
			Duration:      o.DurationMinutes,
			DurationHours: o.DurationHours(),
			Distance:      o.DistanceKm,
			Cost:          o.Cost,
			CO2:           o.CO2Kg,
			EcoRating:     o.EcoRating,
			EcoReward:     o.EcoRewardPoints,
			IsGreenest:    o.IsGreenest,
			IsFastest:     o.IsFastest,
			IsCheapest:    o.IsCheapest,
		})
	}

	return &RouteComparisonResponse{
		From:      NewPlaceResponse(r.From),
		To:        NewPlaceResponse(r.To),
		Distance:  r.DistanceKm,
		Travelers: r.Travelers,
		Routes:    routes,
		Summary:   r.Summary,
	}
}

// LocationSuggestion - подсказка с оценкой совпадения
type LocationSuggestion struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Region      string             `json:"region"`
	Type        string             `json:"type"`
	Coordinates domain.Coordinates `json:"coordinates"`
	Score       int                `json:"score"`
}

// SuggestResponse - ответ на поиск подсказок
type SuggestResponse struct {
	Query   string               `json:"query"`
	Results []LocationSuggestion `json:"results"`
	Total   int                  `json:"total"`
}

// ModesResponse - каталог видов транспорта
type ModesResponse struct {
	Modes []domain.TransportMode `json:"modes"`
	Total int                    `json:"total"`
}

// StatsResponse - агрегаты сравнений и сведения о справочнике
type StatsResponse struct {
	Comparisons *domain.Statistics    `json:"comparisons,omitempty"`
	Gazetteer   domain.GazetteerStats `json:"gazetteer"`
}
