package domain

import "time"

// Statistics - агрегированная статистика сравнений маршрутов
type Statistics struct {
	TotalComparisons int64            `json:"total_comparisons"`
	GreenestByMode   map[string]int64 `json:"greenest_by_mode"`
	FastestByMode    map[string]int64 `json:"fastest_by_mode"`
	CheapestByMode   map[string]int64 `json:"cheapest_by_mode"`
	TotalDistanceKm  float64          `json:"total_distance_km"`
	PotentialSavings float64          `json:"potential_co2_savings_kg"`
	LastUpdated      time.Time        `json:"last_updated"`
}

// GazetteerStats - сведения о загруженном справочнике
type GazetteerStats struct {
	Locations int            `json:"locations"`
	ByType    map[string]int `json:"by_type"`
}
