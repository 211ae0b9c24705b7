package domain

// Location types present in the gazetteer
const (
	LocationTypeCity     = "city"
	LocationTypeTown     = "town"
	LocationTypeLandmark = "landmark"
)

// Coordinates - географическая точка
type Coordinates struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// Location - запись справочника (gazetteer). Immutable after load.
type Location struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Region      string      `json:"region" db:"region"`
	Type        string      `json:"type" db:"type"`
	Coordinates Coordinates `json:"coordinates"`
}

// IsValidLocationType checks if location type is known
func IsValidLocationType(locationType string) bool {
	switch locationType {
	case LocationTypeCity, LocationTypeTown, LocationTypeLandmark:
		return true
	}
	return false
}

// SamePlace reports whether two locations sit on the same coordinates.
func (l Location) SamePlace(other Location) bool {
	return l.Coordinates == other.Coordinates
}
