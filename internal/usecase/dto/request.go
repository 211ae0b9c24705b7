package dto

import "github.com/eco-route-service/internal/domain"

// RouteRequest - тело POST /routes
type RouteRequest struct {
	From      string `json:"from" validate:"required,max=200"`
	To        string `json:"to" validate:"required,max=200"`
	Travelers *int   `json:"travelers,omitempty" validate:"omitempty,min=1,max=100"`
}

// ToQuery applies the default traveler count.
func (r RouteRequest) ToQuery() domain.RouteQuery {
	travelers := domain.DefaultTravelers
	if r.Travelers != nil {
		travelers = *r.Travelers
	}
	return domain.RouteQuery{
		OriginText:      r.From,
		DestinationText: r.To,
		TravelerCount:   travelers,
	}
}

// SuggestRequest - запрос подсказок по названию места
type SuggestRequest struct {
	Query string `query:"q" json:"q" validate:"required,min=2,max=100"`
	Limit int    `query:"limit" json:"limit" validate:"omitempty,min=1,max=50"`
}
