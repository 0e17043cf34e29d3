// README: Pickup-point suggestions via the Places API.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Place is a simplified location result offered as a pickup point.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	PlaceID          string  `json:"placeId"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

const maxSuggestions = 5

type PlacesService struct {
	client *maps.Client
}

func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// SuggestPickupPoints returns well-known places matching query near the given
// area, for customers typing a free-form pickup location.
func (s *PlacesService) SuggestPickupPoints(ctx context.Context, area, query string) ([]Place, error) {
	fullQuery := query
	if area != "" {
		fullQuery = fmt.Sprintf("%s near %s", query, area)
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:  fullQuery,
		Region: "IN",
	})
	if err != nil {
		return nil, fmt.Errorf("places api: %w", err)
	}

	var results []Place
	for _, result := range resp.Results {
		results = append(results, Place{
			Name:             result.Name,
			Address:          result.FormattedAddress,
			Rating:           result.Rating,
			PlaceID:          result.PlaceID,
			UserRatingsTotal: result.UserRatingsTotal,
		})
		if len(results) >= maxSuggestions {
			break
		}
	}
	return results, nil
}
