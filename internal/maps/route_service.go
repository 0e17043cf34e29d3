// README: Travel estimates for pickup/drop pairs via the Google Maps Directions API.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

// RouteService handles interactions with the Google Maps API. It is an
// optional collaborator: callers run without it when no API key is set.
type RouteService struct {
	client *maps.Client
}

func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// TravelEstimate returns the driving duration and a human-readable distance
// between two free-text locations (the same strings bookings carry).
func (s *RouteService) TravelEstimate(ctx context.Context, pickup, drop string) (time.Duration, string, error) {
	r := &maps.DirectionsRequest{
		Origin:      pickup,
		Destination: drop,
		Mode:        maps.TravelModeDriving,
		Region:      "IN",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, "", fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, "", fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return leg.Duration, leg.Distance.HumanReadable, nil
}
