package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"safescout/pkg/model"
	"safescout/pkg/tracker"
)

// Geocoder resolves a coordinate to a textual address.
type Geocoder interface {
	// ReverseGeocode returns the formatted address of the best match.
	// May fail or return an empty result; callers own the fallback.
	ReverseGeocode(ctx context.Context, pos model.Coordinates) (string, error)
}

// GoogleGeocoder implements Geocoder on the Google Maps Geocoding API.
type GoogleGeocoder struct {
	client  *maps.Client
	tracker *tracker.Tracker
}

// NewGoogleGeocoder creates a geocoder with the given API key.
func NewGoogleGeocoder(apiKey string, t *tracker.Tracker) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("geocoding api key is missing")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, tracker: t}, nil
}

// ReverseGeocode resolves pos to the first formatted address.
func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, pos model.Coordinates) (string, error) {
	req := &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: pos.Lat(), Lng: pos.Lon()},
	}

	results, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		if g.tracker != nil {
			g.tracker.TrackAPIFailure("gmaps")
		}
		return "", fmt.Errorf("reverse geocode error: %w", err)
	}

	if g.tracker != nil {
		g.tracker.TrackAPISuccess("gmaps")
	}

	if len(results) == 0 {
		return "", fmt.Errorf("reverse geocode returned no results")
	}
	return results[0].FormattedAddress, nil
}
