package geocode

import (
	"testing"
)

func TestNewGoogleGeocoderRequiresKey(t *testing.T) {
	if _, err := NewGoogleGeocoder("", nil); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestNewGoogleGeocoder(t *testing.T) {
	g, err := NewGoogleGeocoder("test-key", nil)
	if err != nil {
		t.Fatalf("NewGoogleGeocoder() error = %v", err)
	}
	if g == nil {
		t.Fatal("nil geocoder")
	}
	var _ Geocoder = g
}
