package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/InsearchofPandas/devcamper-api/internal/config"
)

type geocoderConfig struct {
	URL string
	Key string
}

var geoCfg geocoderConfig

var client = &http.Client{Timeout: 10 * time.Second}

// Configure loads provider settings. Called once at startup.
func Configure(cfg *config.Config) error {
	geoCfg = geocoderConfig{URL: cfg.GeocoderURL, Key: cfg.GeocoderKey}
	if geoCfg.Key == "" {
		return fmt.Errorf("geocoder not configured: set GEOCODER_API_KEY")
	}
	return nil
}

// Point is a geocoded coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

type geocodeResponse struct {
	Results []struct {
		Locations []struct {
			LatLng struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"latLng"`
		} `json:"locations"`
	} `json:"results"`
}

// Geocode resolves an address or zipcode to a coordinate via the provider.
func Geocode(ctx context.Context, address string) (*Point, error) {
	u := fmt.Sprintf("%s?key=%s&location=%s&maxResults=1", geoCfg.URL, url.QueryEscape(geoCfg.Key), url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocoder response: %w", err)
	}
	if len(body.Results) == 0 || len(body.Results[0].Locations) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", address)
	}

	loc := body.Results[0].Locations[0].LatLng
	return &Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
