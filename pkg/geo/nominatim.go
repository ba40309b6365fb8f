package geo

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// NominatimResolver geocodes free-form addresses against a Nominatim-style
// search endpoint.
type NominatimResolver struct {
	httpClient *resty.Client
}

// NewNominatimResolver builds a resolver for the given base URL.
func NewNominatimResolver(baseURL string) *NominatimResolver {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ganadero-api").
		SetTimeout(15 * time.Second)

	return &NominatimResolver{httpClient: restyClient}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve implements Resolver.
func (r *NominatimResolver) Resolve(ctx context.Context, address string) (Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Coordinates{}, ErrUnsupported
	}

	var places []nominatimPlace
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&places).
		Get("/search")
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}

	switch {
	case resp.StatusCode() == http.StatusForbidden, resp.StatusCode() == http.StatusTooManyRequests:
		return Coordinates{}, ErrDenied
	case resp.StatusCode() != http.StatusOK:
		return Coordinates{}, fmt.Errorf("geocode %q: unexpected status %d", address, resp.StatusCode())
	case len(places) == 0:
		return Coordinates{}, ErrUnsupported
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: parse latitude: %w", address, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: parse longitude: %w", address, err)
	}

	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
