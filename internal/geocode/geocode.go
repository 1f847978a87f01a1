package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Placeholder is stored as the address whenever reverse geocoding fails.
const Placeholder = "Address unavailable"

// ErrNoResult is returned when the provider has nothing for the coordinates.
var ErrNoResult = errors.New("geocode: no result")

// Location is the postal description of a coordinate pair.
type Location struct {
	Address  string  `json:"address"`
	City     *string `json:"city,omitempty"`
	District *string `json:"district,omitempty"`
}

// Geocoder resolves coordinates into a Location.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*Location, error)
}

// PlaceholderLocation is what a report carries when no address could be resolved.
func PlaceholderLocation() *Location {
	return &Location{Address: Placeholder}
}

// NominatimClient calls the OpenStreetMap Nominatim reverse endpoint.
type NominatimClient struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
}

// NewNominatimClient builds a client against baseURL.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		timeout:   timeout,
	}
}

type nominatimResponse struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       string            `json:"error"`
}

// Reverse looks up lat/lng. The request deadline is the smaller of the
// client timeout and whatever remains on ctx.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lng float64) (*Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("zoom", "18")
	query.Set("addressdetails", "1")

	agent := fiber.Get(c.baseURL + "/reverse?" + query.Encode())
	agent.Timeout(timeout)
	if c.userAgent != "" {
		agent.UserAgent(c.userAgent)
	}

	var resp nominatimResponse
	status, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		return nil, fmt.Errorf("nominatim reverse: %w", errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("nominatim reverse: unexpected status %d", status)
	}
	if resp.Error != "" || strings.TrimSpace(resp.DisplayName) == "" {
		return nil, ErrNoResult
	}

	return &Location{
		Address:  resp.DisplayName,
		City:     firstOf(resp.Address, "city", "town", "village", "municipality", "state"),
		District: firstOf(resp.Address, "city_district", "district", "county", "suburb", "borough"),
	}, nil
}

func firstOf(fields map[string]string, keys ...string) *string {
	for _, key := range keys {
		if v := strings.TrimSpace(fields[key]); v != "" {
			return &v
		}
	}
	return nil
}
