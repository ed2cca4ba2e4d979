// Package routing implements the RoutePlanner port against an OSRM-compatible
// routing service. The engine treats the returned geometry as opaque; only
// the per-leg distance and duration are interpreted.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// routeResponse mirrors the OSRM /route response shape, trimmed to the
// fields the engine consumes.
type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string `json:"geometry"`
		Legs     []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Client handles communication with the routing service.
// Implements ports.RoutePlanner.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a routing client against the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ComputeRoute requests a driving route through the given points, in order.
// At least two points are required.
func (c *Client) ComputeRoute(ctx context.Context, points []kernel.GeoPoint) (order.Route, error) {
	if len(points) < 2 {
		return order.Route{}, fmt.Errorf("route needs at least two points, got %d", len(points))
	}

	coords := make([]string, 0, len(points))
	for _, p := range points {
		// OSRM expects lng,lat pairs.
		coords = append(coords, fmt.Sprintf("%f,%f", p.Lng(), p.Lat()))
	}
	url := fmt.Sprintf("%s/route/v1/driving/%s?overview=full&geometries=polyline",
		c.baseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return order.Route{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return order.Route{}, fmt.Errorf("failed to fetch route: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return order.Route{}, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var decoded routeResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return order.Route{}, fmt.Errorf("failed to decode route response: %w", err)
	}
	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return order.Route{}, fmt.Errorf("routing service returned no route (code %q)", decoded.Code)
	}

	best := decoded.Routes[0]
	route := order.Route{Geometry: best.Geometry}
	for _, leg := range best.Legs {
		route.Legs = append(route.Legs, order.RouteLeg{
			DistanceMeters:  leg.Distance,
			DurationSeconds: leg.Duration,
		})
	}
	return route, nil
}
