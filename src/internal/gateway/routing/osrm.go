package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"delivery-service/src/pkg/geo"

	"go.elastic.co/apm/module/apmhttp"
)

// OSRMProvider performs route lookups against an OSRM HTTP server.
type OSRMProvider struct {
	Endpoint string
	Client   *http.Client
}

func NewOSRMProvider(endpoint string, httpClient *http.Client) *OSRMProvider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OSRMProvider{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Client:   apmhttp.WrapClient(httpClient),
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance *float64 `json:"distance"`
	} `json:"routes"`
}

func (o *OSRMProvider) RouteDistance(ctx context.Context, origin, destination geo.Coordinate) (int, error) {
	// OSRM expects lon,lat pairs
	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		o.Endpoint, origin.Lng, origin.Lat, destination.Lng, destination.Lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode osrm response: %w", err)
	}
	if out.Code != "Ok" || len(out.Routes) == 0 || out.Routes[0].Distance == nil {
		return 0, fmt.Errorf("%w: osrm code %q", ErrNoRoute, out.Code)
	}
	return int(*out.Routes[0].Distance + 0.5), nil
}
