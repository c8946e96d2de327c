package routing

import (
	"context"
	"fmt"
	"net/http"

	"delivery-service/src/pkg/geo"

	"go.elastic.co/apm/module/apmhttp"
	"googlemaps.github.io/maps"
)

// GoogleProvider asks the Google Distance Matrix API for a driving distance.
type GoogleProvider struct {
	Client *maps.Client
}

func NewGoogleProvider(apiKey string, httpClient *http.Client, opts ...maps.ClientOption) (*GoogleProvider, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	options := append([]maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(apmhttp.WrapClient(httpClient)),
	}, opts...)
	client, err := maps.NewClient(options...)
	if err != nil {
		return nil, err
	}
	return &GoogleProvider{Client: client}, nil
}

func (g *GoogleProvider) RouteDistance(ctx context.Context, origin, destination geo.Coordinate) (int, error) {
	resp, err := g.Client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin.String()},
		Destinations: []string{destination.String()},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsMetric,
	})
	if err != nil {
		return 0, fmt.Errorf("distance matrix request: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 || resp.Rows[0].Elements[0] == nil {
		return 0, fmt.Errorf("%w: empty distance matrix", ErrNoRoute)
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, fmt.Errorf("%w: element status %s", ErrNoRoute, element.Status)
	}
	return element.Distance.Meters, nil
}
