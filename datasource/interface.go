package datasource

import (
	"context"
	"errors"
	"fmt"

	"darksky-sensors/models"
)

// ErrUpstream marks a failed lookup or transport error from a forecast source
var ErrUpstream = errors.New("forecast lookup failed")

// Request parameterizes a single forecast lookup
type Request struct {
	Latitude  float64
	Longitude float64
	Language  string
	Units     models.Units
}

// Key identifies the request for caching purposes
func (r Request) Key() string {
	return fmt.Sprintf("%.4f,%.4f:%s:%s", r.Latitude, r.Longitude, r.Language, r.Units)
}

// ForecastSource defines the interface for any forecast provider
type ForecastSource interface {
	// GetForecast fetches the full forecast for the request. It either returns a
	// complete snapshot or an error, never both.
	GetForecast(ctx context.Context, req Request) (*models.Forecast, error)

	// Name returns the source's name
	Name() string
}
