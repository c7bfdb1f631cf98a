package weather

import (
	"context"
)

// Provider abstracts a weather data source (e.g. OpenWeatherMap One Call).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Snapshot, error)
}
