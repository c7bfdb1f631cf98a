package weather

import (
	"time"
)

// Location identifies the fixed point we check conditions for.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Current holds the current conditions at the farm, in the imperial units
// the planting rules are written against.
type Current struct {
	TempF       float64 `json:"tempF"`
	FeelsLikeF  float64 `json:"feelsLikeF"`
	HumidityPct float64 `json:"humidityPercent"`
	WindMPH     float64 `json:"windMph"`
	Description string  `json:"description"`
}

// DailyForecast is a single day of forecast. RainMM is zero when the
// provider reports no rain for the day.
type DailyForecast struct {
	MinTempF float64 `json:"minTempF"`
	MaxTempF float64 `json:"maxTempF"`
	RainMM   float64 `json:"rainMm"`
}

// Snapshot is the normalized weather view produced by a single fetch:
// current conditions plus a short daily forecast ordered earliest first.
// It is immutable once fetched and owned by the invocation that produced it.
type Snapshot struct {
	Location  Location        `json:"location"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Current   Current         `json:"current"`
	Daily     []DailyForecast `json:"daily"`
}
