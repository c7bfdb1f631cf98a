package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/proof-of-corn/corncheck/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements the weather.Provider interface against the
// OpenWeatherMap One Call API. It requests imperial units and asks the API
// to omit the minutely and hourly blocks we never look at.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/3.0/onecall",
		httpCfg: HTTPClientConfig{Client: client},
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", loc.Lon))
		values.Set("appid", p.apiKey)
		values.Set("units", "imperial")
		values.Set("exclude", "minutely,hourly")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Dt        int64   `json:"dt"`
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			WindSpeed float64 `json:"wind_speed"`
			Weather   []struct {
				Description string `json:"description"`
			} `json:"weather"`
		} `json:"current"`
		Daily []struct {
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Rain float64 `json:"rain"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, err
	}

	ts := time.Unix(payload.Current.Dt, 0).UTC()
	if payload.Current.Dt == 0 {
		ts = time.Now().UTC()
	}

	desc := ""
	if len(payload.Current.Weather) > 0 {
		desc = payload.Current.Weather[0].Description
	}

	daily := make([]weather.DailyForecast, 0, len(payload.Daily))
	for _, d := range payload.Daily {
		daily = append(daily, weather.DailyForecast{
			MinTempF: d.Temp.Min,
			MaxTempF: d.Temp.Max,
			RainMM:   d.Rain,
		})
	}

	return weather.Snapshot{
		Location:  loc,
		FetchedAt: ts,
		Current: weather.Current{
			TempF:       payload.Current.Temp,
			FeelsLikeF:  payload.Current.FeelsLike,
			HumidityPct: payload.Current.Humidity,
			WindMPH:     payload.Current.WindSpeed,
			Description: desc,
		},
		Daily: daily,
	}, nil
}
