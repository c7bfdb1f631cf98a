// Package agronomy holds the planting decision rules. Everything here is
// pure: Analyze derives a complete Record from a timestamp and a weather
// snapshot, never fails, and performs no I/O, so it can be tested with
// literal inputs and called from any goroutine.
package agronomy

import (
	"fmt"
	"math"
	"time"

	"github.com/proof-of-corn/corncheck/internal/weather"
)

// Action is the final planting decision.
type Action string

const (
	ActionPlant Action = "PLANT"
	ActionWait  Action = "WAIT"
)

// WindowStatus classifies where today falls relative to the planting window.
type WindowStatus string

const (
	BeforeWindow WindowStatus = "BEFORE_WINDOW"
	InWindow     WindowStatus = "IN_WINDOW"
	PastWindow   WindowStatus = "PAST_WINDOW"
)

// Window is a fixed calendar date range, re-anchored to the current year on
// every evaluation. Dates are inclusive on both ends.
type Window struct {
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
}

// Params are the explicit configuration inputs to the decision engine.
// No globals: callers pass the farm label, the planting window and the
// soil-temperature threshold (air temperature stands in for soil).
type Params struct {
	Location           string
	Window             Window
	SoilTempThresholdF float64
}

// Record is the single structured artifact produced per check. The JSON
// field names are the on-disk log schema and must stay stable.
type Record struct {
	Timestamp time.Time     `json:"timestamp"`
	Location  string        `json:"location"`
	Current   CurrentReport `json:"current"`
	Forecast  Forecast5Day  `json:"forecast_5day"`
	Analysis  Analysis      `json:"analysis"`
	Decision  Decision      `json:"decision"`
}

// CurrentReport echoes the current conditions the decision was based on.
type CurrentReport struct {
	Temp       float64 `json:"temp"`
	FeelsLike  float64 `json:"feels_like"`
	Humidity   float64 `json:"humidity"`
	Conditions string  `json:"conditions"`
	WindSpeed  float64 `json:"wind_speed"`
}

// TempRange is a single forecast day's min/max temperature in °F.
type TempRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Forecast5Day summarizes the first five forecast days.
type Forecast5Day struct {
	PrecipTotalInches float64     `json:"precip_total_inches"`
	Temps             []TempRange `json:"temps"`
}

// Analysis carries the intermediate findings behind the decision.
type Analysis struct {
	WindowStatus    string `json:"window_status"`
	InWindow        bool   `json:"in_window"`
	TempReady       bool   `json:"temp_ready"`
	DaysUntilWindow int    `json:"days_until_window"`
}

// Decision is the action plus a human-readable rationale.
type Decision struct {
	Action    Action `json:"action"`
	Rationale string `json:"rationale"`
}

const mmPerInch = 25.4

// forecastDays caps how many forecast entries contribute to the
// precipitation total and temperature range list.
const forecastDays = 5

// Analyze evaluates the planting rules for the given moment and snapshot.
// It is total over its inputs: zero-value snapshot fields degrade to safe
// defaults (0 for numbers, "unknown" for the description) and the function
// never returns an error or panics.
func Analyze(now time.Time, snap weather.Snapshot, p Params) Record {
	temp := snap.Current.TempF

	conditions := snap.Current.Description
	if conditions == "" {
		conditions = "unknown"
	}

	status, inWindow, daysUntil := classifyWindow(now, p.Window)

	tempReady := temp >= p.SoilTempThresholdF

	daily := snap.Daily
	if len(daily) > forecastDays {
		daily = daily[:forecastDays]
	}

	var precipMM float64
	temps := make([]TempRange, 0, len(daily))
	for _, d := range daily {
		precipMM += d.RainMM
		temps = append(temps, TempRange{Min: d.MinTempF, Max: d.MaxTempF})
	}
	precipInches := round2(precipMM / mmPerInch)

	windowText := describeWindow(now, p.Window, status, daysUntil)

	var decision Decision
	switch {
	case inWindow && tempReady:
		decision = Decision{Action: ActionPlant, Rationale: "Conditions favorable"}
	case !inWindow:
		decision = Decision{Action: ActionWait, Rationale: windowText}
	default:
		decision = Decision{
			Action:    ActionWait,
			Rationale: fmt.Sprintf("Temperature %.0f°F below %.0f°F threshold", temp, p.SoilTempThresholdF),
		}
	}

	return Record{
		Timestamp: now,
		Location:  p.Location,
		Current: CurrentReport{
			Temp:       temp,
			FeelsLike:  snap.Current.FeelsLikeF,
			Humidity:   snap.Current.HumidityPct,
			Conditions: conditions,
			WindSpeed:  snap.Current.WindMPH,
		},
		Forecast: Forecast5Day{
			PrecipTotalInches: precipInches,
			Temps:             temps,
		},
		Analysis: Analysis{
			WindowStatus:    windowText,
			InWindow:        inWindow,
			TempReady:       tempReady,
			DaysUntilWindow: daysUntil,
		},
		Decision: decision,
	}
}

// classifyWindow compares calendar dates, so both window endpoints count as
// in-window regardless of time of day. The window is rebuilt from now's year
// on every call; runs in different years see different windows.
func classifyWindow(now time.Time, w Window) (WindowStatus, bool, int) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(now.Year(), w.StartMonth, w.StartDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), w.EndMonth, w.EndDay, 0, 0, 0, 0, time.UTC)

	switch {
	case today.Before(start):
		// Whole days between calendar dates; UTC anchors keep the division exact.
		days := int(start.Sub(today).Hours() / 24)
		return BeforeWindow, false, days
	case today.After(end):
		return PastWindow, false, 0
	default:
		return InWindow, true, 0
	}
}

func describeWindow(now time.Time, w Window, status WindowStatus, daysUntil int) string {
	switch status {
	case BeforeWindow:
		start := time.Date(now.Year(), w.StartMonth, w.StartDay, 0, 0, 0, 0, time.UTC)
		return fmt.Sprintf("%s (%d days until %s)", BeforeWindow, daysUntil, start.Format("January 2"))
	case PastWindow:
		return fmt.Sprintf("%s (yields may be reduced)", PastWindow)
	default:
		return string(InWindow)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
