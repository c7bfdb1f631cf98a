// Package report renders a decision record as the fixed-format console
// report printed at the end of each check.
package report

import (
	"fmt"
	"strings"

	"github.com/proof-of-corn/corncheck/internal/agronomy"
)

const rule = "============================================================"

// Render produces the multi-line text report for a record. The threshold is
// passed in alongside the record because it is configuration, not analysis
// output, but the readiness line cites it.
func Render(rec agronomy.Record, thresholdF float64) string {
	var b strings.Builder

	c := rec.Current
	a := rec.Analysis
	f := rec.Forecast
	d := rec.Decision

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "🌽 PROOF OF CORN - Daily Check")
	fmt.Fprintf(&b, "   %s\n", rec.Timestamp.Format("2006-01-02T15:04:05-07:00"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "LOCATION: %s\n", rec.Location)
	fmt.Fprintf(&b, "CURRENT:  %.0f°F (feels like %.0f°F)\n", c.Temp, c.FeelsLike)
	fmt.Fprintf(&b, "          %s, %.0f%% humidity\n", c.Conditions, c.Humidity)
	fmt.Fprintf(&b, "          Wind: %.0f mph\n", c.WindSpeed)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "WINDOW:   %s\n", a.WindowStatus)
	readiness := "✗ Too cold"
	if a.TempReady {
		readiness = "✓ Ready"
	}
	fmt.Fprintf(&b, "TEMP:     %s (%.0f°F / %.0f°F needed)\n", readiness, c.Temp, thresholdF)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "5-DAY:    %.1f\" precipitation expected\n", f.PrecipTotalInches)
	fmt.Fprintln(&b)

	emoji := "⏳"
	if d.Action == agronomy.ActionPlant {
		emoji = "🌱"
	}
	fmt.Fprintf(&b, "DECISION: %s %s\n", emoji, d.Action)
	fmt.Fprintf(&b, "REASON:   %s\n", d.Rationale)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	return b.String()
}
