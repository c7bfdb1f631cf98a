package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proof-of-corn/corncheck/internal/agronomy"
	"github.com/proof-of-corn/corncheck/internal/journal"
	"github.com/proof-of-corn/corncheck/internal/weather"
)

type stubProvider struct {
	snap weather.Snapshot
	err  error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	if s.err != nil {
		return weather.Snapshot{}, s.err
	}
	return s.snap, nil
}

func testParams() agronomy.Params {
	return agronomy.Params{
		Location: "Des Moines, Iowa",
		Window: agronomy.Window{
			StartMonth: time.April, StartDay: 11,
			EndMonth: time.May, EndDay: 18,
		},
		SoilTempThresholdF: 50,
	}
}

func TestRunOnceWritesRecord(t *testing.T) {
	dir := t.TempDir()
	provider := &stubProvider{
		snap: weather.Snapshot{
			Current: weather.Current{TempF: 55, Description: "clear sky"},
			Daily:   []weather.DailyForecast{{MinTempF: 45, MaxTempF: 65, RainMM: 12.7}},
		},
	}

	svc := NewService(provider, journal.New(dir), weather.Location{Name: "Des Moines, Iowa"}, testParams())
	svc.now = func() time.Time {
		return time.Date(2024, time.April, 15, 8, 0, 0, 0, time.Local)
	}

	rec, logPath, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, agronomy.ActionPlant, rec.Decision.Action)
	assert.Equal(t, 0.5, rec.Forecast.PrecipTotalInches)
	assert.Equal(t, filepath.Join(dir, "check_2024-04-15.json"), logPath)

	_, err = os.Stat(logPath)
	assert.NoError(t, err)

	latest, err := svc.Journal().Latest()
	require.NoError(t, err)
	assert.Equal(t, rec.Decision, latest.Decision)
}

func TestRunOnceFetchFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	fetchErr := errors.New("server error")
	svc := NewService(&stubProvider{err: fetchErr}, journal.New(dir), weather.Location{}, testParams())

	_, _, err := svc.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)

	// A failed run leaves no log entry for the day.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)

	_, err = svc.Journal().Latest()
	assert.ErrorIs(t, err, journal.ErrNoChecks)
}
