// Package journal persists decision records as flat per-day files: one
// overwritable JSON document per calendar day plus an append-only JSONL
// running log. Delivery is at-least-once with no deduplication; a failed
// run simply leaves no entry for that day.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/proof-of-corn/corncheck/internal/agronomy"
)

var (
	// ErrNoChecks is returned when the journal has no records to read.
	ErrNoChecks = errors.New("no checks recorded")
)

const runningLogName = "all_checks.jsonl"

// Journal writes and reads decision records under a single log directory.
type Journal struct {
	dir string
}

// New creates a Journal rooted at dir. The directory is created lazily on
// the first write.
func New(dir string) *Journal {
	return &Journal{dir: dir}
}

// Write persists the record to the per-day file (overwriting any earlier
// check from the same day) and appends it to the running log. It returns
// the per-day file path.
func (j *Journal) Write(rec agronomy.Record) (string, error) {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	dateStr := rec.Timestamp.Format("2006-01-02")
	dailyPath := filepath.Join(j.dir, fmt.Sprintf("check_%s.json", dateStr))

	indented, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(dailyPath, indented, 0o644); err != nil {
		return "", fmt.Errorf("write daily log: %w", err)
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(j.dir, runningLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open running log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return "", fmt.Errorf("append running log: %w", err)
	}

	return dailyPath, nil
}

// Latest returns the most recently appended record.
func (j *Journal) Latest() (agronomy.Record, error) {
	records, err := j.readAll()
	if err != nil {
		return agronomy.Record{}, err
	}
	return records[len(records)-1], nil
}

// Range returns all records with timestamps between from and to (inclusive),
// in append order.
func (j *Journal) Range(from, to time.Time) ([]agronomy.Record, error) {
	records, err := j.readAll()
	if err != nil {
		return nil, err
	}

	var result []agronomy.Record
	for _, rec := range records {
		ts := rec.Timestamp
		if (ts.Equal(from) || ts.After(from)) && (ts.Equal(to) || ts.Before(to)) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNoChecks
	}
	return result, nil
}

func (j *Journal) readAll() ([]agronomy.Record, error) {
	f, err := os.Open(filepath.Join(j.dir, runningLogName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoChecks
		}
		return nil, fmt.Errorf("open running log: %w", err)
	}
	defer f.Close()

	var records []agronomy.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec agronomy.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			// Skip lines a partial write may have corrupted.
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read running log: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrNoChecks
	}
	return records, nil
}
