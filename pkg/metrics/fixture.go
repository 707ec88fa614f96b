package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// FixtureReader is an in-memory Reader keyed by source and day.
// It backs unit tests and offline scoring from a JSON fixture file.
type FixtureReader struct {
	mu   sync.RWMutex
	data map[Source]map[string]Slice
	// errs forces a failure for a source, regardless of date.
	errs map[Source]error
}

// NewFixtureReader creates an empty FixtureReader.
func NewFixtureReader() *FixtureReader {
	return &FixtureReader{
		data: make(map[Source]map[string]Slice),
		errs: make(map[Source]error),
	}
}

// Set stores the daily aggregate for a source and day. A zero Rows count is
// bumped to 1 so that the slice counts as data.
func (f *FixtureReader) Set(src Source, date time.Time, s Slice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.Rows == 0 {
		s.Rows = 1
	}
	if f.data[src] == nil {
		f.data[src] = make(map[string]Slice)
	}
	f.data[src][FormatDay(date)] = s
}

// Fail makes every read of src return err.
func (f *FixtureReader) Fail(src Source, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[src] = err
}

func (f *FixtureReader) DailyTotals(ctx context.Context, src Source, date time.Time) (Slice, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.errs[src]; err != nil {
		return Slice{}, err
	}
	return f.data[src][FormatDay(date)], nil
}

func (f *FixtureReader) TrailingAverage(ctx context.Context, src Source, date time.Time, days int) (Slice, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.errs[src]; err != nil {
		return Slice{}, err
	}

	start, end := Window(date, days)
	var daily []Slice
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if s, ok := f.data[src][FormatDay(d)]; ok {
			daily = append(daily, s)
		}
	}
	return Average(daily), nil
}

// fixtureFile is the on-disk layout: source -> date -> slice.
type fixtureFile map[Source]map[string]Slice

// LoadFixture reads a FixtureReader from a JSON file of the form
// {"search": {"2024-05-01": {...}}, "analytics": {...}}.
func LoadFixture(path string) (*FixtureReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var ff fixtureFile
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	r := NewFixtureReader()
	for src, days := range ff {
		for day, s := range days {
			d, err := ParseDay(day)
			if err != nil {
				return nil, fmt.Errorf("fixture %s: %w", src, err)
			}
			r.Set(src, d, s)
		}
	}
	return r, nil
}
