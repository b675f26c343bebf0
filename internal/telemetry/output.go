// Package telemetry drives headless runs and records what happened in them
// as CSV rows and aggregate statistics.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Sample is one periodic snapshot of a running session.
type Sample struct {
	Run             int     `csv:"run"`
	Tick            int     `csv:"tick"`
	Scene           string  `csv:"scene"`
	Distance        float64 `csv:"distance"`
	Speed           float64 `csv:"speed"`
	Score           int     `csv:"score"`
	Combo           int     `csv:"combo"`
	Multiplier      float64 `csv:"multiplier"`
	Level           int     `csv:"level"`
	Difficulty      int     `csv:"difficulty"`
	ActiveObstacles int     `csv:"active_obstacles"`
	ActiveItems     int     `csv:"active_items"`
	PoolObstacles   int     `csv:"pool_obstacles"`
	PoolItems       int     `csv:"pool_items"`
}

// RunSummary is the outcome of one headless run.
type RunSummary struct {
	Run          int     `csv:"run"`
	Seed         int64   `csv:"seed"`
	Ticks        int     `csv:"ticks"`
	Outcome      string  `csv:"outcome"` // "died" or "timeout"
	Score        int     `csv:"score"`
	Distance     float64 `csv:"distance"`
	Items        int     `csv:"items"`
	MaxCombo     int     `csv:"max_combo"`
	Jumps        int     `csv:"jumps"`
	Slides       int     `csv:"slides"`
	Achievements int     `csv:"achievements"`
}

// OutputManager writes samples.csv and runs.csv into a directory.
// A nil manager discards everything.
type OutputManager struct {
	dir         string
	samplesFile *os.File
	runsFile    *os.File

	samplesHeaderWritten bool
	runsHeaderWritten    bool
}

// NewOutputManager creates the output directory and files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating samples.csv: %w", err)
	}
	om.samplesFile = f

	f, err = os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		om.samplesFile.Close()
		return nil, fmt.Errorf("telemetry: creating runs.csv: %w", err)
	}
	om.runsFile = f

	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteSample appends a row to samples.csv.
func (om *OutputManager) WriteSample(s Sample) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.samplesFile, []Sample{s}, &om.samplesHeaderWritten); err != nil {
		return fmt.Errorf("telemetry: writing sample: %w", err)
	}
	return nil
}

// WriteRun appends a row to runs.csv.
func (om *OutputManager) WriteRun(r RunSummary) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.runsFile, []RunSummary{r}, &om.runsHeaderWritten); err != nil {
		return fmt.Errorf("telemetry: writing run: %w", err)
	}
	return nil
}

// writeRows writes the header with the first batch only.
func writeRows(f *os.File, rows any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.samplesFile, om.runsFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
