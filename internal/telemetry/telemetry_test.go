package telemetry

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/runner"
)

func newGame() *runner.Game {
	return runner.New(config.DefaultRunnerConfig(), runner.Options{Logger: log.New(io.Discard)})
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteSample(Sample{}); err != nil {
		t.Errorf("nil manager WriteSample: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager Close: %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := om.WriteRun(RunSummary{Run: i, Score: 10 * i, Outcome: OutcomeDied}); err != nil {
			t.Fatalf("WriteRun: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "runs.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []RunSummary
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading runs.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2].Score != 20 || rows[2].Outcome != OutcomeDied {
		t.Errorf("last row = %+v", rows[2])
	}
}

func TestSummarize(t *testing.T) {
	runs := []RunSummary{
		{Score: 100, Distance: 1000, Items: 1, Outcome: OutcomeDied},
		{Score: 300, Distance: 3000, Items: 3, Outcome: OutcomeTimeout},
		{Score: 200, Distance: 2000, Items: 2, Outcome: OutcomeDied},
	}
	s := Summarize(runs)

	if s.Runs != 3 || s.Deaths != 2 {
		t.Errorf("runs %d deaths %d", s.Runs, s.Deaths)
	}
	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"score mean", s.Score.Mean, 200},
		{"score stddev", s.Score.StdDev, 100},
		{"score median", s.Score.Median, 200},
		{"score min", s.Score.Min, 100},
		{"score max", s.Score.Max, 300},
		{"distance mean", s.Distance.Mean, 2000},
		{"items max", s.Items.Max, 3},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > 1e-9 {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}

	single := Summarize(runs[:1])
	if single.Score.Mean != 100 || single.Score.StdDev != 0 {
		t.Errorf("single run spread = %+v", single.Score)
	}
	if empty := Summarize(nil); empty.Runs != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	cfg := SimConfig{Runs: 3, Ticks: 900, Seed: 7}

	a, err := Simulate(newGame(), cfg, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	b, err := Simulate(newGame(), cfg, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if len(a) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("run %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
		if a[i].Seed != 7+int64(i) {
			t.Errorf("run %d seed = %d", i, a[i].Seed)
		}
		if a[i].Ticks > cfg.Ticks || a[i].Distance <= 0 {
			t.Errorf("run %d = %+v", i, a[i])
		}
	}
}

func TestSimulateNeverJumping(t *testing.T) {
	// Jumping once every hour of ticks means the first ground hazard ends the run
	runs, err := Simulate(newGame(), SimConfig{Runs: 1, Ticks: 20000, Seed: 1, JumpEvery: 1 << 30}, nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if runs[0].Outcome != OutcomeDied {
		t.Errorf("expected the run to die, got %+v", runs[0])
	}
}

func TestSimulateWritesSamples(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	runs, err := Simulate(newGame(), SimConfig{Runs: 2, Ticks: 120, Seed: 3, SampleEvery: 30}, om)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	om.Close()

	f, err := os.Open(filepath.Join(dir, "samples.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var samples []Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		t.Fatalf("reading samples.csv: %v", err)
	}

	expected := 0
	for _, r := range runs {
		expected += r.Ticks / 30
	}
	if len(samples) != expected {
		t.Errorf("expected %d samples, got %d", expected, len(samples))
	}
	if len(samples) > 0 && samples[0].PoolObstacles == 0 {
		t.Errorf("sample should report pool size, got %+v", samples[0])
	}
}
