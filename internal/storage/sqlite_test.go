package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/entity"
	"github.com/vovakirdan/tui-runner/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreKV(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v err %v", ok, err)
	}

	if err := store.Put("k", []byte("one")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if err := store.Put("k", []byte("two")); err != nil {
		t.Fatalf("Put() overwrite failed: %v", err)
	}

	v, ok, err := store.Get("k")
	if err != nil || !ok || string(v) != "two" {
		t.Errorf("Get(k) = %q ok %v err %v", v, ok, err)
	}
}

func TestStoreHoldsProgressRecord(t *testing.T) {
	store := openTestStore(t)
	logger := log.New(io.Discard)

	tr := progress.NewTracker(progress.DefaultConfig(), store, logger)
	tr.Advance(1200, 320)
	tr.Collect(entity.KindGem, 1)
	tr.Tick(30 * time.Second)
	rec := tr.EndSession()

	reloaded := progress.NewTracker(progress.DefaultConfig(), store, logger).Record()
	if reloaded.HighScore != rec.HighScore || reloaded.Stats != rec.Stats {
		t.Errorf("reloaded record %+v, expected %+v", reloaded, rec)
	}
	if !reloaded.Unlocked("distance_1000") {
		t.Error("achievement lost in the round trip")
	}
}

func TestStoreNamespace(t *testing.T) {
	store := openTestStore(t)
	alice := store.Namespace("alice")
	bob := store.Namespace("bob")

	if err := alice.Put("k", []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, _ := bob.Get("k"); ok {
		t.Error("namespaces should not share keys")
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("namespaced key leaked into the root")
	}
	if v, ok, err := store.Get("alice/k"); err != nil || !ok || string(v) != "a" {
		t.Errorf("root view = %q, %v, %v", v, ok, err)
	}
	if store.Namespace("") != progress.KV(store) {
		t.Error("empty namespace should be the store itself")
	}
}

func TestStoreSaveAndRetrieveRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunEntry{
		{Mode: "normal", Score: 100, Distance: 900, Duration: 12 * time.Second},
		{Mode: "normal", Score: 50},
		{Mode: "normal", Score: 200, Items: 7, MaxCombo: 4, Seed: 9},
		{Mode: "hard", Score: 500},
	}
	var ids []string
	for _, r := range runs {
		id, err := store.SaveRun(r)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		ids = append(ids, id)
	}
	if ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("run IDs should be unique UUIDs, got %v", ids)
	}

	top, err := store.TopRuns("normal", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 normal runs, got %d", len(top))
	}
	expected := []int{200, 100, 50}
	for i, e := range top {
		if e.Score != expected[i] {
			t.Errorf("rank %d: score %d, expected %d", i, e.Score, expected[i])
		}
	}
	if top[0].Items != 7 || top[0].MaxCombo != 4 || top[0].Seed != 9 {
		t.Errorf("top run fields = %+v", top[0])
	}
	if top[1].Duration != 12*time.Second || top[1].Distance != 900 {
		t.Errorf("second run fields = %+v", top[1])
	}

	all, err := store.TopRuns("", 2)
	if err != nil {
		t.Fatalf("TopRuns(all) failed: %v", err)
	}
	if len(all) != 2 || all[0].Mode != "hard" {
		t.Errorf("TopRuns across modes = %+v", all)
	}

	recent, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 1 || recent[0].RunID != ids[3] {
		t.Errorf("most recent run = %+v", recent)
	}
}

func TestStoreRunByID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunEntry{RunID: "fixed-id", Mode: "sim", Score: 42})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("explicit run ID replaced with %q", id)
	}

	e, err := store.RunByID("fixed-id")
	if err != nil || e.Score != 42 || e.Mode != "sim" {
		t.Errorf("RunByID = %+v, %v", e, err)
	}

	if _, err := store.RunByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing run error = %v, expected ErrNotFound", err)
	}
	if _, err := store.SaveRun(RunEntry{RunID: "fixed-id", Mode: "sim"}); err == nil {
		t.Error("duplicate run ID should fail")
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("expected 0 for empty table, got %d", high)
	}

	store.SaveRun(RunEntry{Mode: "normal", Score: 100})
	store.SaveRun(RunEntry{Mode: "normal", Score: 300})
	store.SaveRun(RunEntry{Mode: "hard", Score: 900})

	tests := []struct {
		mode     string
		expected int
	}{
		{"normal", 300},
		{"hard", 900},
		{"", 900},
		{"easy", 0},
	}
	for _, tc := range tests {
		high, err := store.HighScore(tc.mode)
		if err != nil {
			t.Fatalf("HighScore(%q) failed: %v", tc.mode, err)
		}
		if high != tc.expected {
			t.Errorf("HighScore(%q) = %d, expected %d", tc.mode, high, tc.expected)
		}
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(RunEntry{Mode: "normal", Score: 100})
	store.SaveRun(RunEntry{Mode: "hard", Score: 200})

	if err := store.ClearRuns("normal"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	normal, _ := store.TopRuns("normal", 10)
	if len(normal) != 0 {
		t.Errorf("expected 0 normal runs after clear, got %d", len(normal))
	}
	hard, _ := store.TopRuns("hard", 10)
	if len(hard) != 1 {
		t.Errorf("other modes should be untouched, got %d hard runs", len(hard))
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveRun(RunEntry{Mode: "normal", Score: 100, Distance: 1000})
	store.SaveRun(RunEntry{Mode: "normal", Score: 300, Distance: 2000})
	store.SaveRun(RunEntry{Mode: "hard", Score: 50, Distance: 10})

	stats, err := store.ModeStats()
	if err != nil {
		t.Fatalf("ModeStats() failed: %v", err)
	}
	n := stats["normal"]
	if n == nil || n.Runs != 2 || n.HighScore != 300 || n.AvgScore != 200 || n.TotalDistance != 3000 {
		t.Errorf("normal stats = %+v", n)
	}
	if h := stats["hard"]; h == nil || h.Runs != 1 {
		t.Errorf("hard stats = %+v", h)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/.runner/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, ".runner", "test.db")); err != nil {
		t.Errorf("database not created under home: %v", err)
	}
}
