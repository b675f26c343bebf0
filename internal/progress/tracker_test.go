package progress

import (
	"errors"
	"io"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/entity"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestTracker(kv KV) *Tracker {
	return NewTracker(DefaultConfig(), kv, quietLogger())
}

func TestComboMultiplierSequence(t *testing.T) {
	tr := newTestTracker(nil)

	prev := 0.0
	for k := 1; k <= 60; k++ {
		res := tr.Collect(entity.KindCoin, 1)
		if res.ComboAfter != k {
			t.Fatalf("collect %d: combo = %d", k, res.ComboAfter)
		}
		if res.Multiplier < prev {
			t.Fatalf("collect %d: multiplier dropped from %v to %v", k, prev, res.Multiplier)
		}
		if res.Multiplier > 5 {
			t.Fatalf("collect %d: multiplier %v above cap", k, res.Multiplier)
		}
		prev = res.Multiplier

		expected := math.Min(1+0.1*float64(k-1), 5)
		if math.Abs(res.Multiplier-expected) > 1e-9 {
			t.Errorf("combo %d: multiplier = %v, expected %v", k, res.Multiplier, expected)
		}
	}
	if tr.Multiplier() != 5 {
		t.Errorf("combo 60 multiplier = %v, expected 5", tr.Multiplier())
	}
}

func TestCollectAward(t *testing.T) {
	tests := []struct {
		name     string
		before   int // coins collected first
		kind     entity.Kind
		value    float64
		expected int
	}{
		{"coin at 1x", 0, entity.KindCoin, 1, 10},
		{"gem at 1x", 0, entity.KindGem, 1, 50},
		{"star value 2", 0, entity.KindStar, 2, 200},
		{"key at 1.5x", 5, entity.KindKey, 1, 300},
		{"coin floors", 2, entity.KindCoin, 1.1, 13}, // 10 * 1.1 * 1.2 = 13.2
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTracker(nil)
			for i := 0; i < tc.before; i++ {
				tr.Collect(entity.KindCoin, 1)
			}
			res := tr.Collect(tc.kind, tc.value)
			if res.ScoreAwarded != tc.expected {
				t.Errorf("ScoreAwarded = %d, expected %d", res.ScoreAwarded, tc.expected)
			}
		})
	}
}

func TestDeathResetsCombo(t *testing.T) {
	tr := newTestTracker(nil)
	for i := 0; i < 7; i++ {
		tr.Collect(entity.KindCoin, 1)
	}
	if tr.Combo() != 7 {
		t.Fatalf("combo = %d, expected 7", tr.Combo())
	}

	tr.Death()
	res := tr.Collect(entity.KindCoin, 1)
	if res.ComboAfter != 1 || res.Multiplier != 1 {
		t.Errorf("after death: combo %d multiplier %v, expected 1 and 1.0", res.ComboAfter, res.Multiplier)
	}
	if tr.Snapshot().Deaths != 1 || tr.Record().Stats.TotalDeaths != 1 {
		t.Error("death should be counted in session and lifetime stats")
	}
}

func TestComboTimeout(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Collect(entity.KindCoin, 1)
	tr.Collect(entity.KindCoin, 1)

	tr.Tick(2 * time.Second)
	if tr.Combo() != 2 {
		t.Fatalf("combo expired at exactly the timeout, combo = %d", tr.Combo())
	}

	tr.Tick(time.Millisecond)
	if tr.Combo() != 0 || tr.Multiplier() != 1 {
		t.Errorf("combo should expire after the timeout, got %d at %vx", tr.Combo(), tr.Multiplier())
	}
	if tr.Snapshot().LongestCombo != 2 {
		t.Errorf("longest combo = %d, expected 2", tr.Snapshot().LongestCombo)
	}
}

func TestTickScoreAndLevels(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Advance(1500, 300)
	unlocked := tr.Tick(3 * time.Second)

	s := tr.Snapshot()
	if s.Level != 2 || s.Difficulty != 2 {
		t.Errorf("level %d difficulty %d, expected 2 and 2", s.Level, s.Difficulty)
	}
	if len(unlocked) != 2 || unlocked[0].ID != "distance_500" || unlocked[1].ID != "distance_1000" {
		t.Fatalf("unlocked = %+v", unlocked)
	}
	// 150 distance + 30 difficulty + 50 level + 3 time + 350 achievements
	if s.Score != 583 {
		t.Errorf("score = %d, expected 583", s.Score)
	}
}

func TestDifficultyIsCapped(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Advance(100000, 300)
	tr.Tick(time.Millisecond)
	if d := tr.Snapshot().Difficulty; d != 4 {
		t.Errorf("difficulty = %d, expected cap 4", d)
	}
}

func TestAchievementsFireOncePerSession(t *testing.T) {
	tr := newTestTracker(nil)

	tr.Advance(600, 650)
	first := tr.Tick(time.Millisecond)
	ids := map[string]bool{}
	for _, a := range first {
		ids[a.ID] = true
	}
	if !ids["distance_500"] || !ids["speed_demon"] {
		t.Fatalf("expected distance_500 and speed_demon, got %+v", first)
	}

	tr.Advance(10, 700)
	if again := tr.Tick(time.Millisecond); len(again) != 0 {
		t.Errorf("achievements refired in the same session: %+v", again)
	}

	tr.Reset()
	tr.Advance(600, 300)
	next := tr.Tick(time.Millisecond)
	if len(next) != 1 || next[0].ID != "distance_500" {
		t.Errorf("new session should fire distance_500 again, got %+v", next)
	}
	if !tr.Record().Unlocked("speed_demon") {
		t.Error("unlocked achievements should persist across sessions")
	}
}

func TestCollectionAchievements(t *testing.T) {
	tr := newTestTracker(nil)

	var fired []string
	for i := 0; i < 3; i++ {
		for _, a := range tr.Collect(entity.KindKey, 1).Unlocked {
			fired = append(fired, a.ID)
		}
	}
	if !reflect.DeepEqual(fired, []string{"keys_3"}) {
		t.Errorf("fired = %v, expected [keys_3]", fired)
	}
	if tr.Snapshot().Keys != 3 {
		t.Errorf("keys = %d", tr.Snapshot().Keys)
	}

	for i := 0; i < 7; i++ {
		tr.Collect(entity.KindCoin, 1)
	}
	if s := tr.Snapshot(); s.Fired[len(s.Fired)-1] != "combo_10" {
		t.Errorf("combo_10 should fire at the tenth collection, fired %v", s.Fired)
	}
}

func TestFlawless(t *testing.T) {
	tests := []struct {
		name  string
		death bool
		fires bool
	}{
		{"no deaths", false, true},
		{"died once", true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTracker(nil)
			if tc.death {
				tr.Death()
			}
			tr.Advance(2000, 300)
			tr.Tick(time.Millisecond)

			fired := false
			for _, id := range tr.Snapshot().Fired {
				if id == "flawless_2000" {
					fired = true
				}
			}
			if fired != tc.fires {
				t.Errorf("flawless fired = %v, expected %v", fired, tc.fires)
			}
		})
	}
}

func TestRecordRoundTrip(t *testing.T) {
	tr := newTestTracker(nil)
	tr.RecordJump()
	tr.RecordDash()
	tr.RecordSlide()
	tr.Advance(1200, 640)
	for i := 0; i < 3; i++ {
		tr.Collect(entity.KindGem, 1)
	}
	tr.Tick(40 * time.Second)
	rec := tr.EndSession()

	data, err := EncodeRecord(rec)
	if err != nil {
		t.Fatalf("EncodeRecord: %v", err)
	}
	got, err := DecodeRecord(data)
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
	if len(got.Achievements) != len(Achievements()) {
		t.Errorf("record lists %d achievements, expected %d", len(got.Achievements), len(Achievements()))
	}
}

func TestDecodeKeepsUnknownAchievements(t *testing.T) {
	r, err := DecodeRecord([]byte(`{"highScore":7,"achievements":[{"id":"retired","unlocked":true},{"id":"combo_10","unlocked":true}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.HighScore != 7 || !r.Unlocked("combo_10") || !r.Unlocked("retired") {
		t.Errorf("decoded = %+v", r)
	}
	if r.Achievements[len(r.Achievements)-1].ID != "retired" {
		t.Error("unknown ids should follow the catalogue")
	}
}

func TestEndSessionPersists(t *testing.T) {
	kv := NewMemKV()
	tr := newTestTracker(kv)

	tr.Advance(50, 300)
	tr.Tick(10 * time.Second)
	rec := tr.EndSession()
	if rec.Stats.BestTime != 0 {
		t.Errorf("short run should not set best time, got %v", rec.Stats.BestTime)
	}
	if rec.HighScore != tr.Score() {
		t.Errorf("high score = %d, expected %d", rec.HighScore, tr.Score())
	}

	tr.Reset()
	tr.Advance(300, 300)
	tr.Tick(20 * time.Second)
	rec = tr.EndSession()
	if rec.Stats.BestTime != 20 {
		t.Errorf("best time = %v, expected 20", rec.Stats.BestTime)
	}

	reloaded := newTestTracker(kv)
	if !reflect.DeepEqual(reloaded.Record(), rec) {
		t.Errorf("reloaded record differs:\n got %+v\nwant %+v", reloaded.Record(), rec)
	}

	// A worse session keeps the high score
	reloaded.Advance(1, 10)
	reloaded.Tick(time.Millisecond)
	if r := reloaded.EndSession(); r.HighScore != rec.HighScore {
		t.Errorf("high score dropped to %d", r.HighScore)
	}
}

type failingKV struct {
	getErr error
	putErr error
	data   []byte
	puts   int
}

func (f *failingKV) Get(string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.data, f.data != nil, nil
}

func (f *failingKV) Put(string, []byte) error {
	f.puts++
	return f.putErr
}

func TestPersistenceFailuresDegrade(t *testing.T) {
	tests := []struct {
		name string
		kv   *failingKV
	}{
		{"get error", &failingKV{getErr: errors.New("disk gone")}},
		{"corrupt data", &failingKV{data: []byte("{not json")}},
		{"put error", &failingKV{putErr: errors.New("read only")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTracker(tc.kv)
			if tr.Record().HighScore != 0 || tr.Record().UnlockedCount() != 0 {
				t.Errorf("expected empty record, got %+v", tr.Record())
			}

			tr.Advance(600, 300)
			tr.Tick(time.Second)
			rec := tr.EndSession()
			if rec.HighScore == 0 {
				t.Error("EndSession should still return the updated record")
			}
			if tc.kv.puts != 1 {
				t.Errorf("expected one save attempt, got %d", tc.kv.puts)
			}
		})
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := newTestTracker(nil)
	tr.Advance(600, 300)
	tr.Tick(time.Millisecond)

	s := tr.Snapshot()
	s.Fired[0] = "tampered"
	s.Collected[entity.KindCoin] = 99
	if tr.Snapshot().Fired[0] != "distance_500" || tr.Snapshot().Collected[entity.KindCoin] != 0 {
		t.Error("mutating a snapshot changed tracker state")
	}
}

func TestLoadRecord(t *testing.T) {
	if r, err := LoadRecord(nil); err != nil || len(r.Achievements) != len(Achievements()) {
		t.Errorf("nil kv: %+v, %v", r, err)
	}

	kv := NewMemKV()
	if r, err := LoadRecord(kv); err != nil || r.HighScore != 0 {
		t.Errorf("missing key: %+v, %v", r, err)
	}

	data, _ := EncodeRecord(Record{HighScore: 42})
	kv.Put(RecordKey, data)
	if r, err := LoadRecord(kv); err != nil || r.HighScore != 42 {
		t.Errorf("stored record: %+v, %v", r, err)
	}

	_, err := LoadRecord(&failingKV{getErr: errors.New("disk gone")})
	if err == nil {
		t.Error("expected the read error to surface")
	}
}
