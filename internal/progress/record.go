package progress

import (
	"encoding/json"
	"fmt"
	"sync"
)

// RecordKey is the namespace key the persisted record lives under.
const RecordKey = "tui-runner/progress/v1"

// KV is the key-value store the record is persisted to.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Stats are lifetime statistics carried across sessions.
type Stats struct {
	TotalJumps          int     `json:"totalJumps"`
	TotalDashes         int     `json:"totalDashes"`
	TotalSlides         int     `json:"totalSlides"`
	TotalDeaths         int     `json:"totalDeaths"`
	TotalItemsCollected int     `json:"totalItemsCollected"`
	BestTime            float64 `json:"bestTime"` // Longest qualifying run, seconds
	LongestCombo        int     `json:"longestCombo"`
	FastestSpeed        float64 `json:"fastestSpeed"`
}

// AchievementState is one entry of the persisted achievement list.
type AchievementState struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
}

// Record is the persisted subset of progress.
type Record struct {
	HighScore    int                `json:"highScore"`
	Stats        Stats              `json:"stats"`
	Achievements []AchievementState `json:"achievements"`
}

// Unlocked reports whether the achievement id is unlocked.
func (r Record) Unlocked(id string) bool {
	for _, a := range r.Achievements {
		if a.ID == id {
			return a.Unlocked
		}
	}
	return false
}

// UnlockedCount returns how many achievements are unlocked.
func (r Record) UnlockedCount() int {
	n := 0
	for _, a := range r.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

func (r *Record) unlock(id string) {
	for i := range r.Achievements {
		if r.Achievements[i].ID == id {
			r.Achievements[i].Unlocked = true
			return
		}
	}
	r.Achievements = append(r.Achievements, AchievementState{ID: id, Unlocked: true})
}

// normalized lists every known achievement in catalogue order, followed by
// any unknown ids from older records.
func (r Record) normalized() Record {
	out := r
	out.Achievements = make([]AchievementState, 0, len(catalogue))
	for _, a := range catalogue {
		out.Achievements = append(out.Achievements, AchievementState{ID: a.ID, Unlocked: r.Unlocked(a.ID)})
	}
	for _, a := range r.Achievements {
		if _, ok := FindAchievement(a.ID); !ok {
			out.Achievements = append(out.Achievements, a)
		}
	}
	return out
}

// clone returns a deep copy.
func (r Record) clone() Record {
	out := r
	out.Achievements = append([]AchievementState(nil), r.Achievements...)
	return out
}

// EncodeRecord serializes a record as JSON.
func EncodeRecord(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("progress: encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a record produced by EncodeRecord.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("progress: decode record: %w", err)
	}
	return r.normalized(), nil
}

// LoadRecord reads the record from kv. A nil kv or a missing key yields an
// empty record. On a read or decode error the empty record is returned
// along with the error.
func LoadRecord(kv KV) (Record, error) {
	empty := Record{}.normalized()
	if kv == nil {
		return empty, nil
	}
	data, ok, err := kv.Get(RecordKey)
	if err != nil {
		return empty, fmt.Errorf("progress: load record: %w", err)
	}
	if !ok {
		return empty, nil
	}
	r, err := DecodeRecord(data)
	if err != nil {
		return empty, err
	}
	return r, nil
}

// MemKV is an in-memory KV for headless runs and tests.
type MemKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemKV creates an empty store.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value under key.
func (m *MemKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
