package pattern

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
)

func testCatalog(t *testing.T, data string) *Catalog {
	t.Helper()
	c, err := ParseCatalog([]byte(data))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	return c
}

func TestWeight(t *testing.T) {
	tests := []struct {
		name       string
		pattern    Pattern
		difficulty int
		distance   float64
		expected   float64
	}{
		{"same tier", Pattern{Tier: TierMedium}, 2, 0, 1.0},
		{"one below", Pattern{Tier: TierEasy}, 2, 0, 0.7},
		{"two below", Pattern{Tier: TierMedium}, 4, 0, 0.4},
		{"floor", Pattern{Tier: TierEasy}, 4, 0, 0.1},
		{"challenge tag early", Pattern{Tier: TierHard, Tags: []string{"challenge"}}, 3, 1000, 1.0},
		{"challenge tag late", Pattern{Tier: TierHard, Tags: []string{"challenge"}}, 3, 1001, 1.5},
		{"challenge by name", Pattern{Name: "hard_challenge_x", Tier: TierHard}, 4, 5000, 1.05},
		{"plain late", Pattern{Tier: TierHard}, 3, 5000, 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Weight(tc.pattern, tc.difficulty, tc.distance)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Weight = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestSelectPatternRespectsTier(t *testing.T) {
	s := NewSpawner(DefaultCatalog(), 42, 1)

	for difficulty := 1; difficulty <= 4; difficulty++ {
		for i := 0; i < 200; i++ {
			p := s.SelectPattern(difficulty, float64(i*50))
			if int(p.Tier) > difficulty {
				t.Fatalf("difficulty %d selected %s (tier %d)", difficulty, p.Name, p.Tier)
			}
		}
	}
}

func TestSelectPatternDefault(t *testing.T) {
	hardOnly := testCatalog(t, "patterns:\n  hard_x:\n    - { kind: wall, x: 0 }\n")

	tests := []struct {
		name    string
		catalog *Catalog
	}{
		{"nil catalog", nil},
		{"nothing eligible", hardOnly},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSpawner(tc.catalog, 1, 1)
			p := s.SelectPattern(1, 0)
			if p.Name != DefaultPattern().Name {
				t.Errorf("expected default pattern, got %s", p.Name)
			}
			if len(p.Descriptors) != 4 {
				t.Errorf("default pattern should have 4 descriptors, got %d", len(p.Descriptors))
			}
		})
	}
}

func TestSelectPatternFirstMatch(t *testing.T) {
	c := testCatalog(t, `
patterns:
  easy_first:
    - { kind: spike, x: 0 }
  easy_second:
    - { kind: coin, x: 0 }
`)
	const seed = 7
	s := NewSpawner(c, seed, 1)
	ref := rand.New(rand.NewSource(seed))

	for i := 0; i < 50; i++ {
		// Two candidates of weight 1: a draw in [0, 1] lands on the first
		expected := "easy_second"
		if ref.Float64()*2 <= 1 {
			expected = "easy_first"
		}
		if got := s.SelectPattern(1, 0).Name; got != expected {
			t.Fatalf("draw %d: got %s, expected %s", i, got, expected)
		}
	}
}

func TestSelectPatternDeterministic(t *testing.T) {
	a := NewSpawner(DefaultCatalog(), 99, 1)
	b := NewSpawner(DefaultCatalog(), 99, 1)

	for i := 0; i < 100; i++ {
		d := 1 + i%4
		pa, pb := a.SelectPattern(d, float64(i*100)), b.SelectPattern(d, float64(i*100))
		if pa.Name != pb.Name {
			t.Fatalf("draw %d diverged: %s vs %s", i, pa.Name, pb.Name)
		}
	}

	// Reseeding replays the sequence
	a.SelectPattern(3, 0)
	a.Reseed(5)
	b.Reseed(5)
	if a.SelectPattern(3, 0).Name != b.SelectPattern(3, 0).Name {
		t.Error("reseeded spawners diverged")
	}
}

func TestInstantiate(t *testing.T) {
	p := Pattern{
		Name: "easy_test",
		Descriptors: []Descriptor{
			{Kind: "spikes", X: 10, Y: 0},
			{Kind: "coin", X: 20, Y: -60, Value: 2},
			{Kind: "dragon", X: 0},
			{Kind: "saw", X: 30, Y: -20, Movement: &MovementSpec{Axis: "y", Range: 40, Speed: 80}},
			{Kind: "block", X: 40, Velocity: &core.Vec{X: -5}},
		},
	}
	pool := entity.NewPool(4, 4)
	s := NewSpawner(nil, 1, 2)

	handles := s.Instantiate(p, 1000, 400, pool)
	if len(handles) != 4 {
		t.Fatalf("expected 4 handles (unknown kind skipped), got %d", len(handles))
	}

	spike, ok := pool.Obstacle(handles[0])
	if !ok || spike.Kind != entity.KindSpike {
		t.Fatalf("first handle = %+v", spike)
	}
	if spike.Pos != core.V(1020, 380) {
		t.Errorf("spike at %+v, expected (1020, 380)", spike.Pos)
	}
	if b := spike.Bounds(); b.X != 1020 || b.Bottom() != 400 {
		t.Errorf("spike box %+v should stand on y 400 at x 1020", b)
	}

	coin, ok := pool.Item(handles[1])
	if !ok || coin.Kind != entity.KindCoin {
		t.Fatalf("second handle = %+v", coin)
	}
	if coin.Pos != core.V(1040, 264) || coin.Value != 2 {
		t.Errorf("coin at %+v value %v", coin.Pos, coin.Value)
	}

	saw, _ := pool.Obstacle(handles[2])
	if saw.Vel != core.V(0, 160) {
		t.Errorf("saw velocity = %+v, expected (0, 160)", saw.Vel)
	}
	if saw.Move.Axis != entity.AxisY || saw.Move.Range != 80 || saw.Origin != saw.Pos {
		t.Errorf("saw movement = %+v origin %+v", saw.Move, saw.Origin)
	}

	wall, _ := pool.Obstacle(handles[3])
	if wall.Kind != entity.KindWall || wall.Vel != core.V(-10, 0) {
		t.Errorf("wall = %v vel %+v", wall.Kind, wall.Vel)
	}
}

func TestCadence(t *testing.T) {
	c := NewCadence(100, 50)

	steps := []struct {
		distance float64
		due      bool
	}{
		{0, false},
		{49, false},
		{50, true},
		{120, false},
		{150, true},
		{480, true}, // skips 250, 350, 450 in one go
		{549, false},
		{550, true},
	}
	for _, st := range steps {
		if got := c.Due(st.distance); got != st.due {
			t.Errorf("Due(%v) = %v, expected %v", st.distance, got, st.due)
		}
	}

	c.Reset()
	if c.Next() != 50 {
		t.Errorf("Reset should rewind to 50, got %v", c.Next())
	}
}
