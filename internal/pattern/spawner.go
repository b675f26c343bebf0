package pattern

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
)

// Selection weights. Challenge patterns get challengeBoost once the run is
// past challengeDistance.
const (
	challengeDistance = 1000.0
	challengeBoost    = 1.5
	minWeight         = 0.1
	tierFalloff       = 0.3
)

// Placer is the part of the entity pool a spawner writes into.
type Placer interface {
	Acquire(kind entity.Kind, x, y float64) entity.Handle
	SetVelocity(h entity.Handle, vel core.Vec)
	SetMovement(h entity.Handle, move entity.Movement)
	SetValue(h entity.Handle, v float64)
}

// Spawner picks patterns by difficulty and places them into a pool.
type Spawner struct {
	catalog *Catalog
	rng     *rand.Rand
	scale   float64
}

// NewSpawner creates a spawner over catalog. A nil catalog is treated as
// empty, so every selection yields the default pattern.
func NewSpawner(catalog *Catalog, seed int64, scale float64) *Spawner {
	if scale <= 0 {
		scale = 1
	}
	return &Spawner{
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
		scale:   scale,
	}
}

// Reseed restarts the selection sequence.
func (s *Spawner) Reseed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Catalog returns the catalog the spawner selects from.
func (s *Spawner) Catalog() *Catalog {
	return s.catalog
}

// Weight returns the selection weight of p at the given difficulty and
// distance.
func Weight(p Pattern, difficulty int, distance float64) float64 {
	w := math.Max(minWeight, 1-tierFalloff*math.Abs(float64(int(p.Tier)-difficulty)))
	if distance > challengeDistance && p.IsChallenge() {
		w *= challengeBoost
	}
	return w
}

// Candidates returns the patterns eligible at difficulty, in catalog order.
func (s *Spawner) Candidates(difficulty int) []Pattern {
	var out []Pattern
	for _, p := range s.catalog.Patterns() {
		if int(p.Tier) <= difficulty {
			out = append(out, p)
		}
	}
	return out
}

// SelectPattern draws a pattern whose tier does not exceed difficulty.
// The draw walks candidates in catalog order and takes the first one that
// brings the remainder to zero or below, which favours earlier entries on
// equal weights. With no eligible pattern the default pattern is returned.
func (s *Spawner) SelectPattern(difficulty int, distance float64) Pattern {
	candidates := s.Candidates(difficulty)
	if len(candidates) == 0 {
		return DefaultPattern()
	}

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, p := range candidates {
		weights[i] = Weight(p, difficulty, distance)
		total += weights[i]
	}

	r := s.rng.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// Instantiate places every descriptor of p at offset + relative*scale and
// returns the acquired handles in descriptor order. That point is the
// bottom-left corner of the entity box: Pos stays top-left as everywhere
// else, so Pos.Y is the point's y minus the kind's height. A descriptor at
// y 0 therefore stands on the ground line passed as offsetY.
func (s *Spawner) Instantiate(p Pattern, offsetX, offsetY float64, pool Placer) []entity.Handle {
	handles := make([]entity.Handle, 0, len(p.Descriptors))
	for _, d := range p.Descriptors {
		kind, ok := entity.Resolve(d.Kind)
		if !ok {
			continue
		}

		x := offsetX + d.X*s.scale
		y := offsetY + d.Y*s.scale - kind.Size().Y
		h := pool.Acquire(kind, x, y)
		if !h.Valid() {
			continue
		}

		if d.Velocity != nil {
			pool.SetVelocity(h, d.Velocity.Scale(s.scale))
		}
		if m := d.Movement; m != nil {
			move := entity.Movement{Range: m.Range * s.scale}
			vel := core.Vec{}
			if d.Velocity != nil {
				vel = d.Velocity.Scale(s.scale)
			}
			if m.Axis == "x" {
				move.Axis = entity.AxisX
				vel.X = m.Speed * s.scale
			} else {
				move.Axis = entity.AxisY
				vel.Y = m.Speed * s.scale
			}
			pool.SetVelocity(h, vel)
			pool.SetMovement(h, move)
		}
		if kind.Class() == entity.ClassItem && d.Value > 0 {
			pool.SetValue(h, d.Value)
		}
		handles = append(handles, h)
	}
	return handles
}
