package entity

import (
	"math"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// ParkedPos is where pooled entities wait, far outside any play field.
var ParkedPos = core.V(-1e6, -1e6)

// Handle identifies a pool slot. Handles stay valid for the life of the pool.
type Handle struct {
	Class Class
	Index int
}

// NoHandle is returned when nothing could be acquired.
var NoHandle = Handle{Index: -1}

// Valid reports whether h refers to a slot.
func (h Handle) Valid() bool {
	return h.Index >= 0
}

// Axis selects the oscillation axis of a movement directive.
type Axis uint8

const (
	AxisNone Axis = iota
	AxisX
	AxisY
)

// Movement makes an entity oscillate: its velocity along Axis flips sign
// whenever it drifts further than Range from where it was spawned.
type Movement struct {
	Axis  Axis
	Range float64
}

// Body is the transform and lifecycle state shared by obstacles and items.
type Body struct {
	Pos    core.Vec
	Vel    core.Vec
	Size   core.Vec
	Origin core.Vec
	Move   Movement
	Active bool
}

// Bounds returns the collision box.
func (b Body) Bounds() core.Bounds {
	return core.BoundsAt(b.Pos, b.Size)
}

func (b *Body) spawn(size core.Vec, x, y float64) {
	b.Pos = core.V(x, y)
	b.Origin = b.Pos
	b.Vel = core.Vec{}
	b.Size = size
	b.Move = Movement{}
	b.Active = true
}

func (b *Body) park() {
	b.Active = false
	b.Pos = ParkedPos
	b.Vel = core.Vec{}
	b.Move = Movement{}
}

func (b *Body) integrate(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))

	switch b.Move.Axis {
	case AxisX:
		b.Pos.X, b.Vel.X = bounce(b.Pos.X, b.Origin.X, b.Vel.X, b.Move.Range)
	case AxisY:
		b.Pos.Y, b.Vel.Y = bounce(b.Pos.Y, b.Origin.Y, b.Vel.Y, b.Move.Range)
	}
}

// bounce keeps pos within origin±span and reverses vel at the edges.
func bounce(pos, origin, vel, span float64) (float64, float64) {
	d := pos - origin
	if math.Abs(d) <= span {
		return pos, vel
	}
	if d > 0 {
		return origin + span, -math.Abs(vel)
	}
	return origin - span, math.Abs(vel)
}

// Obstacle is a pooled hazard or platform.
type Obstacle struct {
	Handle
	Kind Kind
	Body
	Deadly bool
}

// Item is a pooled collectible. Collected is terminal until the slot is
// released and reacquired.
type Item struct {
	Handle
	Kind Kind
	Body
	Collected bool
	Value     float64
}
