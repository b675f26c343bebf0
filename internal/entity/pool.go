package entity

import "github.com/vovakirdan/tui-runner/internal/core"

// Pool owns every obstacle and item instance. Slots are reused: Acquire
// reactivates the first inactive slot and grows only when none is free.
// Pools never shrink, so handles stay valid.
type Pool struct {
	obstacles []Obstacle
	items     []Item
}

// NewPool preallocates parked, inactive instances.
func NewPool(obstacleCap, itemCap int) *Pool {
	p := &Pool{
		obstacles: make([]Obstacle, 0, obstacleCap),
		items:     make([]Item, 0, itemCap),
	}
	for i := 0; i < obstacleCap; i++ {
		p.obstacles = append(p.obstacles, newObstacle(i))
	}
	for i := 0; i < itemCap; i++ {
		p.items = append(p.items, newItem(i))
	}
	return p
}

func newObstacle(i int) Obstacle {
	o := Obstacle{Handle: Handle{Class: ClassObstacle, Index: i}}
	o.park()
	return o
}

func newItem(i int) Item {
	it := Item{Handle: Handle{Class: ClassItem, Index: i}}
	it.park()
	return it
}

// Acquire activates an entity of the given kind at (x, y).
func (p *Pool) Acquire(kind Kind, x, y float64) Handle {
	if !kind.Valid() {
		return NoHandle
	}

	if kind.Class() == ClassObstacle {
		i := p.freeObstacle()
		o := &p.obstacles[i]
		o.Kind = kind
		o.Deadly = kind.Deadly()
		o.spawn(kind.Size(), x, y)
		return o.Handle
	}

	i := p.freeItem()
	it := &p.items[i]
	it.Kind = kind
	it.Collected = false
	it.Value = 1
	it.spawn(kind.Size(), x, y)
	return it.Handle
}

func (p *Pool) freeObstacle() int {
	for i := range p.obstacles {
		if !p.obstacles[i].Active {
			return i
		}
	}
	p.obstacles = append(p.obstacles, newObstacle(len(p.obstacles)))
	return len(p.obstacles) - 1
}

func (p *Pool) freeItem() int {
	for i := range p.items {
		if !p.items[i].Active {
			return i
		}
	}
	p.items = append(p.items, newItem(len(p.items)))
	return len(p.items) - 1
}

// Release deactivates the entity and parks it. Releasing twice is a no-op.
func (p *Pool) Release(h Handle) {
	if b := p.body(h); b != nil {
		b.park()
		if h.Class == ClassItem {
			p.items[h.Index].Collected = false
		}
	}
}

func (p *Pool) body(h Handle) *Body {
	switch {
	case h.Index < 0:
		return nil
	case h.Class == ClassObstacle && h.Index < len(p.obstacles):
		return &p.obstacles[h.Index].Body
	case h.Class == ClassItem && h.Index < len(p.items):
		return &p.items[h.Index].Body
	}
	return nil
}

// SetVelocity sets the velocity of a live entity.
func (p *Pool) SetVelocity(h Handle, vel core.Vec) {
	if b := p.body(h); b != nil && b.Active {
		b.Vel = vel
	}
}

// SetMovement attaches an oscillation directive to a live entity. The
// current position becomes the oscillation origin.
func (p *Pool) SetMovement(h Handle, move Movement) {
	if b := p.body(h); b != nil && b.Active {
		b.Move = move
		b.Origin = b.Pos
	}
}

// SetValue overrides an item's score weight.
func (p *Pool) SetValue(h Handle, v float64) {
	if h.Class == ClassItem && h.Index >= 0 && h.Index < len(p.items) {
		p.items[h.Index].Value = v
	}
}

// Update advances kinematics of every active entity by dt seconds.
func (p *Pool) Update(dt float64) {
	for i := range p.obstacles {
		if p.obstacles[i].Active {
			p.obstacles[i].integrate(dt)
		}
	}
	for i := range p.items {
		if p.items[i].Active {
			p.items[i].integrate(dt)
		}
	}
}

// SweepOffscreen releases entities whose right edge is behind left, and
// every collected item. It returns how many were released.
func (p *Pool) SweepOffscreen(left float64) int {
	released := 0
	for i := range p.obstacles {
		o := &p.obstacles[i]
		if o.Active && o.Pos.X+o.Size.X < left {
			p.Release(o.Handle)
			released++
		}
	}
	for i := range p.items {
		it := &p.items[i]
		if it.Active && (it.Collected || it.Pos.X+it.Size.X < left) {
			p.Release(it.Handle)
			released++
		}
	}
	return released
}

// Collect marks a live, uncollected item as collected.
func (p *Pool) Collect(h Handle) bool {
	if h.Class != ClassItem || h.Index < 0 || h.Index >= len(p.items) {
		return false
	}
	it := &p.items[h.Index]
	if !it.Active || it.Collected {
		return false
	}
	it.Collected = true
	return true
}

// Obstacle returns a copy of the obstacle in slot h.
func (p *Pool) Obstacle(h Handle) (Obstacle, bool) {
	if h.Class != ClassObstacle || h.Index < 0 || h.Index >= len(p.obstacles) {
		return Obstacle{}, false
	}
	return p.obstacles[h.Index], true
}

// Item returns a copy of the item in slot h.
func (p *Pool) Item(h Handle) (Item, bool) {
	if h.Class != ClassItem || h.Index < 0 || h.Index >= len(p.items) {
		return Item{}, false
	}
	return p.items[h.Index], true
}

// EachActiveObstacle calls fn with a copy of every active obstacle in slot
// order until fn returns false.
func (p *Pool) EachActiveObstacle(fn func(Obstacle) bool) {
	for i := range p.obstacles {
		if p.obstacles[i].Active && !fn(p.obstacles[i]) {
			return
		}
	}
}

// EachActiveItem calls fn with a copy of every active item in slot order
// until fn returns false.
func (p *Pool) EachActiveItem(fn func(Item) bool) {
	for i := range p.items {
		if p.items[i].Active && !fn(p.items[i]) {
			return
		}
	}
}

// Len returns the number of slots of a class, active or not.
func (p *Pool) Len(c Class) int {
	if c == ClassItem {
		return len(p.items)
	}
	return len(p.obstacles)
}

// Cap returns the slot capacity of a class before the next growth.
func (p *Pool) Cap(c Class) int {
	if c == ClassItem {
		return cap(p.items)
	}
	return cap(p.obstacles)
}

// ActiveCount returns the number of live entities of a class.
func (p *Pool) ActiveCount(c Class) int {
	n := 0
	if c == ClassItem {
		for i := range p.items {
			if p.items[i].Active {
				n++
			}
		}
		return n
	}
	for i := range p.obstacles {
		if p.obstacles[i].Active {
			n++
		}
	}
	return n
}

// Reset releases every entity and keeps the storage.
func (p *Pool) Reset() {
	for i := range p.obstacles {
		p.Release(p.obstacles[i].Handle)
	}
	for i := range p.items {
		p.Release(p.items[i].Handle)
	}
}
