package pattern

// Cadence decides when the next pattern is due. It fires once each time the
// distance crosses an interval boundary, however far the distance jumped.
type Cadence struct {
	interval float64
	start    float64
	next     float64
}

// NewCadence creates a cadence whose first boundary is start.
func NewCadence(interval, start float64) *Cadence {
	if interval <= 0 {
		interval = 1
	}
	return &Cadence{interval: interval, start: start, next: start}
}

// Due reports whether distance reached the next boundary and, if so,
// advances the boundary past distance.
func (c *Cadence) Due(distance float64) bool {
	if distance < c.next {
		return false
	}
	for c.next <= distance {
		c.next += c.interval
	}
	return true
}

// Next returns the distance of the next boundary.
func (c *Cadence) Next() float64 {
	return c.next
}

// Reset rewinds to the first boundary.
func (c *Cadence) Reset() {
	c.next = c.start
}
