// Package pattern loads the level content catalog and turns patterns into
// pooled entities. Selection is difficulty weighted and deterministic under
// a seeded RNG.
package pattern

import (
	"strings"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// Tier is the difficulty tier of a pattern, ordered low to high.
type Tier int

const (
	TierEasy   Tier = 1
	TierMedium Tier = 2
	TierHard   Tier = 3
	TierExpert Tier = 4
)

// String returns the tier name used as a pattern name prefix.
func (t Tier) String() string {
	switch t {
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	case TierExpert:
		return "expert"
	default:
		return "easy"
	}
}

var tierPrefixes = map[string]Tier{
	"easy":   TierEasy,
	"low":    TierEasy,
	"medium": TierMedium,
	"mid":    TierMedium,
	"hard":   TierHard,
	"high":   TierHard,
	"expert": TierExpert,
}

// ParseTier parses a tier name. Unknown names report false.
func ParseTier(s string) (Tier, bool) {
	t, ok := tierPrefixes[strings.ToLower(s)]
	return t, ok
}

// TierFromName derives the tier from the name prefix before the first
// underscore. Unrecognized prefixes are easy.
func TierFromName(name string) Tier {
	prefix, _, _ := strings.Cut(name, "_")
	if t, ok := ParseTier(prefix); ok {
		return t
	}
	return TierEasy
}

// MovementSpec makes a descriptor oscillate along one axis.
type MovementSpec struct {
	Axis  string  `yaml:"axis"` // "x" or "y"
	Range float64 `yaml:"range"`
	Speed float64 `yaml:"speed"`
}

// Descriptor places one entity relative to the pattern origin. Y grows
// downward and anchors the bottom edge of the entity, so y=0 sits on the
// ground line.
type Descriptor struct {
	Kind     string
	X, Y     float64
	Velocity *core.Vec
	Movement *MovementSpec
	Value    float64 // Score weight for items, 1 when unset
}

// Pattern is a named, immutable arrangement of entities.
type Pattern struct {
	Name        string
	Tier        Tier
	Tags        []string
	Descriptors []Descriptor
}

// HasTag reports whether the pattern carries tag.
func (p Pattern) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsChallenge reports whether the pattern gets the long-distance weight boost.
func (p Pattern) IsChallenge() bool {
	return p.HasTag("challenge") || strings.Contains(p.Name, "challenge")
}

// Width returns the horizontal extent of the pattern's anchor points.
func (p Pattern) Width() float64 {
	w := 0.0
	for _, d := range p.Descriptors {
		if d.X > w {
			w = d.X
		}
	}
	return w
}

// DefaultPattern is the built-in fallback used whenever the catalog has
// nothing eligible.
func DefaultPattern() Pattern {
	return Pattern{
		Name: "default",
		Tier: TierEasy,
		Descriptors: []Descriptor{
			{Kind: "spike", X: 0, Y: 0},
			{Kind: "coin", X: 120, Y: -60},
			{Kind: "spike", X: 240, Y: 0},
			{Kind: "coin", X: 360, Y: -60},
		},
	}
}
