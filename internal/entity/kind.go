// Package entity implements the reusable obstacle and item pools and the
// single canonical table every other package uses to classify entity kinds.
package entity

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// Class separates obstacles from collectible items.
type Class uint8

const (
	ClassObstacle Class = iota
	ClassItem
)

// String returns the class name.
func (c Class) String() string {
	if c == ClassItem {
		return "item"
	}
	return "obstacle"
}

// Kind is the canonical entity kind. Raw pattern strings are mapped onto it
// once through Resolve.
type Kind uint8

const (
	KindSpike Kind = iota
	KindSaw
	KindLaser
	KindWall
	KindPlatform
	KindCrusher

	KindCoin
	KindGem
	KindStar
	KindShield
	KindMagnet
	KindSpeedBoost
	KindDoubleJump
	KindKey

	KindCount // must stay last
)

// EffectClass says what collecting an item does.
type EffectClass uint8

const (
	EffectNone EffectClass = iota // obstacles
	EffectScore
	EffectAbility
	EffectKey
)

type kindInfo struct {
	name       string
	class      Class
	deadly     bool
	size       core.Vec
	baseScore  int
	effect     EffectClass
	durationMs int
}

var kinds = [KindCount]kindInfo{
	KindSpike:    {name: "spike", class: ClassObstacle, deadly: true, size: core.V(20, 20)},
	KindSaw:      {name: "saw", class: ClassObstacle, deadly: true, size: core.V(32, 32)},
	KindLaser:    {name: "laser", class: ClassObstacle, deadly: true, size: core.V(8, 64)},
	KindWall:     {name: "wall", class: ClassObstacle, deadly: true, size: core.V(32, 64)},
	KindPlatform: {name: "platform", class: ClassObstacle, deadly: false, size: core.V(96, 16)},
	KindCrusher:  {name: "crusher", class: ClassObstacle, deadly: true, size: core.V(48, 48)},

	KindCoin:       {name: "coin", class: ClassItem, size: core.V(16, 16), baseScore: 10, effect: EffectScore},
	KindGem:        {name: "gem", class: ClassItem, size: core.V(18, 18), baseScore: 50, effect: EffectScore},
	KindStar:       {name: "star", class: ClassItem, size: core.V(20, 20), baseScore: 100, effect: EffectScore},
	KindShield:     {name: "shield", class: ClassItem, size: core.V(24, 24), baseScore: 25, effect: EffectAbility, durationMs: 5000},
	KindMagnet:     {name: "magnet", class: ClassItem, size: core.V(24, 24), baseScore: 25, effect: EffectAbility, durationMs: 8000},
	KindSpeedBoost: {name: "speed_boost", class: ClassItem, size: core.V(24, 24), baseScore: 25, effect: EffectAbility, durationMs: 3000},
	KindDoubleJump: {name: "double_jump", class: ClassItem, size: core.V(24, 24), baseScore: 25, effect: EffectAbility, durationMs: 10000},
	KindKey:        {name: "key", class: ClassItem, size: core.V(20, 20), baseScore: 200, effect: EffectKey},
}

// remap maps every accepted pattern spelling to its canonical kind.
var remap = map[string]Kind{
	"spike":           KindSpike,
	"spikes":          KindSpike,
	"floor_spike":     KindSpike,
	"saw":             KindSaw,
	"sawblade":        KindSaw,
	"saw_blade":       KindSaw,
	"laser":           KindLaser,
	"laser_beam":      KindLaser,
	"wall":            KindWall,
	"block":           KindWall,
	"barrier":         KindWall,
	"platform":        KindPlatform,
	"moving_platform": KindPlatform,
	"ledge":           KindPlatform,
	"crusher":         KindCrusher,
	"piston":          KindCrusher,

	"coin":        KindCoin,
	"coins":       KindCoin,
	"gem":         KindGem,
	"diamond":     KindGem,
	"star":        KindStar,
	"shield":      KindShield,
	"magnet":      KindMagnet,
	"speed":       KindSpeedBoost,
	"speed_boost": KindSpeedBoost,
	"boost":       KindSpeedBoost,
	"double_jump": KindDoubleJump,
	"wings":       KindDoubleJump,
	"key":         KindKey,
}

// Resolve maps a raw pattern kind onto its canonical kind.
func Resolve(raw string) (Kind, bool) {
	k, ok := remap[raw]
	return k, ok
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	return k < KindCount
}

// String returns the canonical name.
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kinds[k].name
}

// Class returns whether k lives in the obstacle or the item pool.
func (k Kind) Class() Class {
	return kinds[k].class
}

// Deadly reports whether touching an obstacle of this kind kills the player.
func (k Kind) Deadly() bool {
	return kinds[k].deadly
}

// Size returns the collision box size.
func (k Kind) Size() core.Vec {
	return kinds[k].size
}

// BaseScore returns the score weight of an item kind, 0 for obstacles.
func (k Kind) BaseScore() int {
	return kinds[k].baseScore
}

// Effect returns what collecting the item does.
func (k Kind) Effect() EffectClass {
	return kinds[k].effect
}

// AbilityDuration returns how long an ability item lasts.
func (k Kind) AbilityDuration() time.Duration {
	return time.Duration(kinds[k].durationMs) * time.Millisecond
}

// Kinds returns all kinds of a class in declaration order.
func Kinds(c Class) []Kind {
	var out []Kind
	for k := Kind(0); k < KindCount; k++ {
		if kinds[k].class == c {
			out = append(out, k)
		}
	}
	return out
}
