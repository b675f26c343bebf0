// Package collision tests the player box against live pool entities and
// reports what happened as plain values.
package collision

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
)

// EffectKind tags the gameplay consequence of collecting an item.
type EffectKind uint8

const (
	EffectScore EffectKind = iota
	EffectAbility
	EffectKey
)

// String returns the effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectAbility:
		return "ability"
	case EffectKey:
		return "key"
	default:
		return "score"
	}
}

// ItemEffect describes one collected item, independent of how it is drawn.
// Score effects use Value, ability effects use Ability and Duration.
type ItemEffect struct {
	Kind     EffectKind
	Item     entity.Kind
	Pos      core.Vec
	Value    float64
	Ability  string
	Duration time.Duration
}

// Outcome is the result of one resolve pass.
type Outcome struct {
	PlayerHit      bool
	HitKind        entity.Kind
	Hit            entity.Handle
	ItemsCollected []ItemEffect
}

// World is the read and collect surface the resolver needs from the pool.
type World interface {
	EachActiveObstacle(fn func(entity.Obstacle) bool)
	EachActiveItem(fn func(entity.Item) bool)
	Collect(h entity.Handle) bool
}

// EffectFor maps an item kind to its effect.
func EffectFor(kind entity.Kind, value float64) ItemEffect {
	e := ItemEffect{Item: kind, Value: value}
	switch kind.Effect() {
	case entity.EffectAbility:
		e.Kind = EffectAbility
		e.Ability = kind.String()
		e.Duration = kind.AbilityDuration()
	case entity.EffectKey:
		e.Kind = EffectKey
	default:
		e.Kind = EffectScore
	}
	return e
}

// Resolve tests player against every live entity. The obstacle scan stops
// at the first deadly overlap. Every overlapping uncollected item is
// collected; items stay in the pool until the next sweep.
func Resolve(w World, player core.Bounds) Outcome {
	return ResolveWithReach(w, player, 0)
}

// ResolveWithReach is Resolve with the item test box grown by reach on
// every side.
func ResolveWithReach(w World, player core.Bounds, reach float64) Outcome {
	out := Outcome{Hit: entity.NoHandle}

	w.EachActiveObstacle(func(o entity.Obstacle) bool {
		if !o.Deadly || !player.Intersects(o.Bounds()) {
			return true
		}
		out.PlayerHit = true
		out.HitKind = o.Kind
		out.Hit = o.Handle
		return false
	})

	itemBox := player
	if reach > 0 {
		itemBox = player.Expand(reach)
	}

	var hits []entity.Item
	w.EachActiveItem(func(it entity.Item) bool {
		if !it.Collected && itemBox.Intersects(it.Bounds()) {
			hits = append(hits, it)
		}
		return true
	})

	for _, it := range hits {
		if !w.Collect(it.Handle) {
			continue
		}
		e := EffectFor(it.Kind, it.Value)
		e.Pos = it.Pos
		out.ItemsCollected = append(out.ItemsCollected, e)
	}
	return out
}
