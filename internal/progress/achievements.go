package progress

import "github.com/vovakirdan/tui-runner/internal/entity"

// Achievement is a one-shot milestone with a fixed score bonus.
type Achievement struct {
	ID    string
	Title string
	Bonus int
	check func(*State) bool
}

func distanceAt(d float64) func(*State) bool {
	return func(s *State) bool { return s.Distance >= d }
}

func comboAt(n int) func(*State) bool {
	return func(s *State) bool { return s.Combo >= n }
}

func collectedAt(k entity.Kind, n int) func(*State) bool {
	return func(s *State) bool { return s.Collected[k] >= n }
}

var catalogue = []Achievement{
	{ID: "distance_500", Title: "Warming Up", Bonus: 100, check: distanceAt(500)},
	{ID: "distance_1000", Title: "Kilometer", Bonus: 250, check: distanceAt(1000)},
	{ID: "distance_2500", Title: "Long Haul", Bonus: 500, check: distanceAt(2500)},
	{ID: "distance_5000", Title: "Marathoner", Bonus: 1000, check: distanceAt(5000)},
	{ID: "distance_10000", Title: "Horizon Chaser", Bonus: 2500, check: distanceAt(10000)},
	{ID: "combo_10", Title: "Combo x10", Bonus: 200, check: comboAt(10)},
	{ID: "combo_25", Title: "Combo x25", Bonus: 500, check: comboAt(25)},
	{ID: "combo_50", Title: "Combo x50", Bonus: 1500, check: comboAt(50)},
	{ID: "coins_50", Title: "Pocket Change", Bonus: 250, check: collectedAt(entity.KindCoin, 50)},
	{ID: "gems_10", Title: "Jeweler", Bonus: 300, check: collectedAt(entity.KindGem, 10)},
	{ID: "keys_3", Title: "Keymaster", Bonus: 500, check: collectedAt(entity.KindKey, 3)},
	{ID: "items_100", Title: "Hoarder", Bonus: 1000, check: func(s *State) bool { return s.ItemsCollected >= 100 }},
	{ID: "flawless_2000", Title: "Flawless", Bonus: 1000, check: func(s *State) bool { return s.Deaths == 0 && s.Distance >= 2000 }},
	{ID: "speed_demon", Title: "Speed Demon", Bonus: 500, check: func(s *State) bool { return s.TopSpeed >= 600 }},
}

// Achievements returns the fixed achievement catalogue.
func Achievements() []Achievement {
	out := make([]Achievement, len(catalogue))
	copy(out, catalogue)
	return out
}

// FindAchievement returns the catalogue entry for id.
func FindAchievement(id string) (Achievement, bool) {
	for _, a := range catalogue {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
