package telemetry

import (
	"fmt"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
	"github.com/vovakirdan/tui-runner/internal/runner"
)

// Run outcomes.
const (
	OutcomeDied    = "died"
	OutcomeTimeout = "timeout"
)

// SimConfig controls a batch of headless runs.
type SimConfig struct {
	Runs        int
	Ticks       int   // Tick limit per run
	Seed        int64 // Run i uses Seed+i
	TickRate    int
	JumpEvery   int // Fixed jump cadence in ticks; 0 uses the autopilot
	SampleEvery int // Ticks between samples; 0 disables samples
}

// Simulate plays cfg.Runs sessions on g and returns one summary per run.
// Rows are written to out when it is non-nil.
func Simulate(g *runner.Game, cfg SimConfig, out *OutputManager) ([]RunSummary, error) {
	if cfg.Runs <= 0 {
		cfg.Runs = 1
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	summaries := make([]RunSummary, 0, cfg.Runs)
	for run := 0; run < cfg.Runs; run++ {
		seed := cfg.Seed + int64(run)
		g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: cfg.TickRate, Seed: seed})

		outcome := OutcomeTimeout
		tick := 0
		for tick < cfg.Ticks {
			in := core.NewInputFrame()
			if cfg.JumpEvery > 0 {
				if tick%cfg.JumpEvery == 0 {
					in.Set(core.ActionJump)
				}
			} else {
				Autopilot(g, &in)
			}

			res := g.Step(in)
			tick++

			if cfg.SampleEvery > 0 && tick%cfg.SampleEvery == 0 {
				if err := out.WriteSample(sample(g, run, tick, res.State)); err != nil {
					return summaries, err
				}
			}
			if res.State.GameOver {
				outcome = OutcomeDied
				break
			}
		}

		p := g.Progress()
		s := RunSummary{
			Run:          run,
			Seed:         seed,
			Ticks:        tick,
			Outcome:      outcome,
			Score:        p.Score,
			Distance:     p.Distance,
			Items:        p.ItemsCollected,
			MaxCombo:     p.LongestCombo,
			Jumps:        p.Jumps,
			Slides:       p.Slides,
			Achievements: len(p.Fired),
		}
		if err := out.WriteRun(s); err != nil {
			return summaries, fmt.Errorf("run %d: %w", run, err)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func sample(g *runner.Game, run, tick int, st core.GameState) Sample {
	pool := g.Pool()
	return Sample{
		Run:             run,
		Tick:            tick,
		Scene:           st.Scene,
		Distance:        st.Distance,
		Speed:           g.Speed(),
		Score:           st.Score,
		Combo:           st.Combo,
		Multiplier:      st.Multiplier,
		Level:           st.Level,
		Difficulty:      st.Difficulty,
		ActiveObstacles: pool.ActiveCount(entity.ClassObstacle),
		ActiveItems:     pool.ActiveCount(entity.ClassItem),
		PoolObstacles:   pool.Len(entity.ClassObstacle),
		PoolItems:       pool.Len(entity.ClassItem),
	}
}

// lookahead is how many seconds ahead the autopilot reacts to obstacles.
const lookahead = 0.22

// Autopilot sets a jump or slide when a deadly obstacle is about to reach
// the player. Obstacles whose bottom clears a sliding player are ducked,
// everything else is jumped.
func Autopilot(g *runner.Game, in *core.InputFrame) {
	p := g.Player()
	if !p.Grounded {
		return
	}
	pb := p.Bounds()
	reach := pb.Right() + g.Speed()*lookahead
	standingTop := p.Y - pb.H
	if p.Sliding() {
		standingTop = p.Y - 2*pb.H
	}

	g.Pool().EachActiveObstacle(func(o entity.Obstacle) bool {
		if !o.Deadly {
			return true
		}
		b := o.Bounds()
		if b.Right() < pb.X || b.X > reach {
			return true
		}
		// Raised hazards that only block a standing player
		if b.Bottom() <= p.Y-pb.H/2 && b.Bottom() > standingTop {
			in.Set(core.ActionSlide)
			return false
		}
		if b.Bottom() > standingTop {
			in.Set(core.ActionJump)
			return false
		}
		return true
	})
}
