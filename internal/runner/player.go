package runner

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Player is the runner. X is the left edge in world space and Y the feet,
// so the collision box hangs above (X, Y).
type Player struct {
	X, Y     float64
	VelY     float64
	Grounded bool

	airJumps int

	dashLeft     time.Duration
	dashCooldown time.Duration
	slideLeft    time.Duration

	shieldLeft     time.Duration
	magnetLeft     time.Duration
	boostLeft      time.Duration
	doubleJumpLeft time.Duration

	physics config.PhysicsConfig
	size    config.PlayerConfig
}

func newPlayer(cfg config.RunnerConfig) Player {
	return Player{
		X:        cfg.Player.ScreenX,
		Y:        cfg.World.GroundY,
		Grounded: true,
		physics:  cfg.Physics,
		size:     cfg.Player,
	}
}

// Height returns the current box height; sliding halves the profile.
func (p *Player) Height() float64 {
	if p.Sliding() {
		return p.size.SlideHeight
	}
	return p.size.Height
}

// Bounds returns the collision box.
func (p *Player) Bounds() core.Bounds {
	h := p.Height()
	return core.NewBounds(p.X, p.Y-h, p.size.Width, h)
}

// Sliding reports whether a slide is in progress.
func (p *Player) Sliding() bool { return p.slideLeft > 0 }

// Dashing reports whether a dash is in progress.
func (p *Player) Dashing() bool { return p.dashLeft > 0 }

// Shielded reports whether a shield is up.
func (p *Player) Shielded() bool { return p.shieldLeft > 0 }

// Magnetized reports whether the magnet is active.
func (p *Player) Magnetized() bool { return p.magnetLeft > 0 }

// Boosted reports whether a speed boost is active. Boosted players are
// invulnerable.
func (p *Player) Boosted() bool { return p.boostLeft > 0 }

// CanDoubleJump reports whether the double jump ability is active.
func (p *Player) CanDoubleJump() bool { return p.doubleJumpLeft > 0 }

// Jump starts a jump from the ground, or an air jump when the double jump
// ability is active and unused. It reports whether a jump happened.
func (p *Player) Jump() bool {
	switch {
	case p.Grounded:
		p.VelY = -p.physics.JumpVelocity
		p.Grounded = false
	case p.CanDoubleJump() && p.airJumps == 0:
		p.VelY = -p.physics.DoubleJumpVelocity
		p.airJumps++
	default:
		return false
	}
	p.slideLeft = 0
	return true
}

// Slide ducks for the configured duration. Only possible on the ground.
func (p *Player) Slide() bool {
	if !p.Grounded || p.Sliding() {
		return false
	}
	p.slideLeft = p.physics.SlideDuration()
	return true
}

// Dash starts a speed burst unless the cooldown is running.
func (p *Player) Dash() bool {
	if p.dashCooldown > 0 {
		return false
	}
	p.dashLeft = p.physics.DashDuration()
	p.dashCooldown = p.physics.DashCooldown()
	return true
}

// Grant activates an ability for d. Granting an active ability refreshes it.
func (p *Player) Grant(ability string, d time.Duration) {
	switch ability {
	case "shield":
		p.shieldLeft = d
	case "magnet":
		p.magnetLeft = d
	case "speed_boost":
		p.boostLeft = d
	case "double_jump":
		p.doubleJumpLeft = d
	}
}

// BreakShield consumes the shield.
func (p *Player) BreakShield() {
	p.shieldLeft = 0
}

// SpeedFactor returns the multiplier applied to the scroll speed.
func (p *Player) SpeedFactor() float64 {
	f := 1.0
	if p.Dashing() {
		f *= p.physics.DashMultiplier
	}
	if p.Boosted() {
		f *= p.physics.BoostMultiplier
	}
	return f
}

// Fall applies gravity for dt and lands on support, the highest surface
// under the player. A grounded player whose support dropped away starts
// falling; one whose support rose is carried along.
func (p *Player) Fall(dt time.Duration, support float64) {
	if p.Grounded {
		switch {
		case support > p.Y:
			p.Grounded = false
		default:
			p.Y = support
			return
		}
	}

	s := dt.Seconds()
	p.VelY += p.physics.Gravity * s
	if p.VelY > p.physics.MaxFallSpeed {
		p.VelY = p.physics.MaxFallSpeed
	}
	p.Y += p.VelY * s

	if p.VelY >= 0 && p.Y >= support {
		p.Y = support
		p.VelY = 0
		p.Grounded = true
		p.airJumps = 0
	}
}

// tickTimers counts every timer down by dt.
func (p *Player) tickTimers(dt time.Duration) {
	for _, t := range []*time.Duration{
		&p.dashLeft, &p.dashCooldown, &p.slideLeft,
		&p.shieldLeft, &p.magnetLeft, &p.boostLeft, &p.doubleJumpLeft,
	} {
		*t -= dt
		if *t < 0 {
			*t = 0
		}
	}
}
