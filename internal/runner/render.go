package runner

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/entity"
)

// Visual characters for rendering
const (
	GroundChar = '═'
	PlayerHead = '●'
	PlayerBody = '█'
	PlayerDuck = '▄'
)

type glyph struct {
	r rune
	c core.Color
}

var glyphs = [entity.KindCount]glyph{
	entity.KindSpike:      {'▲', core.ColorRed},
	entity.KindSaw:        {'✹', core.ColorRed},
	entity.KindLaser:      {'┃', core.ColorMagenta},
	entity.KindWall:       {'█', core.ColorGray},
	entity.KindPlatform:   {'▬', core.ColorWhite},
	entity.KindCrusher:    {'▓', core.ColorOrange},
	entity.KindCoin:       {'o', core.ColorYellow},
	entity.KindGem:        {'◆', core.ColorCyan},
	entity.KindStar:       {'★', core.ColorYellow},
	entity.KindShield:     {'Θ', core.ColorBlue},
	entity.KindMagnet:     {'U', core.ColorMagenta},
	entity.KindSpeedBoost: {'»', core.ColorGreen},
	entity.KindDoubleJump: {'W', core.ColorCyan},
	entity.KindKey:        {'⚷', core.ColorYellow},
}

// viewport maps world coordinates onto terminal cells. The ground line sits
// two rows above the bottom edge.
type viewport struct {
	cameraX   float64
	groundY   float64
	cellW     float64
	cellH     float64
	groundRow int
}

func (g *Game) viewport(dst *core.Screen) viewport {
	return viewport{
		cameraX:   g.cameraX,
		groundY:   g.cfg.World.GroundY,
		cellW:     g.cfg.World.CellWidth,
		cellH:     g.cfg.World.CellHeight,
		groundRow: dst.Height() - 2,
	}
}

func (v viewport) col(x float64) int {
	return int(math.Floor((x - v.cameraX) / v.cellW))
}

func (v viewport) row(y float64) int {
	return v.groundRow + int(math.Floor((y-v.groundY)/v.cellH))
}

// cells returns the cell rectangle covered by b; every box covers at least
// one cell.
func (v viewport) cells(b core.Bounds) (x0, y0, x1, y1 int) {
	const eps = 1e-6
	x0, y0 = v.col(b.X), v.row(b.Y)
	x1, y1 = v.col(b.Right()-eps), v.row(b.Bottom()-eps)
	return x0, y0, max(x0, x1), max(y0, y1)
}

// Render draws the world, HUD and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	v := g.viewport(dst)

	dst.DrawHLine(0, v.groundRow, dst.Width(), GroundChar)

	g.pool.EachActiveObstacle(func(o entity.Obstacle) bool {
		g.drawEntity(dst, v, o.Kind, o.Bounds())
		return true
	})
	g.pool.EachActiveItem(func(it entity.Item) bool {
		if !it.Collected {
			g.drawEntity(dst, v, it.Kind, it.Bounds())
		}
		return true
	})

	g.drawPlayer(dst, v)
	g.drawHUD(dst)

	switch g.scene() {
	case ScenePaused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case SceneGameOver:
		s := g.tracker.Snapshot()
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  Best: %d  |  Press R to restart", s.Score, g.record.HighScore))
	}
}

func (g *Game) drawEntity(dst *core.Screen, v viewport, k entity.Kind, b core.Bounds) {
	gl := glyphs[k]
	x0, y0, x1, y1 := v.cells(b)
	if x1 < 0 || x0 >= dst.Width() {
		return
	}
	dst.FillRect(x0, y0, x1-x0+1, y1-y0+1, gl.r, gl.c)
}

func (g *Game) drawPlayer(dst *core.Screen, v viewport) {
	p := &g.player
	color := core.ColorWhite
	switch {
	case p.Boosted():
		color = core.ColorGreen
	case p.Shielded():
		color = core.ColorBlue
	case p.Dashing():
		color = core.ColorCyan
	}

	x0, y0, x1, y1 := v.cells(p.Bounds())
	if p.Sliding() {
		dst.FillRect(x0, y0, x1-x0+1, y1-y0+1, PlayerDuck, color)
		return
	}
	dst.FillRect(x0, y0, x1-x0+1, y1-y0+1, PlayerBody, color)
	dst.SetColored((x0+x1)/2, y0, PlayerHead, color)
}

func (g *Game) drawHUD(dst *core.Screen) {
	s := g.tracker.Snapshot()
	left := fmt.Sprintf(" Score: %d  Dist: %dm  Lv %d  Combo %d x%.1f ",
		s.Score, int(s.Distance/10), s.Level, s.Combo, s.Multiplier)
	dst.DrawText(1, 0, left)

	p := &g.player
	var active []string
	if p.Shielded() {
		active = append(active, "SHIELD")
	}
	if p.Magnetized() {
		active = append(active, "MAGNET")
	}
	if p.Boosted() {
		active = append(active, "BOOST")
	}
	if p.CanDoubleJump() {
		active = append(active, "2JUMP")
	}
	if s.Keys > 0 {
		active = append(active, fmt.Sprintf("KEYS %d", s.Keys))
	}
	if len(active) > 0 {
		right := " " + strings.Join(active, " ") + " "
		dst.DrawTextColored(dst.Width()-len(right)-1, 0, right, core.ColorCyan)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w, h := dst.Width(), dst.Height()
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH, ' ', core.ColorDefault)
	dst.DrawBox(boxX, boxY, boxW, boxH)
	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
