// Package window runs the demo in an ebiten window: WASD moves the
// actor, the mouse aims the attention cone and F fires a radar pulse.
package window

import (
	"context"
	"errors"
	"image"
	"image/color"

	"github.com/cwbudde/radarping/internal/demo"
	"github.com/cwbudde/radarping/internal/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const actorRadius = 20

var (
	actorColor = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	focusColor = color.RGBA{R: 140, G: 10, B: 60, A: 255}
)

// Game adapts a demo.Session to ebiten.Game.
type Game struct {
	ctx     context.Context
	session *demo.Session
	width   int
	height  int
	tps     int

	frame demo.Frame
	white *ebiten.Image
}

// NewGame returns a game drawing a width×height field at tps ticks per
// second. Cancelling ctx ends the game at the next tick.
func NewGame(ctx context.Context, session *demo.Session, width, height, tps int) *Game {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Game{
		ctx:     ctx,
		session: session,
		width:   width,
		height:  height,
		tps:     tps,
		white:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run(title string) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.tps)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update samples input and advances the session by one tick.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	in := demo.Input{
		Pointer: scene.Vec2{X: float64(x), Y: float64(y)},
		Move: scene.Move{
			Up:    ebiten.IsKeyPressed(ebiten.KeyW),
			Down:  ebiten.IsKeyPressed(ebiten.KeyS),
			Left:  ebiten.IsKeyPressed(ebiten.KeyA),
			Right: ebiten.IsKeyPressed(ebiten.KeyD),
		},
		Dt:      1 / float64(ebiten.TPS()),
		Trigger: inpututil.IsKeyJustPressed(ebiten.KeyF),
	}
	g.frame = g.session.Tick(g.ctx, in)
	return nil
}

// Draw renders the cone, the radar ring, the actor and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	f := g.frame

	if vs, is := fan(f.Outline, focusColor); len(is) > 0 {
		screen.DrawTriangles(vs, is, g.white, &ebiten.DrawTrianglesOptions{AntiAlias: true})
	}

	ringAlpha := uint8(f.Radar.Alpha)
	vector.DrawFilledCircle(screen, float32(f.Actor.X), float32(f.Actor.Y), float32(f.Radar.Radius),
		color.RGBA{R: ringAlpha, G: ringAlpha, B: ringAlpha, A: ringAlpha}, true)
	vector.DrawFilledCircle(screen, float32(f.Actor.X), float32(f.Actor.Y), actorRadius, actorColor, true)

	left, fps := f.HUD.Lines()
	for i, line := range left {
		ebitenutil.DebugPrintAt(screen, line, 20, 20+30*i)
	}
	ebitenutil.DebugPrintAt(screen, fps, g.width-170, 20)
	if f.Muted {
		ebitenutil.DebugPrintAt(screen, "audio muted", 20, 20+30*len(left))
	}
}

// Layout keeps the logical field size regardless of the window size.
func (g *Game) Layout(int, int) (int, int) {
	return g.width, g.height
}

// fan converts a triangle-fan outline (center first) into a vertex and
// index list for DrawTriangles.
func fan(outline []scene.Vec2, clr color.RGBA) ([]ebiten.Vertex, []uint16) {
	if len(outline) < 3 {
		return nil, nil
	}
	r := float32(clr.R) / 255
	gr := float32(clr.G) / 255
	b := float32(clr.B) / 255
	a := float32(clr.A) / 255

	vs := make([]ebiten.Vertex, len(outline))
	for i, p := range outline {
		vs[i] = ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: gr,
			ColorB: b,
			ColorA: a,
		}
	}
	is := make([]uint16, 0, 3*(len(outline)-2))
	for i := 1; i+1 < len(outline); i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	return vs, is
}
