// Package ebitenview previews a scene.Stage in an ebiten window.
//
// A Viewer is both the ebiten.Game that draws the stage as a wireframe and
// the skel.Scheduler that drives skeletons, so animation ticks run on the
// game loop with no locking:
//
//	v := ebitenview.New(stage, ebitenview.Config{Title: "arm", Swing: 30})
//	sk, _ := skel.NewSkeleton("arm", stage, v)
//	...
//	_ = sk.Animate(0)
//	log.Fatal(ebitenview.Run(v))
package ebitenview

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/skel"
	"github.com/phanxgames/skel/clock"
	"github.com/phanxgames/skel/scene"
)

const (
	defaultTitle  = "skel"
	defaultWidth  = 960
	defaultHeight = 720
	defaultScale  = 40
	defaultPitch  = 20
)

var (
	backgroundColor = color.RGBA{R: 30, G: 30, B: 40, A: 255}
	edgeColor       = color.RGBA{R: 80, G: 180, B: 255, A: 255}
)

// Config holds the window and camera settings.
type Config struct {
	Title         string
	Width, Height int
	// Scale is pixels per world unit.
	Scale float64
	// Yaw and Pitch orient the camera in degrees. A zero Pitch gets the
	// default tilt; use a tiny value for a straight side view.
	Yaw, Pitch float64
	// Swing rocks the camera yaw by this many degrees. Zero holds it still.
	Swing float64
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Scale <= 0 {
		c.Scale = defaultScale
	}
	if c.Pitch == 0 {
		c.Pitch = defaultPitch
	}
	return c
}

// Line is a projected edge in screen pixels.
type Line struct {
	X0, Y0, X1, Y1 float32
}

// Viewer draws a stage and schedules skeleton timers on the game loop.
type Viewer struct {
	stage  *scene.Stage
	cfg    Config
	camera *Camera
	clock  *clock.Manual

	// tps reports ticks per second; ebiten.TPS outside tests.
	tps func() int

	watched []*skel.Skeleton
	loops   []*loop
	lines   []Line
}

// loop is a skeleton the viewer replays each time it finishes.
type loop struct {
	sk    *skel.Skeleton
	build func() (*skel.Skeleton, error)
}

var (
	_ skel.Scheduler = (*Viewer)(nil)
	_ ebiten.Game    = (*Viewer)(nil)
)

// New creates a viewer for stage.
func New(stage *scene.Stage, cfg Config) *Viewer {
	cfg = cfg.withDefaults()
	return &Viewer{
		stage:  stage,
		cfg:    cfg,
		camera: newCamera(cfg),
		clock:  clock.NewManual(),
		tps:    ebiten.TPS,
	}
}

// Camera returns the viewer's camera.
func (v *Viewer) Camera() *Camera {
	return v.camera
}

// Watch adds a skeleton's clock to the on-screen overlay.
func (v *Viewer) Watch(sk *skel.Skeleton) {
	v.watched = append(v.watched, sk)
}

// Loop builds a skeleton, animates and watches it. Each time the animation
// finishes the viewer removes it from the stage and starts a fresh one from
// build. build must create the skeleton on the viewer's stage with the viewer
// as its scheduler. An aborted animation stays on screen.
func (v *Viewer) Loop(build func() (*skel.Skeleton, error)) error {
	sk, err := animate(build)
	if err != nil {
		return err
	}
	v.loops = append(v.loops, &loop{sk: sk, build: build})
	v.Watch(sk)
	return nil
}

func animate(build func() (*skel.Skeleton, error)) (*skel.Skeleton, error) {
	sk, err := build()
	if err != nil {
		return nil, err
	}
	if err := sk.Animate(0); err != nil {
		return nil, err
	}
	return sk, nil
}

// replay restarts every looped skeleton that finished cleanly.
func (v *Viewer) replay() error {
	for _, l := range v.loops {
		select {
		case <-l.sk.Done():
		default:
			continue
		}
		if l.sk.Err() != nil {
			continue
		}
		if err := v.stage.RemoveInstance(l.sk.Placed()); err != nil {
			return fmt.Errorf("replay %q: %w", l.sk.Name(), err)
		}
		if err := v.stage.RemoveDefinition(l.sk.Group()); err != nil {
			return fmt.Errorf("replay %q: %w", l.sk.Name(), err)
		}
		next, err := animate(l.build)
		if err != nil {
			return fmt.Errorf("replay %q: %w", l.sk.Name(), err)
		}
		for i, w := range v.watched {
			if w == l.sk {
				v.watched[i] = next
			}
		}
		l.sk = next
	}
	return nil
}

// --- skel.Scheduler ---

// StartTimer schedules fn on the game loop. Timers advance by one game tick
// per Update, so an interval shorter than a tick fires several times in one
// frame.
func (v *Viewer) StartTimer(interval time.Duration, fn func()) skel.TimerID {
	return v.clock.StartTimer(interval, fn)
}

// StopTimer cancels a timer started with StartTimer.
func (v *Viewer) StopTimer(id skel.TimerID) {
	v.clock.StopTimer(id)
}

// --- ebiten.Game ---

// Update advances timers and the camera by one tick, restarts finished
// loops and refreshes world transforms.
func (v *Viewer) Update() error {
	tps := v.tps()
	if tps <= 0 {
		tps = 60
	}
	dt := 1.0 / float64(tps)
	v.clock.Advance(time.Duration(dt * float64(time.Second)))
	if err := v.replay(); err != nil {
		return err
	}
	v.camera.update(float32(dt))
	v.stage.Update()
	return nil
}

// Draw renders every visible shape as a wireframe plus a status overlay.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	for _, l := range v.Lines() {
		vector.StrokeLine(screen, l.X0, l.Y0, l.X1, l.Y1, 1, edgeColor, true)
	}
	ebitenutil.DebugPrint(screen, v.Overlay())
}

// Layout implements ebiten.Game with a fixed logical size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

// Lines projects the edges of every visible shape instance using the world
// transforms from the last Update. The returned slice is reused by the next
// call.
func (v *Viewer) Lines() []Line {
	v.lines = v.lines[:0]
	view := v.camera.view()
	v.stage.Walk(func(n *scene.Node) bool {
		if !n.Visible || n.Definition == nil || n.Definition.Shape == nil {
			return true
		}
		for _, e := range n.Definition.Shape.Edges() {
			x0, y0 := v.camera.project(view, n.LocalToWorld(e[0]))
			x1, y1 := v.camera.project(view, n.LocalToWorld(e[1]))
			v.lines = append(v.lines, Line{float32(x0), float32(y0), float32(x1), float32(y1)})
		}
		return true
	})
	return v.lines
}

// Overlay returns the status text drawn in the corner.
func (v *Viewer) Overlay() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.1f  time: %.2fs  yaw: %.0f", ebiten.ActualTPS(), v.clock.Now().Seconds(), v.camera.Yaw)
	for _, sk := range v.watched {
		state := "running"
		select {
		case <-sk.Done():
			state = "done"
			if sk.Err() != nil {
				state = "failed"
			}
		default:
		}
		fmt.Fprintf(&b, "\n%s: %.2f / %.2fs %s", sk.Name(), sk.Clock(), sk.MaxPeriod(), state)
	}
	return b.String()
}

// Run opens a window and runs the viewer until it is closed.
func Run(v *Viewer) error {
	ebiten.SetWindowTitle(v.cfg.Title)
	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	return ebiten.RunGame(v)
}
