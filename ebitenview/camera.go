package ebitenview

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// defaultSwingPeriod is the time in seconds for one sweep of a yaw swing.
const defaultSwingPeriod = 4

// Camera is an orthographic view of a Z-up world. Yaw turns the view about
// the world Z axis and Pitch tilts it toward looking down, both in degrees.
type Camera struct {
	Yaw, Pitch float64
	// Scale is the number of pixels per world unit.
	Scale float64
	// Target is the world point drawn at the center of the viewport.
	Target mgl64.Vec3
	// Width and Height are the viewport size in pixels.
	Width, Height float64

	swing      *gween.Tween
	swingFrom  float32
	swingTo    float32
	swingSweep float32
}

func newCamera(cfg Config) *Camera {
	c := &Camera{
		Yaw:    cfg.Yaw,
		Pitch:  cfg.Pitch,
		Scale:  cfg.Scale,
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	}
	if cfg.Swing != 0 {
		c.SwingYaw(cfg.Swing, defaultSwingPeriod)
	}
	return c
}

// SwingYaw rocks the yaw back and forth by amplitude degrees around its
// current value, taking period seconds per sweep. An amplitude of zero stops
// the swing.
func (c *Camera) SwingYaw(amplitude, period float64) {
	if amplitude == 0 || period <= 0 {
		c.swing = nil
		return
	}
	c.swingFrom = float32(c.Yaw - amplitude)
	c.swingTo = float32(c.Yaw + amplitude)
	c.swingSweep = float32(period)
	c.swing = gween.New(float32(c.Yaw), c.swingTo, c.swingSweep/2, ease.InOutSine)
}

// update advances the yaw swing by dt seconds.
func (c *Camera) update(dt float32) {
	if c.swing == nil {
		return
	}
	val, finished := c.swing.Update(dt)
	c.Yaw = float64(val)
	if finished {
		// Ping-pong between the two extremes.
		from, to := c.swingTo, c.swingFrom
		if float32(c.Yaw) <= c.swingFrom {
			from, to = c.swingFrom, c.swingTo
		}
		c.swing = gween.New(from, to, c.swingSweep, ease.InOutSine)
	}
}

// view returns the world-to-camera rotation. Camera X is screen right and
// camera Z is screen up.
func (c *Camera) view() mgl64.Mat4 {
	pitch := mgl64.HomogRotate3DX(mgl64.DegToRad(c.Pitch))
	yaw := mgl64.HomogRotate3DZ(mgl64.DegToRad(-c.Yaw))
	return pitch.Mul4(yaw).Mul4(mgl64.Translate3D(-c.Target[0], -c.Target[1], -c.Target[2]))
}

// Project maps a world point to screen pixels.
func (c *Camera) Project(p mgl64.Vec3) (x, y float64) {
	return c.project(c.view(), p)
}

func (c *Camera) project(view mgl64.Mat4, p mgl64.Vec3) (x, y float64) {
	v := mgl64.TransformCoordinate(p, view)
	return c.Width/2 + v[0]*c.Scale, c.Height/2 - v[2]*c.Scale
}
