package viz

import (
	"math"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
)

const (
	sceneCols = 36
	sceneRows = 18

	// gauge sweep for the velocity demo, degrees either side of straight up
	gaugeSweep = 135.0
)

// Scene draws a demo's plant on a canvas and maps canvas dots back to
// plant values for mouse dragging. Angles are display units: degrees for
// the arm and position demos, the demo's unit for the velocity gauge.
type Scene struct {
	Demo   experiment.Demo
	Canvas *Canvas
}

func NewScene(demo experiment.Demo) *Scene {
	return &Scene{Demo: demo, Canvas: NewCanvas(sceneCols, sceneRows)}
}

func (s *Scene) center() (cx, cy, r int) {
	w, h := s.Canvas.DotsWide(), s.Canvas.DotsHigh()
	cx, cy = w/2, h/2
	r = min(w, h)/2 - 4
	return cx, cy, r
}

// screenAngle converts a display value to a clockwise angle from straight
// up, in radians.
func (s *Scene) screenAngle(v float64) float64 {
	switch s.Demo.Name {
	case config.DemoArm:
		// the arm hangs down at zero and positive angles swing right
		return (180 - v) * math.Pi / 180
	case config.DemoVelocity:
		span := s.Demo.Max - s.Demo.Min
		if span == 0 {
			return 0
		}
		frac := math.Max(0, math.Min(1, (v-s.Demo.Min)/span))
		return (-gaugeSweep + 2*gaugeSweep*frac) * math.Pi / 180
	default:
		return v * math.Pi / 180
	}
}

func (s *Scene) point(angle float64, radius int) (int, int) {
	cx, cy, _ := s.center()
	x := cx + int(math.Round(float64(radius)*math.Sin(angle)))
	y := cy - int(math.Round(float64(radius)*math.Cos(angle)))
	return x, y
}

// Draw renders the plant at value with a goal marker, both display units.
func (s *Scene) Draw(value, goal float64) {
	c := s.Canvas
	c.Clear()
	cx, cy, r := s.center()

	switch s.Demo.Name {
	case config.DemoVelocity:
		for a := -gaugeSweep; a <= gaugeSweep; a += 3 {
			x, y := s.point(a*math.Pi/180, r)
			c.Set(x, y)
		}
	default:
		c.DrawCircle(cx, cy, r)
	}

	// goal tick just outside the rim
	ga := s.screenAngle(goal)
	gx0, gy0 := s.point(ga, r-2)
	gx1, gy1 := s.point(ga, r+3)
	c.DrawLine(gx0, gy0, gx1, gy1)

	va := s.screenAngle(value)
	switch s.Demo.Name {
	case config.DemoArm:
		bx, by := s.point(va, r-4)
		c.DrawLine(cx, cy, bx, by)
		c.DrawCircle(bx, by, 2)
	default:
		nx, ny := s.point(va, r-3)
		c.DrawLine(cx, cy, nx, ny)
	}
	c.DrawCircle(cx, cy, 1)
}

// ValueAt returns the display value pointed at by dot (x, y). The second
// result is false at the pivot, where no direction is defined.
func (s *Scene) ValueAt(x, y int) (float64, bool) {
	cx, cy, _ := s.center()
	dx, dy := float64(x-cx), float64(cy-y)
	if dx == 0 && dy == 0 {
		return 0, false
	}
	deg := math.Atan2(dx, dy) * 180 / math.Pi

	switch s.Demo.Name {
	case config.DemoArm:
		theta := 180 - deg
		if theta > 180 {
			theta -= 360
		}
		return theta, true
	case config.DemoVelocity:
		frac := (math.Max(-gaugeSweep, math.Min(gaugeSweep, deg)) + gaugeSweep) / (2 * gaugeSweep)
		return s.Demo.Min + frac*(s.Demo.Max-s.Demo.Min), true
	default:
		return deg, true
	}
}

// CellToDot maps a terminal cell inside the canvas to the dot at its
// center.
func CellToDot(col, row int) (int, int) {
	return col*2 + 1, row*4 + 2
}
