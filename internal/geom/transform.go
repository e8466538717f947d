// Package geom converts between screen space and world (document) space.
package geom

// Point is a position in either screen or world space; the caller knows which.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Transform maps world space to screen space: screen = world*Scale + (X, Y).
// X and Y are the pan offset in screen units. Scale must stay > 0.
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the transform of a page nobody has panned or zoomed yet.
func Identity() Transform { return Transform{Scale: 1} }

// Valid reports whether t can be used for conversion.
func (t Transform) Valid() bool { return t.Scale > 0 }

// ToWorld converts a screen point to world space. t.Scale must be > 0.
func ToWorld(p Point, t Transform) Point {
	return Point{
		X: (p.X - t.X) / t.Scale,
		Y: (p.Y - t.Y) / t.Scale,
	}
}

// ToScreen is the inverse of ToWorld.
func ToScreen(p Point, t Transform) Point {
	return Point{
		X: p.X*t.Scale + t.X,
		Y: p.Y*t.Scale + t.Y,
	}
}

// Pan moves the viewport by a screen-space delta. World geometry is untouched.
func (t Transform) Pan(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// ZoomAt rescales to scale while keeping the world point under the screen
// anchor in place. Clamping scale is the caller's job.
func (t Transform) ZoomAt(anchor Point, scale float64) Transform {
	w := ToWorld(anchor, t)
	return Transform{
		X:     anchor.X - w.X*scale,
		Y:     anchor.Y - w.Y*scale,
		Scale: scale,
	}
}
