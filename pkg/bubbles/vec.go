package bubbles

import "math"

// Vec is a 2D vector in canvas-local coordinates.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec           { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec           { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec     { return Vec{v.X * s, v.Y * s} }
func (v Vec) Len() float64            { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64      { return math.Hypot(o.X-v.X, o.Y-v.Y) }
func (v Vec) finite() bool            { return isFinite(v.X) && isFinite(v.Y) }
func isFinite(f float64) bool         { return !math.IsNaN(f) && !math.IsInf(f, 0) }
func clamp(v, lo, hi float64) float64 { return max(lo, min(hi, v)) }
