package bubbles

import (
	"math"
	"math/rand/v2"
)

// placeRandom samples a position per radius inside [r, dim-r] and retries
// while the candidate is closer than MinSeparation to a placed item. After
// PlacementAttempts misses it keeps the candidate farthest from its nearest
// neighbour.
func placeRandom(rng *rand.Rand, w, h float64, radii []float64, p Params) []Vec {
	placed := make([]Vec, 0, len(radii))
	for _, r := range radii {
		var best Vec
		bestDist := -1.0
		for range p.PlacementAttempts {
			c := Vec{randIn(rng, r, w-r), randIn(rng, r, h-r)}
			d := nearest(c, placed)
			if d > bestDist {
				best, bestDist = c, d
			}
			if d >= p.MinSeparation {
				break
			}
		}
		placed = append(placed, best)
	}
	return placed
}

// placeGrid returns n jittered cell centers on a cols×rows grid with
// cols = ceil(sqrt(n)), rows = ceil(n/cols) and cell size dim/(cells+1).
func placeGrid(rng *rand.Rand, w, h float64, n int, jitter float64) []Vec {
	if n == 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	cw := w / float64(cols+1)
	ch := h / float64(rows+1)
	// Keep jitter inside the cell so the grid never produces overlap.
	jx := min(jitter, cw/4)
	jy := min(jitter, ch/4)

	out := make([]Vec, n)
	for i := range n {
		col, row := i%cols, i/cols
		out[i] = Vec{
			X: cw*float64(col+1) + jx*(2*rng.Float64()-1),
			Y: ch*float64(row+1) + jy*(2*rng.Float64()-1),
		}
	}
	return out
}

// closestTo returns the index of the point nearest to target.
func closestTo(points []Vec, target Vec) int {
	best, bestDist := 0, math.Inf(1)
	for i, p := range points {
		if d := p.Dist(target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func randIn(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return (lo + hi) / 2
	}
	return lo + rng.Float64()*(hi-lo)
}

func nearest(c Vec, placed []Vec) float64 {
	d := math.Inf(1)
	for _, p := range placed {
		d = min(d, c.Dist(p))
	}
	return d
}
