// Package layout reproduces the handful of flex-box rules the ticket design
// relies on, working from measured text sizes instead of a layout engine.
//
// All values are in design units (pixels at scale 1). Sizes must come from
// the same faces that later draw the text, or columns drift apart.
package layout

import "math"

type Size struct {
	W, H float64
}

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Overlaps reports whether r and o share any interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// JustifyBetween places groups of the given heights from top down inside
// available, putting the first at the top, the last at the bottom and
// distributing the remaining space evenly between them. The gap never drops
// below minGap, so overflowing content pushes the last group past the end
// instead of overlapping. It returns each group's top and the gap used.
func JustifyBetween(top, available float64, heights []float64, minGap float64) ([]float64, float64) {
	ys := make([]float64, len(heights))
	if len(heights) == 0 {
		return ys, 0
	}
	var sum float64
	for _, h := range heights {
		sum += h
	}
	gap := minGap
	if n := len(heights) - 1; n > 0 {
		gap = math.Max(math.Floor((available-sum)/float64(n)), minGap)
	}
	y := top
	for i, h := range heights {
		ys[i] = y
		y += h + gap
	}
	return ys, gap
}
