package layout

import (
	"math"
	"sort"
)

// Column is a label stacked above a value.
type Column struct {
	Label    Size
	Value    Size
	LabelGap float64
}

// Width is the wider of label and value.
func (c Column) Width() float64 { return math.Max(c.Label.W, c.Value.W) }

// ContentHeight is label, gap and value stacked.
func (c Column) ContentHeight() float64 { return c.Label.H + c.LabelGap + c.Value.H }

// Row lays out columns left to right, each pair joined by
// Gap + separator + Gap, inside optional padding.
type Row struct {
	Columns    []Column
	Gap        float64
	SeparatorW float64
	SeparatorH float64
	PadX, PadY float64
	// MinWidth is the smallest outer width. Extra width goes to the gaps,
	// never to the columns.
	MinWidth float64
}

type PlacedColumn struct {
	Bounds Rect
	Label  Point
	Value  Point
}

type RowLayout struct {
	Bounds     Rect
	Columns    []PlacedColumn
	Separators []Rect
	// Gap is the gap actually used after MinWidth stretching.
	Gap float64
	// CenterY is the line columns and separators are centred on.
	CenterY float64
}

// NaturalWidth is the outer width before MinWidth stretching.
func (r Row) NaturalWidth() float64 { return r.naturalWidth(r.Gap) }

func (r Row) naturalWidth(gap float64) float64 {
	w := 2 * r.PadX
	for i, c := range r.Columns {
		if i > 0 {
			w += 2*gap + r.SeparatorW
		}
		w += c.Width()
	}
	return w
}

// Height is the padded height of the row.
func (r Row) Height() float64 {
	return 2*r.PadY + r.innerHeight()
}

func (r Row) innerHeight() float64 {
	h := r.SeparatorH
	for _, c := range r.Columns {
		h = math.Max(h, c.ContentHeight())
	}
	return h
}

// Layout positions the row with its outer top-left corner at origin.
//
// Labels of all columns share one top line. A value shorter than the tallest
// value is recentred against it, so values read as one baseline.
func (r Row) Layout(origin Point) RowLayout {
	gap := r.Gap
	internalGaps := 2 * (len(r.Columns) - 1)
	if w := r.naturalWidth(gap); w < r.MinWidth && internalGaps > 0 {
		gap += (r.MinWidth - w) / float64(internalGaps)
	}

	inner := r.innerHeight()
	out := RowLayout{
		Bounds: Rect{X: origin.X, Y: origin.Y, W: r.naturalWidth(gap), H: 2*r.PadY + inner},
		Gap:    gap,
	}
	out.CenterY = origin.Y + r.PadY + math.Floor(inner/2)

	var tallest Column
	for _, c := range r.Columns {
		if c.ContentHeight() > tallest.ContentHeight() {
			tallest = c
		}
	}
	var maxValueH float64
	for _, c := range r.Columns {
		maxValueH = math.Max(maxValueH, c.Value.H)
	}
	top := out.CenterY - math.Floor(tallest.ContentHeight()/2)
	sepTop := out.CenterY - math.Floor(r.SeparatorH/2)

	x := origin.X + r.PadX
	for i, c := range r.Columns {
		if i > 0 {
			sx := x + gap
			out.Separators = append(out.Separators, Rect{
				X: math.Round(sx), Y: sepTop, W: r.SeparatorW, H: r.SeparatorH,
			})
			x = sx + r.SeparatorW + gap
		}
		valueY := top + c.Label.H + c.LabelGap + math.Floor((maxValueH-c.Value.H)/2)
		out.Columns = append(out.Columns, PlacedColumn{
			Bounds: Rect{X: x, Y: top, W: c.Width(), H: valueY + c.Value.H - top},
			Label:  Point{X: x, Y: top},
			Value:  Point{X: x, Y: valueY},
		})
		x += c.Width()
	}
	return out
}

// FairShare splits total between widths, capping each at its own value.
// Widths that fit under the common level keep their size; the rest share
// what is left equally.
func FairShare(widths []float64, total float64) []float64 {
	out := make([]float64, len(widths))
	idx := make([]int, len(widths))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return widths[idx[a]] < widths[idx[b]] })
	left := math.Max(total, 0)
	for n, i := range idx {
		level := left / float64(len(idx)-n)
		out[i] = math.Min(widths[i], level)
		left -= out[i]
	}
	return out
}
