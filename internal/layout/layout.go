// Package layout places community bubbles on a scrollable 2D canvas.
//
// Positions depend only on the item index and the fixed Params, never on
// scroll state or selection, so items stay put across redraws.
package layout

import "math"

// Position is the top-left corner of an item on the canvas.
type Position struct {
	Top  float64
	Left float64
}

// Params are the fixed layout inputs. Units are canvas points.
type Params struct {
	ItemSize    float64 // bubble diameter
	CanvasWidth float64
	Columns     int
	StartY      float64 // top padding before the first row
	MaxJitter   float64 // requested per-axis jitter; clamped by JitterBound
}

// cellFactor sizes a grid cell relative to the item.
const cellFactor = 1.2

// Default returns the parameters used by the setup screen.
func Default() Params {
	return Params{
		ItemSize:    120,
		CanvasWidth: 780,
		Columns:     3,
		StartY:      50,
		MaxJitter:   7,
	}
}

func (p Params) columns() int {
	if p.Columns < 1 {
		return 1
	}
	return p.Columns
}

// CellSize is the width and height of one grid cell.
func (p Params) CellSize() float64 {
	return p.ItemSize * cellFactor
}

// cellGap is the clearance between neighbouring items before jitter.
func (p Params) cellGap() float64 {
	return p.CellSize() - p.ItemSize
}

// JitterBound is the largest per-axis jitter actually applied. Two items can
// each move by at most bound*√2 toward each other, so keeping the bound
// under gap/(2√2) leaves positive clearance between any pair.
func (p Params) JitterBound() float64 {
	limit := p.cellGap() / (2 * math.Sqrt2) * 0.95
	j := math.Abs(p.MaxJitter)
	if j > limit {
		return limit
	}
	return j
}

// MinGap is the guaranteed clearance between the edges of any two items.
func (p Params) MinGap() float64 {
	return p.cellGap() - 2*math.Sqrt2*p.JitterBound()
}

// gridWidth includes the half-cell stagger of odd rows.
func (p Params) gridWidth() float64 {
	cols := p.columns()
	w := float64(cols) * p.CellSize()
	if cols > 0 {
		w += p.CellSize() / 2
	}
	return w
}

// PositionFor returns the position of the item at index. Negative indices
// are treated as zero.
func (p Params) PositionFor(index int) Position {
	if index < 0 {
		index = 0
	}
	cols := p.columns()
	cell := p.CellSize()

	row := index / cols
	col := index % cols

	xOffset := float64(row%2) * (cell / 2)
	startX := (p.CanvasWidth - p.gridWidth()) / 2

	bound := p.JitterBound()
	jx := jitter(uint64(index)*2, bound)
	jy := jitter(uint64(index)*2+1, bound)

	return Position{
		Top:  p.StartY + float64(row)*cell + jy,
		Left: startX + float64(col)*cell + xOffset + jx,
	}
}

// CanvasHeight returns the canvas height needed to hold n items, with one
// extra cell of bottom padding.
func (p Params) CanvasHeight(n int) float64 {
	if n <= 0 {
		return p.StartY
	}
	rows := (n + p.columns() - 1) / p.columns()
	return p.StartY + float64(rows+1)*p.CellSize()
}

// jitter maps seed to a value in [-bound, bound].
func jitter(seed uint64, bound float64) float64 {
	if bound == 0 {
		return 0
	}
	u := float64(mix(seed)>>11) / float64(uint64(1)<<53) // [0, 1)
	return (u*2 - 1) * bound
}

// mix is the splitmix64 finalizer: a fixed bijective hash of seed.
func mix(seed uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
