package collision

import (
	"math"

	"github.com/san-kum/gaslaw/internal/kinetics"
)

// DefaultRegionLength is the side of a grid cell in pm. It is several
// particle diameters so most particles sit in a single cell.
const DefaultRegionLength = 2000.0

// Grid is a uniform partition of a fixed rectangle. Cell slices are reused
// between ticks and reset to [:0] on Clear.
type Grid struct {
	bounds     kinetics.Bounds
	length     float64
	invLength  float64
	cols, rows int
	cells      [][]*kinetics.Particle
}

// NewGrid covers b with square cells of the given side.
func NewGrid(b kinetics.Bounds, length float64) *Grid {
	kinetics.Assert(length > 0, "region length %g", length)
	cols := int(math.Ceil(b.Width() / length))
	rows := int(math.Ceil(b.Height() / length))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([][]*kinetics.Particle, cols*rows)
	for i := range cells {
		cells[i] = make([]*kinetics.Particle, 0, 16)
	}
	return &Grid{
		bounds:    b,
		length:    length,
		invLength: 1 / length,
		cols:      cols,
		rows:      rows,
		cells:     cells,
	}
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// Clear empties every cell without releasing memory.
func (g *Grid) Clear() {
	for i := range g.cells {
		clear(g.cells[i])
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds p to every cell its bounding box overlaps.
func (g *Grid) Insert(p *kinetics.Particle) {
	c0, r0 := g.cell(p.Left(), p.Bottom())
	c1, r1 := g.cell(p.Right(), p.Top())
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			i := r*g.cols + c
			g.cells[i] = append(g.cells[i], p)
		}
	}
}

// Cell returns the members of the cell at (col, row).
func (g *Grid) Cell(col, row int) []*kinetics.Particle {
	return g.cells[row*g.cols+col]
}

// EachPair calls fn for every unordered pair sharing a cell, cell by cell.
// A pair that shares several cells is visited once per shared cell.
func (g *Grid) EachPair(fn func(a, b *kinetics.Particle)) {
	for _, members := range g.cells {
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				fn(members[i], members[j])
			}
		}
	}
}

// cell clamps a point to the grid and returns its cell coordinates.
func (g *Grid) cell(x, y float64) (col, row int) {
	col = int((x - g.bounds.MinX) * g.invLength)
	row = int((y - g.bounds.MinY) * g.invLength)
	if col < 0 || math.IsNaN(x) {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 || math.IsNaN(y) {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
