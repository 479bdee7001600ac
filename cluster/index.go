package cluster

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// GridCellIndex names one cell of one level. The same row and column at two
// different levels are two different cells.
type GridCellIndex struct {
	Level int
	Row   int
	Col   int
}

func (i GridCellIndex) String() string {
	return fmt.Sprintf("L%d[%d,%d]", i.Level, i.Row, i.Col)
}

// Size is a cell size in projected map units.
type Size struct {
	Width  float64
	Height float64
}

// indexForPoint buckets a projected point. Rows follow y, columns follow x.
func indexForPoint(level int, size Size, p orb.Point) GridCellIndex {
	return GridCellIndex{
		Level: level,
		Row:   int(math.Floor(p[1] / size.Height)),
		Col:   int(math.Floor(p[0] / size.Width)),
	}
}

// cellBound is the projected extent covered by a cell.
func cellBound(index GridCellIndex, size Size) orb.Bound {
	return orb.Bound{
		Min: orb.Point{float64(index.Col) * size.Width, float64(index.Row) * size.Height},
		Max: orb.Point{float64(index.Col+1) * size.Width, float64(index.Row+1) * size.Height},
	}
}
