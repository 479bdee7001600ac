package cluster

import "math"

// Web Mercator tile pyramid constants. Level 0 is a single tile covering the
// whole world.
const (
	Resolution0 = 156543.03392800014
	Scale0      = 591657527.591555

	// MinLevel and MaxLevel bound the levels an index maintains.
	MinLevel  = 0
	MaxLevel  = 19
	NumLevels = MaxLevel - MinLevel + 1
)

// LevelOfDetail is one rung of the tile pyramid.
type LevelOfDetail struct {
	Level      int
	Resolution float64
	Scale      float64
}

// LODForLevel returns the Web Mercator level of detail for level.
func LODForLevel(level int) LevelOfDetail {
	f := math.Pow(2, float64(level))
	return LevelOfDetail{
		Level:      level,
		Resolution: Resolution0 / f,
		Scale:      Scale0 / f,
	}
}

// WebMercatorLODs returns levels 0..levels inclusive.
func WebMercatorLODs(levels int) []LevelOfDetail {
	lods := make([]LevelOfDetail, 0, levels+1)
	for i := 0; i <= levels; i++ {
		lods = append(lods, LODForLevel(i))
	}
	return lods
}

// CellSizeForLOD converts a base cell size (map units per unit of scale) into
// the cell edge length used at lod. Cells are never smaller than one map unit.
func CellSizeForLOD(base float64, lod LevelOfDetail) float64 {
	size := math.Floor(base * lod.Scale)
	if !(size >= 1) {
		return 1
	}
	return size
}
