package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// MapGenParams controls procedural obstacle placement.
type MapGenParams struct {
	Seed        int64
	Scale       float64   // noise frequency per cell
	Threshold   float64   // normalized noise above this becomes an obstacle
	KeepClear   []GridPos // cells (spawn points) that must stay free
	ClearRadius int       // Chebyshev radius kept free around KeepClear
}

// GenerateObstacleCells picks obstacle cells from thresholded simplex noise.
// Output order is x-major and fully determined by the params.
func GenerateObstacleCells(width, height int, p MapGenParams) []GridPos {
	if width <= 0 || height <= 0 || p.Scale <= 0 {
		return nil
	}
	noise := opensimplex.NewNormalized(p.Seed)

	var cells []GridPos
	for x := 0; x < width; x++ {
		for z := 0; z < height; z++ {
			if nearAny(x, z, p.KeepClear, p.ClearRadius) {
				continue
			}
			if noise.Eval2(float64(x)*p.Scale, float64(z)*p.Scale) > p.Threshold {
				cells = append(cells, GridPos{X: x, Z: z})
			}
		}
	}
	return cells
}

func nearAny(x, z int, cells []GridPos, radius int) bool {
	for _, c := range cells {
		if abs(c.X-x) <= radius && abs(c.Z-z) <= radius {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
