package systems

import (
	"errors"
	"math"
	"testing"
)

func newTestTileMap(t *testing.T, w, h int, size float64) *TileMap {
	t.Helper()
	tm, err := NewTileMap(w, h, size, nil)
	if err != nil {
		t.Fatalf("NewTileMap error = %v", err)
	}
	return tm
}

func TestNewTileMapRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		size float64
	}{
		{"zero width", 0, 5, 10},
		{"negative height", 5, -1, 10},
		{"zero tile", 5, 5, 0},
		{"nan tile", 5, 5, math.NaN()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTileMap(tc.w, tc.h, tc.size, nil)
			if !errors.Is(err, ErrInvalidTileMap) {
				t.Errorf("error = %v, want ErrInvalidTileMap", err)
			}
		})
	}
}

func TestGridToWorld(t *testing.T) {
	tm := newTestTileMap(t, 5, 5, 10)

	tests := []struct {
		gx, gz int
		x, z   float64
	}{
		{0, 0, -20, -20},
		{2, 2, 0, 0},
		{4, 0, 20, -20},
		{4, 4, 20, 20},
	}
	for _, tc := range tests {
		x, z := tm.GridToWorld(tc.gx, tc.gz)
		if math.Abs(x-tc.x) > 1e-9 || math.Abs(z-tc.z) > 1e-9 {
			t.Errorf("GridToWorld(%d,%d) = (%v,%v), want (%v,%v)", tc.gx, tc.gz, x, z, tc.x, tc.z)
		}
	}
}

func TestWorldToGridInverse(t *testing.T) {
	tm := newTestTileMap(t, 6, 4, 2.5)
	for gx := 0; gx < tm.Width(); gx++ {
		for gz := 0; gz < tm.Height(); gz++ {
			x, z := tm.GridToWorld(gx, gz)
			bx, bz := tm.WorldToGrid(x, z)
			if bx != gx || bz != gz {
				t.Errorf("WorldToGrid(GridToWorld(%d,%d)) = (%d,%d)", gx, gz, bx, bz)
			}
		}
	}

	// Floors rather than truncates on the negative side
	gx, gz := tm.WorldToGrid(-100, -100)
	if gx >= 0 || gz >= 0 {
		t.Errorf("WorldToGrid far outside = (%d,%d), want negative cells", gx, gz)
	}
}

func TestOccupancy(t *testing.T) {
	tm := newTestTileMap(t, 5, 5, 10)
	if tm.IsOccupied(1, 1) {
		t.Fatal("fresh grid should have no occupied cells")
	}

	tm.MarkOccupied(1, 1)
	tm.MarkOccupied(1, 1)
	if !tm.IsOccupied(1, 1) {
		t.Error("marked cell should be occupied")
	}
	if tm.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount = %d, want 1", tm.OccupiedCount())
	}
	// Out-of-range cells are not implicitly occupied
	if tm.IsOccupied(-1, 0) || tm.IsOccupied(5, 5) {
		t.Error("out-of-range cells should report not occupied")
	}
}

func TestPlaceObstacles(t *testing.T) {
	tm := newTestTileMap(t, 5, 5, 10)
	placed := tm.PlaceObstacles([]GridPos{{2, 2}, {9, 9}, {2, 2}, {0, 4}}, 6)
	if placed != 2 {
		t.Errorf("placed = %d, want 2", placed)
	}
	if !tm.IsOccupied(2, 2) || !tm.IsOccupied(0, 4) {
		t.Error("obstacle cells should be occupied")
	}

	o, ok := tm.ObstacleAt(2, 2)
	if !ok {
		t.Fatal("ObstacleAt(2,2) not found")
	}
	if o.Center.X != 0 || o.Center.Z != 0 || o.Center.Y != 3 {
		t.Errorf("obstacle center = %v, want (0,3,0)", o.Center)
	}
	if _, ok := tm.ObstacleAt(3, 3); ok {
		t.Error("ObstacleAt(3,3) should not exist")
	}
}

func TestPlaceWalls(t *testing.T) {
	tm := newTestTileMap(t, 5, 3, 10)
	tm.PlaceWalls(6, 2)

	if got, want := len(tm.Walls()), 2*5+2*3; got != want {
		t.Errorf("wall count = %d, want %d", got, want)
	}
	if tm.OccupiedCount() != 0 {
		t.Error("walls must not mark occupancy")
	}

	w, ok := tm.WallAt(0, 0, EdgeNorth)
	if !ok {
		t.Fatal("north wall at (0,0) missing")
	}
	if math.Abs(w.Center.Z-(-15)) > 1e-9 || math.Abs(w.Center.X-(-20)) > 1e-9 {
		t.Errorf("north wall center = %v, want x=-20 z=-15", w.Center)
	}
	w, ok = tm.WallAt(4, 1, EdgeEast)
	if !ok {
		t.Fatal("east wall at (4,1) missing")
	}
	if !w.Rotated || math.Abs(w.Center.X-25) > 1e-9 {
		t.Errorf("east wall = %+v, want rotated at x=25", w)
	}
	if _, ok := tm.WallAt(2, 1, EdgeEast); ok {
		t.Error("interior cell should have no wall")
	}

	// Placing again replaces rather than duplicates
	tm.PlaceWalls(6, 2)
	if len(tm.Walls()) != 16 {
		t.Errorf("wall count after replace = %d, want 16", len(tm.Walls()))
	}
}

func TestFreeCells(t *testing.T) {
	tm := newTestTileMap(t, 3, 3, 1)
	tm.MarkOccupied(1, 1)
	free := tm.FreeCells()
	if len(free) != 8 {
		t.Errorf("free cells = %d, want 8", len(free))
	}
	for _, c := range free {
		if c.X == 1 && c.Z == 1 {
			t.Error("occupied cell listed as free")
		}
	}
}

func TestMarkOccupiedOutOfRange(t *testing.T) {
	tm := newTestTileMap(t, 2, 2, 1)
	tests := []GridPos{{X: -1, Z: 0}, {X: 2, Z: 0}, {X: 0, Z: 2}, {X: 9, Z: 9}, {X: -3, Z: -3}, {X: 5, Z: -1}}
	for _, c := range tests {
		if tm.MarkOccupied(c.X, c.Z) {
			t.Errorf("MarkOccupied(%d, %d) = true, want false", c.X, c.Z)
		}
	}
	if !tm.MarkOccupied(0, 0) {
		t.Error("MarkOccupied(0, 0) = false, want true")
	}
	if tm.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount = %d, want 1", tm.OccupiedCount())
	}
	if free := tm.FreeCells(); len(free) != 3 {
		t.Errorf("free cells = %d, want 3", len(free))
	}
}

func TestEdgeString(t *testing.T) {
	if EdgeWest.String() != "WEST" {
		t.Errorf("EdgeWest.String() = %q", EdgeWest.String())
	}
}
