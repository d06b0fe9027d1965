package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidTileMap is returned for non-positive grid dimensions or tile size.
var ErrInvalidTileMap = errors.New("tilemap: width, height and tile size must be positive")

// GridPos identifies a cell by its integer coordinates.
type GridPos struct {
	X, Z int
}

// Edge names one boundary of the arena.
type Edge uint8

const (
	EdgeNorth Edge = iota // z = 0
	EdgeSouth             // z = height-1
	EdgeEast              // x = width-1
	EdgeWest              // x = 0
)

func (e Edge) String() string {
	switch e {
	case EdgeNorth:
		return "NORTH"
	case EdgeSouth:
		return "SOUTH"
	case EdgeEast:
		return "EAST"
	case EdgeWest:
		return "WEST"
	}
	return fmt.Sprintf("Edge(%d)", uint8(e))
}

// Obstacle is a static box filling one cell.
type Obstacle struct {
	Cell   GridPos
	Center r3.Vec
	Size   r3.Vec
}

// Wall is one tile-length segment of the boundary wall.
type Wall struct {
	Cell      GridPos
	Edge      Edge
	Center    r3.Vec
	Length    float64
	Height    float64
	Thickness float64
	Rotated   bool // runs along z instead of x
}

// OccupancyGrid is what the navmesh builder needs from the arena.
type OccupancyGrid interface {
	Width() int
	Height() int
	TileSize() float64
	IsOccupied(gx, gz int) bool
	GridToWorld(gx, gz int) (x, z float64)
}

// TileMap is the arena occupancy model: a width x height grid of square
// tiles centered on the world origin. Occupancy is only ever added.
type TileMap struct {
	width    int
	height   int
	tileSize float64

	occupied  map[GridPos]struct{}
	obstacles []Obstacle
	walls     []Wall

	log *slog.Logger
}

// NewTileMap creates an empty arena grid.
func NewTileMap(width, height int, tileSize float64, logger *slog.Logger) (*TileMap, error) {
	if width <= 0 || height <= 0 || tileSize <= 0 || math.IsNaN(tileSize) || math.IsInf(tileSize, 0) {
		return nil, fmt.Errorf("%w: got %dx%d, tile size %v", ErrInvalidTileMap, width, height, tileSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TileMap{
		width:    width,
		height:   height,
		tileSize: tileSize,
		occupied: make(map[GridPos]struct{}),
		log:      logger,
	}, nil
}

// Width returns the number of cells along x.
func (t *TileMap) Width() int { return t.width }

// Height returns the number of cells along z.
func (t *TileMap) Height() int { return t.height }

// TileSize returns the world size of one cell.
func (t *TileMap) TileSize() float64 { return t.tileSize }

// HalfExtents returns half the arena size along x and z.
func (t *TileMap) HalfExtents() (float64, float64) {
	return float64(t.width) * t.tileSize / 2, float64(t.height) * t.tileSize / 2
}

// GridToWorld converts cell coordinates to the world position of the cell center.
func (t *TileMap) GridToWorld(gx, gz int) (x, z float64) {
	x = (float64(gx) - float64(t.width)/2 + 0.5) * t.tileSize
	z = (float64(gz) - float64(t.height)/2 + 0.5) * t.tileSize
	return
}

// WorldToGrid converts a world position to the cell containing it.
// The result is not clamped; use InBounds before indexing.
func (t *TileMap) WorldToGrid(x, z float64) (gx, gz int) {
	gx = int(math.Floor((x + float64(t.width)*t.tileSize/2) / t.tileSize))
	gz = int(math.Floor((z + float64(t.height)*t.tileSize/2) / t.tileSize))
	return
}

// InBounds reports whether (gx, gz) is a cell of the grid.
func (t *TileMap) InBounds(gx, gz int) bool {
	return gx >= 0 && gx < t.width && gz >= 0 && gz < t.height
}

// IsOccupied reports whether (gx, gz) was marked occupied. Cells outside the
// grid are never marked, so callers doing neighbor checks must bounds-check.
func (t *TileMap) IsOccupied(gx, gz int) bool {
	_, ok := t.occupied[GridPos{X: gx, Z: gz}]
	return ok
}

// MarkOccupied records (gx, gz) as blocked and reports whether the cell is
// in range. Cells outside the grid are ignored. Marking twice is harmless.
func (t *TileMap) MarkOccupied(gx, gz int) bool {
	if !t.InBounds(gx, gz) {
		return false
	}
	t.occupied[GridPos{X: gx, Z: gz}] = struct{}{}
	return true
}

// OccupiedCount returns the number of occupied cells.
func (t *TileMap) OccupiedCount() int {
	return len(t.occupied)
}

// PlaceObstacles puts a box of the given height on each cell and marks the
// cell occupied. Cells outside the grid are logged and skipped. Returns the
// number of obstacles placed.
func (t *TileMap) PlaceObstacles(cells []GridPos, height float64) int {
	placed := 0
	for _, c := range cells {
		if !t.InBounds(c.X, c.Z) {
			t.log.Warn("obstacle outside arena, skipped", "x", c.X, "z", c.Z)
			continue
		}
		if t.IsOccupied(c.X, c.Z) {
			continue
		}
		x, z := t.GridToWorld(c.X, c.Z)
		t.obstacles = append(t.obstacles, Obstacle{
			Cell:   c,
			Center: r3.Vec{X: x, Y: height / 2, Z: z},
			Size:   r3.Vec{X: t.tileSize, Y: height, Z: t.tileSize},
		})
		t.MarkOccupied(c.X, c.Z)
		placed++
	}
	return placed
}

// PlaceWalls lines all four edges with one wall per boundary tile.
// Walls do not mark occupancy. Any previous walls are replaced.
func (t *TileMap) PlaceWalls(height, thickness float64) {
	t.walls = t.walls[:0]
	for x := 0; x < t.width; x++ {
		t.addWall(GridPos{X: x, Z: 0}, EdgeNorth, height, thickness)
	}
	for x := 0; x < t.width; x++ {
		t.addWall(GridPos{X: x, Z: t.height - 1}, EdgeSouth, height, thickness)
	}
	for z := 0; z < t.height; z++ {
		t.addWall(GridPos{X: t.width - 1, Z: z}, EdgeEast, height, thickness)
	}
	for z := 0; z < t.height; z++ {
		t.addWall(GridPos{X: 0, Z: z}, EdgeWest, height, thickness)
	}
	t.log.Debug("walls placed", "count", len(t.walls))
}

func (t *TileMap) addWall(cell GridPos, edge Edge, height, thickness float64) {
	cx, cz := t.GridToWorld(cell.X, cell.Z)
	half := t.tileSize / 2
	w := Wall{Cell: cell, Edge: edge, Length: t.tileSize, Height: height, Thickness: thickness}
	switch edge {
	case EdgeNorth:
		w.Center = r3.Vec{X: cx, Y: height / 2, Z: cz - half}
	case EdgeSouth:
		w.Center = r3.Vec{X: cx, Y: height / 2, Z: cz + half}
	case EdgeEast:
		w.Center = r3.Vec{X: cx + half, Y: height / 2, Z: cz}
		w.Rotated = true
	case EdgeWest:
		w.Center = r3.Vec{X: cx - half, Y: height / 2, Z: cz}
		w.Rotated = true
	}
	t.walls = append(t.walls, w)
}

// Obstacles returns the placed obstacles.
func (t *TileMap) Obstacles() []Obstacle {
	return t.obstacles
}

// Walls returns the placed walls.
func (t *TileMap) Walls() []Wall {
	return t.walls
}

// ObstacleAt returns the obstacle on the given cell.
func (t *TileMap) ObstacleAt(gx, gz int) (Obstacle, bool) {
	for _, o := range t.obstacles {
		if o.Cell.X == gx && o.Cell.Z == gz {
			return o, true
		}
	}
	return Obstacle{}, false
}

// WallAt returns the wall on the given cell and edge.
func (t *TileMap) WallAt(gx, gz int, edge Edge) (Wall, bool) {
	for _, w := range t.walls {
		if w.Cell.X == gx && w.Cell.Z == gz && w.Edge == edge {
			return w, true
		}
	}
	return Wall{}, false
}

// FreeCells returns every unoccupied cell in x-major order.
func (t *TileMap) FreeCells() []GridPos {
	cells := make([]GridPos, 0, max(0, t.width*t.height-len(t.occupied)))
	for x := 0; x < t.width; x++ {
		for z := 0; z < t.height; z++ {
			if !t.IsOccupied(x, z) {
				cells = append(cells, GridPos{X: x, Z: z})
			}
		}
	}
	return cells
}
