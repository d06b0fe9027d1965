package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/systems"
)

// SpawnCells returns the player spawn cell followed by each enemy's.
func SpawnCells(cfg *config.Config) []systems.GridPos {
	a := cfg.Agents
	cells := []systems.GridPos{{X: a.Player.Spawn.X, Z: a.Player.Spawn.Z}}
	for _, e := range a.Enemies {
		cells = append(cells, systems.GridPos{X: e.Spawn.X, Z: e.Spawn.Z})
	}
	return cells
}

// BuildArena creates the tile map, places configured and generated
// obstacles, then the boundary walls. A zero generator seed uses runSeed,
// so the same config and run seed always give the same arena.
func BuildArena(cfg *config.Config, runSeed int64, logger *slog.Logger) (*systems.TileMap, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmc := cfg.TileMap
	tm, err := systems.NewTileMap(tmc.Width, tmc.Height, tmc.TileSize, logger)
	if err != nil {
		return nil, fmt.Errorf("creating tile map: %w", err)
	}

	spawns := SpawnCells(cfg)
	cells := make([]systems.GridPos, 0, len(tmc.Obstacles))
	for _, o := range tmc.Obstacles {
		cells = append(cells, systems.GridPos{X: o.X, Z: o.Z})
	}
	if gen := cfg.Generator; gen.Enabled {
		seed := gen.Seed
		if seed == 0 {
			seed = runSeed
		}
		generated := systems.GenerateObstacleCells(tmc.Width, tmc.Height, systems.MapGenParams{
			Seed:        seed,
			Scale:       gen.Scale,
			Threshold:   gen.Threshold,
			KeepClear:   spawns,
			ClearRadius: gen.ClearRadius,
		})
		logger.Info("obstacles generated", "count", len(generated), "seed", seed)
		cells = append(cells, generated...)
	}

	tm.PlaceObstacles(cells, tmc.ObstacleHeight)
	tm.PlaceWalls(tmc.ObstacleHeight, tmc.WallThickness)
	for _, c := range spawns {
		if tm.IsOccupied(c.X, c.Z) {
			logger.Warn("spawn cell is occupied", "x", c.X, "z", c.Z)
		}
	}
	return tm, nil
}
