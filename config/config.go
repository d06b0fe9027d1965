// Package config provides configuration loading and access for the arena.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all arena configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	TileMap     TileMapConfig     `yaml:"tilemap"`
	Generator   GeneratorConfig   `yaml:"generator"`
	NavMesh     NavMeshConfig     `yaml:"navmesh"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Agents      AgentsConfig      `yaml:"agents"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Controls    ControlsConfig    `yaml:"controls"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CellConfig is a grid cell reference in the config file.
type CellConfig struct {
	X int `yaml:"x"`
	Z int `yaml:"z"`
}

// TileMapConfig describes the arena grid and its static obstacles.
type TileMapConfig struct {
	Width          int          `yaml:"width"`     // cells along x
	Height         int          `yaml:"height"`    // cells along z
	TileSize       float64      `yaml:"tile_size"` // world units per cell
	Obstacles      []CellConfig `yaml:"obstacles"`
	ObstacleHeight float64      `yaml:"obstacle_height"`
	WallThickness  float64      `yaml:"wall_thickness"`
}

// GeneratorConfig controls procedural obstacle placement.
type GeneratorConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Seed        int64   `yaml:"seed"`         // 0 = use the run seed
	Scale       float64 `yaml:"scale"`        // noise frequency per cell
	Threshold   float64 `yaml:"threshold"`    // normalized noise above this becomes an obstacle
	ClearRadius int     `yaml:"clear_radius"` // cells kept free around spawn points
}

// NavMeshConfig holds navmesh generation and debug-draw settings.
type NavMeshConfig struct {
	HoverHeight      float64 `yaml:"hover_height"`
	PointSize        float64 `yaml:"point_size"`
	PointColor       uint32  `yaml:"point_color"`
	LineColor        uint32  `yaml:"line_color"`
	LineWidth        float64 `yaml:"line_width"`
	ConnectionFactor float64 `yaml:"connection_factor"` // visual line threshold, multiple of tile size
}

// PathfindingConfig holds search and path-following parameters.
type PathfindingConfig struct {
	NeighborFactor      float64 `yaml:"neighbor_factor"` // search edge threshold, multiple of tile size
	PathLift            float64 `yaml:"path_lift"`
	PointSize           float64 `yaml:"point_size"`
	PointColor          uint32  `yaml:"point_color"`
	LineColor           uint32  `yaml:"line_color"`
	LineWidth           float64 `yaml:"line_width"`
	RepathTicks         int32   `yaml:"repath_ticks"`
	MaxPathAge          int32   `yaml:"max_path_age"`
	TargetMoveTolerance float64 `yaml:"target_move_tolerance"`
	ArrivalDistance     float64 `yaml:"arrival_distance"`
}

// AgentConfig describes one kind of moving agent.
type AgentConfig struct {
	Spawn  CellConfig `yaml:"spawn"`
	Speed  float64    `yaml:"speed"`  // world units per second
	Radius float64    `yaml:"radius"` // collision radius
}

// AgentsConfig holds the player and enemy definitions.
type AgentsConfig struct {
	Player  AgentConfig   `yaml:"player"`
	Enemies []AgentConfig `yaml:"enemies"`
}

// PhysicsConfig holds physics stepping parameters.
type PhysicsConfig struct {
	DT         float64 `yaml:"dt"`
	Iterations int     `yaml:"iterations"`
}

// ControlsConfig holds the debug overlay toggles.
type ControlsConfig struct {
	ShowNavMesh   bool `yaml:"show_navmesh"`
	ShowEnemyPath bool `yaml:"show_enemy_path"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per logged summary
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NeighborDistance   float64 // TileSize * NeighborFactor
	ConnectionDistance float64 // TileSize * ConnectionFactor
	HalfExtentX        float64 // half arena size along x
	HalfExtentZ        float64 // half arena size along z
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() (*Config, error) {
	return Load("")
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first setting the arena cannot be built with.
func (c *Config) Validate() error {
	tm := c.TileMap
	if tm.Width <= 0 || tm.Height <= 0 {
		return fmt.Errorf("%w: tilemap size %dx%d", ErrInvalidConfig, tm.Width, tm.Height)
	}
	if tm.TileSize <= 0 {
		return fmt.Errorf("%w: tilemap tile_size %v", ErrInvalidConfig, tm.TileSize)
	}
	for i, o := range tm.Obstacles {
		if o.X < 0 || o.X >= tm.Width || o.Z < 0 || o.Z >= tm.Height {
			return fmt.Errorf("%w: obstacle %d at (%d,%d) outside %dx%d grid", ErrInvalidConfig, i, o.X, o.Z, tm.Width, tm.Height)
		}
	}
	if c.Pathfinding.NeighborFactor <= 0 {
		return fmt.Errorf("%w: pathfinding neighbor_factor %v", ErrInvalidConfig, c.Pathfinding.NeighborFactor)
	}
	if c.NavMesh.ConnectionFactor <= 0 {
		return fmt.Errorf("%w: navmesh connection_factor %v", ErrInvalidConfig, c.NavMesh.ConnectionFactor)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("%w: physics dt %v", ErrInvalidConfig, c.Physics.DT)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	ts := c.TileMap.TileSize
	c.Derived.NeighborDistance = ts * c.Pathfinding.NeighborFactor
	c.Derived.ConnectionDistance = ts * c.NavMesh.ConnectionFactor
	c.Derived.HalfExtentX = float64(c.TileMap.Width) * ts / 2
	c.Derived.HalfExtentZ = float64(c.TileMap.Height) * ts / 2

	if c.Telemetry.PerfCollectorWindow <= 0 {
		c.Telemetry.PerfCollectorWindow = 60
	}
	if c.Physics.Iterations <= 0 {
		c.Physics.Iterations = 10
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
