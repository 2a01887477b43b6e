package vrwidget

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the manager settings. It is usually loaded from a TOML file:
//
//	debug = false
//	max_ray_distance = 100.0
//	snapshot_dir = "snapshots"
//
//	[surfaces]
//	max_size = 4096
//	pixel_budget = 67108864
//	async = true
//	pool_size = 2
//
//	[layout]
//	display_density = 1.5
//	world_dpi_ratio = 0.025
//
//	[input]
//	scroll_factor = 20.0
//	release_to_hover = true
type Config struct {
	Debug          bool          `toml:"debug"`
	MaxRayDistance float64       `toml:"max_ray_distance"`
	SnapshotDir    string        `toml:"snapshot_dir"`
	Surfaces       SurfaceConfig `toml:"surfaces"`
	Layout         LayoutConfig  `toml:"layout"`
	Input          InputConfig   `toml:"input"`
}

// SurfaceConfig limits drawing-surface allocation.
type SurfaceConfig struct {
	// MaxSize is the largest allowed surface edge in pixels.
	MaxSize int `toml:"max_size"`
	// PixelBudget caps the total pixels of all bound surfaces.
	PixelBudget int `toml:"pixel_budget"`
	// Async runs texture allocation on a dedicated resource goroutine.
	Async bool `toml:"async"`
	// PoolSize is the number of freed textures kept per size for reuse.
	// Zero disables pooling.
	PoolSize int `toml:"pool_size"`
}

// LayoutConfig converts density-independent widget sizes to world units and
// surface pixels.
type LayoutConfig struct {
	DisplayDensity float64 `toml:"display_density"`
	WorldDPIRatio  float64 `toml:"world_dpi_ratio"`
}

// InputConfig tunes the input router.
type InputConfig struct {
	ScrollFactor   float64 `toml:"scroll_factor"`
	ReleaseToHover bool    `toml:"release_to_hover"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		SnapshotDir: "snapshots",
		Surfaces: SurfaceConfig{
			MaxSize:     defaultMaxSurfaceSize,
			PixelBudget: defaultPixelBudget,
			PoolSize:    2,
		},
		Layout: LayoutConfig{
			DisplayDensity: 1,
			WorldDPIRatio:  18.0 / 720.0,
		},
		Input: InputConfig{
			ScrollFactor:   defaultScrollFactor,
			ReleaseToHover: true,
		},
	}
}

// ParseConfig decodes TOML data on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the TOML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.MaxRayDistance < 0 {
		errs = append(errs, fmt.Errorf("max_ray_distance must be >= 0, got %v", c.MaxRayDistance))
	}
	if c.SnapshotDir == "" {
		errs = append(errs, errors.New("snapshot_dir must not be empty"))
	}
	if c.Surfaces.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("surfaces.max_size must be > 0, got %d", c.Surfaces.MaxSize))
	}
	if c.Surfaces.PixelBudget <= 0 {
		errs = append(errs, fmt.Errorf("surfaces.pixel_budget must be > 0, got %d", c.Surfaces.PixelBudget))
	}
	if c.Surfaces.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("surfaces.pool_size must be >= 0, got %d", c.Surfaces.PoolSize))
	}
	if c.Layout.DisplayDensity <= 0 {
		errs = append(errs, fmt.Errorf("layout.display_density must be > 0, got %v", c.Layout.DisplayDensity))
	}
	if c.Layout.WorldDPIRatio <= 0 {
		errs = append(errs, fmt.Errorf("layout.world_dpi_ratio must be > 0, got %v", c.Layout.WorldDPIRatio))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
