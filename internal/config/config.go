package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/msalah0e/ecomap/internal/force"
	"github.com/msalah0e/ecomap/internal/highlight"
)

// ProjectFile is the per-project override, looked up from the working
// directory upwards.
const ProjectFile = ".ecomap.toml"

// Config holds ecomap configuration.
type Config struct {
	Dataset    string          `toml:"dataset"`
	Viewport   ViewportConfig  `toml:"viewport"`
	Layout     LayoutConfig    `toml:"layout"`
	Decoration highlight.Style `toml:"decoration"`
	Server     ServerConfig    `toml:"server"`
	Log        LogConfig       `toml:"log"`
}

// ViewportConfig controls the view surface.
type ViewportConfig struct {
	Width          float64 `toml:"width"`
	Height         float64 `toml:"height"`
	MinScale       float64 `toml:"min_scale"`
	MaxScale       float64 `toml:"max_scale"`
	ClickTolerance float64 `toml:"click_tolerance"`
	FitPadding     float64 `toml:"fit_padding"`
	Background     string  `toml:"background"`
	Compact        bool    `toml:"compact"` // legend docked at the bottom, full-width panel
}

// LayoutConfig holds the force layout constants.
type LayoutConfig struct {
	LinkDistance  float64 `toml:"link_distance"`
	Charge        float64 `toml:"charge"`
	Theta         float64 `toml:"theta"`
	CollideRadius float64 `toml:"collide_radius"`
	VelocityDecay float64 `toml:"velocity_decay"`
	AlphaMin      float64 `toml:"alpha_min"`
	DragHeat      float64 `toml:"drag_heat"`
	TickRate      int     `toml:"tick_rate"` // ticks per second
	Seed          int64   `toml:"seed"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr        string  `toml:"addr"`
	Title       string  `toml:"title"`
	SessionTTL  string  `toml:"session_ttl"`
	EventRate   float64 `toml:"event_rate"`
	EventBurst  int     `toml:"event_burst"`
	MaxSessions int     `toml:"max_sessions"`
}

// LogConfig controls logging.
type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	f := force.DefaultConfig()
	return &Config{
		Viewport: ViewportConfig{
			Width:          1200,
			Height:         800,
			MinScale:       0.1,
			MaxScale:       4,
			ClickTolerance: 3,
			FitPadding:     40,
			Background:     "#050505",
		},
		Layout: LayoutConfig{
			LinkDistance:  f.LinkDistance,
			Charge:        f.Charge,
			Theta:         f.Theta,
			CollideRadius: f.CollideRadius,
			VelocityDecay: f.VelocityDecay,
			AlphaMin:      f.AlphaMin,
			DragHeat:      0.3,
			TickRate:      60,
			Seed:          f.Seed,
		},
		Decoration: highlight.DefaultStyle(),
		Server: ServerConfig{
			Addr:        ":8080",
			Title:       "Travel & Tourism Ecosystem Map",
			SessionTTL:  "10m",
			EventRate:   120,
			EventBurst:  240,
			MaxSessions: 256,
		},
	}
}

// Force converts the layout section into simulation constants.
func (l LayoutConfig) Force() force.Config {
	return force.Config{
		LinkDistance:  l.LinkDistance,
		Charge:        l.Charge,
		Theta:         l.Theta,
		CollideRadius: l.CollideRadius,
		VelocityDecay: l.VelocityDecay,
		AlphaMin:      l.AlphaMin,
		Seed:          l.Seed,
	}
}

// TickInterval returns the time between simulation ticks.
func (l LayoutConfig) TickInterval() time.Duration {
	if l.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(l.TickRate)
}

// TTL returns the idle session lifetime, falling back to ten minutes when
// the value does not parse.
func (s ServerConfig) TTL() time.Duration {
	d, err := time.ParseDuration(s.SessionTTL)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// ConfigDir returns the ecomap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ecomap")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// findProjectConfig walks up from the working directory looking for a
// project config file. It returns "" when there is none.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load builds the effective configuration: defaults, then the user config
// file, then the nearest project file, then environment overrides (with
// .env loaded first). Unreadable files are skipped.
func Load() *Config {
	cfg := Default()

	for _, path := range []string{Path(), findProjectConfig()} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		_ = toml.Unmarshal(data, cfg)
	}

	_ = godotenv.Load()
	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ECOMAP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ECOMAP_DATASET"); v != "" {
		cfg.Dataset = v
	}
	if v := os.Getenv("ECOMAP_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Debug = b
		}
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
