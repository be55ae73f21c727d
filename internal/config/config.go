// Package config loads the daemon configuration from defaults, an optional
// YAML file, a .env file and LYRICAL_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/genricoloni/lyrical/internal/geometry"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

const envPrefix = "LYRICAL_"

// MprisConfig configures the desktop player integration
type MprisConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	// Player is the preferred player name, e.g. "spotify"
	Player string `yaml:"player"`
}

// MpdConfig configures the Music Player Daemon integration. An empty
// address disables it.
type MpdConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
}

// AppConfig holds application configuration.
// An empty FontPath searches the usual CJK font locations.
type AppConfig struct {
	ListenAddr    string        `yaml:"listen_addr" default:"127.0.0.1:17890"`
	StateFile     string        `yaml:"state_file" default:"~/.config/lyrical/state.yaml"`
	GuardDelay    time.Duration `yaml:"guard_delay" default:"100ms"`
	OverlayWidth  int           `yaml:"overlay_width" default:"800"`
	OverlayHeight int           `yaml:"overlay_height" default:"100"`
	IconSize      int           `yaml:"icon_size" default:"64"`
	ShowOverlay   bool          `yaml:"show_overlay" default:"true"`
	LogLevel      string        `yaml:"log_level" default:"info"`
	FontPath      string        `yaml:"font_path"`
	Mpris         MprisConfig   `yaml:"mpris"`
	Mpd           MpdConfig     `yaml:"mpd"`
}

// DefaultPath returns the config file looked up when none is given
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lyrical", "config.yaml")
}

// Load builds the configuration. A missing file at path is not an error;
// a malformed one is.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &AppConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.StateFile = expandPath(cfg.StateFile)
	if cfg.FontPath != "" {
		cfg.FontPath = expandPath(cfg.FontPath)
	}
	cfg.normalize()
	return cfg, nil
}

// applyEnv overrides fields from LYRICAL_* variables
func (c *AppConfig) applyEnv() error {
	if v, ok := lookup("LISTEN_ADDR"); ok {
		c.ListenAddr = v
	}
	if v, ok := lookup("STATE_FILE"); ok {
		c.StateFile = v
	}
	if v, ok := lookup("FONT_PATH"); ok {
		c.FontPath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("MPRIS_PLAYER"); ok {
		c.Mpris.Player = v
	}
	if v, ok := lookup("MPD_ADDRESS"); ok {
		c.Mpd.Address = v
	}
	if v, ok := lookup("MPD_PASSWORD"); ok {
		c.Mpd.Password = v
	}
	if v, ok := lookup("GUARD_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sGUARD_DELAY: %w", envPrefix, err)
		}
		c.GuardDelay = d
	}
	for key, dst := range map[string]*bool{"SHOW_OVERLAY": &c.ShowOverlay, "MPRIS": &c.Mpris.Enabled} {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}
	for key, dst := range map[string]*int{"ICON_SIZE": &c.IconSize, "OVERLAY_WIDTH": &c.OverlayWidth, "OVERLAY_HEIGHT": &c.OverlayHeight} {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v := os.Getenv(envPrefix + key)
	return v, v != ""
}

// normalize keeps values inside the ranges the rest of the daemon assumes
func (c *AppConfig) normalize() {
	r := geometry.EnforceMinimum(geometry.Rect{Width: c.OverlayWidth, Height: c.OverlayHeight})
	c.OverlayWidth, c.OverlayHeight = r.Width, r.Height
	if c.IconSize <= 0 {
		c.IconSize = 64
	}
	if c.GuardDelay < 0 {
		c.GuardDelay = 0
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// expandPath expands environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// Log reports the effective configuration
func (c *AppConfig) Log(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.String("listenAddr", c.ListenAddr),
		zap.String("stateFile", c.StateFile),
		zap.Duration("guardDelay", c.GuardDelay),
		zap.Int("overlayWidth", c.OverlayWidth),
		zap.Int("overlayHeight", c.OverlayHeight),
		zap.Bool("mpris", c.Mpris.Enabled),
		zap.String("player", c.Mpris.Player),
		zap.String("mpd", c.Mpd.Address))
}

// GetListenAddr returns the address of the web-player hook server
func (c *AppConfig) GetListenAddr() string {
	return c.ListenAddr
}

// GetStateFile returns the path of the persisted overlay state
func (c *AppConfig) GetStateFile() string {
	return c.StateFile
}

// GetGuardDelay returns how long a self-initiated resize suppresses drift correction
func (c *AppConfig) GetGuardDelay() time.Duration {
	return c.GuardDelay
}

// GetOverlaySize returns the default overlay size
func (c *AppConfig) GetOverlaySize() geometry.Size {
	return geometry.Size{Width: c.OverlayWidth, Height: c.OverlayHeight}
}

// GetIconSize returns the tray icon edge in pixels
func (c *AppConfig) GetIconSize() int {
	return c.IconSize
}

// ShowOnStart reports whether the overlay is shown at startup
func (c *AppConfig) ShowOnStart() bool {
	return c.ShowOverlay
}

// MprisEnabled reports whether desktop players are followed over D-Bus
func (c *AppConfig) MprisEnabled() bool {
	return c.Mpris.Enabled
}

// GetPreferredPlayer returns the player commanded when none is active
func (c *AppConfig) GetPreferredPlayer() string {
	return c.Mpris.Player
}
