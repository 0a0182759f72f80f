package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultDaemonAddress = "127.0.0.1:7781"

type Config struct {
	Daemon  DaemonConfig  `toml:"daemon"`
	Logging LoggingConfig `toml:"logging"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Webhook WebhookConfig `toml:"webhook"`
}

type DaemonConfig struct {
	Address string `toml:"address"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// CanvasConfig tunes gesture recognition and canvas behavior. Zero values
// fall back to the defaults the recognizer ships with.
type CanvasConfig struct {
	DoubleTapWindowMs int     `toml:"double_tap_window_ms"`
	LongPressMs       int     `toml:"long_press_ms"`
	DragSlop          float64 `toml:"drag_slop"`
	TrashRadius       float64 `toml:"trash_radius"`
	ResizeQuietMs     int     `toml:"resize_quiet_ms"`
	IdleSeconds       int     `toml:"idle_seconds"`
}

type WebhookConfig struct {
	// RatePerMinute caps webhook note creation. Zero means the default.
	RatePerMinute int `toml:"rate_per_minute"`
}

func Default() Config {
	return Config{
		Daemon:  DaemonConfig{Address: defaultDaemonAddress},
		Logging: LoggingConfig{Level: "info"},
	}
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func (c Config) DaemonAddress() string {
	addr := strings.TrimSpace(c.Daemon.Address)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultDaemonAddress
	}
	return addr
}

func (c Config) DaemonBaseURL() string {
	return "http://" + c.DaemonAddress()
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c CanvasConfig) DoubleTapWindow() time.Duration {
	if c.DoubleTapWindowMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.DoubleTapWindowMs) * time.Millisecond
}

func (c CanvasConfig) LongPress() time.Duration {
	if c.LongPressMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.LongPressMs) * time.Millisecond
}

func (c CanvasConfig) ResizeQuiet() time.Duration {
	if c.ResizeQuietMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.ResizeQuietMs) * time.Millisecond
}

func (c CanvasConfig) IdleTimeout() time.Duration {
	if c.IdleSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.IdleSeconds) * time.Second
}

func (c WebhookConfig) EffectiveRatePerMinute() int {
	if c.RatePerMinute <= 0 {
		return 60
	}
	return c.RatePerMinute
}
