package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultSeek = "10s"
)

// Options are the settings given on the command line. Empty fields are unset.
type Options struct {
	ConfigFile string
	Player     string
	Seek       string
}

// fileConfig is the layout of the optional YAML configuration file
type fileConfig struct {
	Player string `yaml:"player"`
	Seek   string `yaml:"seek"`
}

// AppConfig holds application configuration
type AppConfig struct {
	logger *zap.Logger
	player string
	seek   time.Duration
}

// NewAppConfig builds the configuration from, in increasing priority:
// defaults, environment variables, the YAML file and command line options.
func NewAppConfig(logger *zap.Logger, opts Options) (*AppConfig, error) {
	player := os.Getenv("REMOTECTL_PLAYER")
	seek := os.Getenv("REMOTECTL_SEEK")
	if seek == "" {
		seek = defaultSeek
	}

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv("REMOTECTL_CONFIG")
	}
	if path != "" {
		fc, err := loadFile(expandHome(path))
		if err != nil {
			return nil, err
		}
		if fc.Player != "" {
			player = fc.Player
		}
		if fc.Seek != "" {
			seek = fc.Seek
		}
	}

	if opts.Player != "" {
		player = opts.Player
	}
	if opts.Seek != "" {
		seek = opts.Seek
	}

	step, err := ParseSeek(seek)
	if err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("player", player),
		zap.Duration("seek", step),
		zap.String("file", path))

	return &AppConfig{
		logger: logger,
		player: player,
		seek:   step,
	}, nil
}

// SeekIncrement returns the configured seek step
func (c *AppConfig) SeekIncrement() time.Duration {
	return c.seek
}

// PlayerName returns the MPRIS player to follow, empty for any
func (c *AppConfig) PlayerName() string {
	return c.player
}

// ParseSeek accepts a Go duration ("15s", "1m") or a number of seconds ("15").
func ParseSeek(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid seek increment %q: %w", s, err)
	}
	return d, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc, nil
}

// expandHome expands environment variables and a leading ~
func expandHome(path string) string {
	path = os.ExpandEnv(path)
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
