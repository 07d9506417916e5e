package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/rewake/internal/trigger"
)

// Config holds everything rewake reads from its config file.
type Config struct {
	APIBind      string
	PollInterval time.Duration
	Trigger      TriggerSettings
	Network      NetworkSettings
	Log          LogSettings
}

// TriggerSettings control refresh-on-resume.
type TriggerSettings struct {
	HandleAppState bool
	ResumeDelay    time.Duration // zero fetches on every resume
}

// NetworkSettings control the reachability watcher.
type NetworkSettings struct {
	ProbeTimeout  time.Duration
	WatchInterval time.Duration
}

// LogSettings control the log file.
type LogSettings struct {
	File  string
	Level string
}

const (
	defaultConfigPath    = "~/.config/rewake/config.toml"
	defaultLogFile       = "~/.local/state/rewake/rewake.log"
	defaultAPIBind       = "127.0.0.1:7487"
	defaultPollInterval  = 2 * time.Second
	defaultProbeTimeout  = 3 * time.Second
	defaultWatchInterval = 5 * time.Second
)

// ErrInvalid marks values that parse but make no sense.
var ErrInvalid = errors.New("invalid config")

type rawConfig struct {
	APIBind      string `toml:"api_bind"`
	PollInterval string `toml:"poll_interval"`
	Trigger      struct {
		HandleAppState *bool  `toml:"handle_app_state"`
		ResumeDelay    string `toml:"resume_delay"`
	} `toml:"trigger"`
	Network struct {
		ProbeTimeout  string `toml:"probe_timeout"`
		WatchInterval string `toml:"watch_interval"`
	} `toml:"network"`
	Log struct {
		File  string `toml:"file"`
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:      defaultAPIBind,
		PollInterval: defaultPollInterval,
		Trigger: TriggerSettings{
			HandleAppState: true,
			ResumeDelay:    trigger.DefaultResumeDelay,
		},
		Network: NetworkSettings{
			ProbeTimeout:  defaultProbeTimeout,
			WatchInterval: defaultWatchInterval,
		},
		Log: LogSettings{File: mustExpand(defaultLogFile), Level: "info"},
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if bind := strings.TrimSpace(raw.APIBind); bind != "" {
		cfg.APIBind = bind
	}
	if raw.Trigger.HandleAppState != nil {
		cfg.Trigger.HandleAppState = *raw.Trigger.HandleAppState
	}

	durations := []struct {
		key      string
		value    string
		dest     *time.Duration
		zeroOkay bool
	}{
		{"poll_interval", raw.PollInterval, &cfg.PollInterval, false},
		{"trigger.resume_delay", raw.Trigger.ResumeDelay, &cfg.Trigger.ResumeDelay, true},
		{"network.probe_timeout", raw.Network.ProbeTimeout, &cfg.Network.ProbeTimeout, false},
		{"network.watch_interval", raw.Network.WatchInterval, &cfg.Network.WatchInterval, false},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.value, d.dest, d.zeroOkay); err != nil {
			return Config{}, err
		}
	}

	if logFile := strings.TrimSpace(raw.Log.File); logFile != "" {
		cfg.Log.File = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.Log.Level); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}

	return cfg, nil
}

// TriggerConfig maps the file settings onto the trigger's configuration.
func (c Config) TriggerConfig(fetch trigger.FetchFunc) trigger.Config {
	delay := c.Trigger.ResumeDelay
	if delay == 0 {
		delay = -1 // trigger treats zero as "use the default"
	}
	return trigger.Config{
		Fetch:          fetch,
		IgnoreAppState: !c.Trigger.HandleAppState,
		ResumeDelay:    delay,
	}
}

func parseDuration(key, value string, dest *time.Duration, zeroOkay bool) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !zeroOkay) {
		return fmt.Errorf("%w: %s must be positive, got %q", ErrInvalid, key, trimmed)
	}
	*dest = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
