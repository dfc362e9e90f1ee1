// Package home resolves the two filesystem paths oats needs to find its
// log store, plus an optional user config file for defaults the CLI
// front-end would otherwise have to ask for on every invocation.
//
// Spec §4.7 deliberately keeps this out of the core: the core only wants
// two absolute paths (a primary store path and a scratch path for
// maintenance rewrites). Everything about how those paths are chosen —
// env var names, fallbacks, an override variable — is a front-end
// concern, resolved here the way the teacher resolves its own config
// path in config.go's getGlobalConfigPath.
package home

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// ErrNoHomeDir is returned when neither an override env var nor the OS
// home directory can be determined.
var ErrNoHomeDir = errors.New("home: cannot determine a directory for the oats store")

const (
	envOverride    = "OATS_HOME"
	envXDGData     = "XDG_DATA_HOME"
	storeFileName  = "log.oats"
	tempFileSuffix = ".oats-tmp"
	configFileName = "config.hujson"
)

// Config holds optional user defaults read from config.hujson: a
// preferred media root for markdown export and a default timezone
// offset. The commands in internal/cli do not read it; markdown takes its
// timezone offset and media directory from its arguments.
type Config struct {
	MediaRoot       string `json:"media_root,omitempty"`
	TZOffsetMinutes int    `json:"tz_offset_minutes,omitempty"`
}

// PrimaryPath returns the absolute path to the log store file, honoring
// OATS_HOME as a full override of the directory, then falling back to
// $XDG_DATA_HOME/oats, then ~/.local/share/oats.
func PrimaryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, storeFileName), nil
}

// TempPath returns the scratch path sort rewrites into before atomically
// replacing the primary store (trim and filter write beside their own
// output path instead).
// Fixed relative to the primary path per spec §5 so a stranded temporary
// from a crashed maintenance run is always discoverable.
func TempPath() (string, error) {
	primary, err := PrimaryPath()
	if err != nil {
		return "", err
	}

	return primary + tempFileSuffix, nil
}

func dataDir() (string, error) {
	if override := os.Getenv(envOverride); override != "" {
		return override, nil
	}

	if xdg := os.Getenv(envXDGData); xdg != "" {
		return filepath.Join(xdg, "oats"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDir, err)
	}

	return filepath.Join(home, ".local", "share", "oats"), nil
}

// configPath mirrors dataDir's directory choice but names the config
// file instead of the store; it is independent from OATS_HOME so a
// store override doesn't silently relocate the user's preferences too.
func configPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "oats", configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHomeDir, err)
	}

	return filepath.Join(home, ".config", "oats", configFileName), nil
}

// LoadConfig reads config.hujson if present, tolerating JSON-with-comments
// (hujson.Standardize, same library and style the teacher uses for its
// own config file). A missing file yields the zero Config, not an error.
func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from trusted env/home lookup, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse config %q: invalid JSONC: %w", path, err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	return cfg, nil
}

// WriteDefaultConfig creates config.hujson with the given defaults if one
// does not already exist, replacing it atomically (via natefinch/atomic,
// operating on a real OS path rather than the oatsfs.FS abstraction used
// by the store itself, since a config file is a small, whole-buffer write
// with no crash-safety argument to make beyond "don't leave a half
// written file behind").
func WriteDefaultConfig(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory for %q: %w", path, err)
	}

	var b strings.Builder

	b.WriteString("{\n")
	fmt.Fprintf(&b, "  // Directory that markdown export writes file/image/video payloads under.\n")
	fmt.Fprintf(&b, "  \"media_root\": %q,\n", cfg.MediaRoot)
	fmt.Fprintf(&b, "  // Default timezone offset in minutes for markdown export.\n")
	fmt.Fprintf(&b, "  \"tz_offset_minutes\": %d,\n", cfg.TZOffsetMinutes)
	b.WriteString("}\n")

	if err := atomic.WriteFile(path, strings.NewReader(b.String())); err != nil {
		return fmt.Errorf("write config %q: %w", path, err)
	}

	return nil
}
