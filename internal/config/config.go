// Package config loads rshell settings from a TOML file.
//
// A missing file is not an error: every field has a default, and empty or
// out-of-range values in the file fall back to those defaults. Paths
// starting with "~" are expanded to the user's home directory.
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
)

// Config is the resolved configuration.
type Config struct {
	Prompt        string
	Root          string
	StartDir      string
	Extensions    []string
	MaxArgs       int
	EscapeTimeout time.Duration
	StatusTimeout time.Duration
	Backend       string
	LogFile       string
}

const (
	defaultConfigPath    = "~/.config/rshell/config.toml"
	defaultPrompt        = "# "
	defaultRoot          = "/"
	defaultStartDir      = "/"
	defaultMaxArgs       = 16
	defaultEscapeTimeout = 100 * time.Millisecond
	defaultStatusTimeout = 5 * time.Second
	defaultBackend       = "tty"
)

var defaultExtensions = []string{"wav", "mp3"}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Prompt:        defaultPrompt,
		Root:          defaultRoot,
		StartDir:      defaultStartDir,
		Extensions:    append([]string(nil), defaultExtensions...),
		MaxArgs:       defaultMaxArgs,
		EscapeTimeout: defaultEscapeTimeout,
		StatusTimeout: defaultStatusTimeout,
		Backend:       defaultBackend,
	}
}

type rawConfig struct {
	Prompt          *string  `toml:"prompt"`
	Root            string   `toml:"root"`
	StartDir        string   `toml:"start_dir"`
	Extensions      []string `toml:"extensions"`
	MaxArgs         int      `toml:"max_args"`
	EscapeTimeoutMS int      `toml:"escape_timeout_ms"`
	StatusTimeoutS  int      `toml:"status_timeout_s"`
	Backend         string   `toml:"backend"`
	LogFile         string   `toml:"log_file"`
}

// Load reads the config at path, or the default location when path is empty.
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

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.apply(raw)
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) {
	if raw.Prompt != nil {
		c.Prompt = *raw.Prompt
	}
	if root := strings.TrimSpace(raw.Root); root != "" {
		c.Root = mustExpand(root)
	}
	if dir := strings.TrimSpace(raw.StartDir); dir != "" {
		c.StartDir = dir
	}
	if exts := cleanExtensions(raw.Extensions); len(exts) > 0 {
		c.Extensions = exts
	}
	if raw.MaxArgs > 0 {
		c.MaxArgs = raw.MaxArgs
	}
	if raw.EscapeTimeoutMS > 0 {
		c.EscapeTimeout = time.Duration(raw.EscapeTimeoutMS) * time.Millisecond
	}
	if raw.StatusTimeoutS > 0 {
		c.StatusTimeout = time.Duration(raw.StatusTimeoutS) * time.Second
	}
	if backend := strings.ToLower(strings.TrimSpace(raw.Backend)); backend != "" {
		c.Backend = backend
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		c.LogFile = mustExpand(logFile)
	}
}

func cleanExtensions(in []string) []string {
	var out []string
	for _, ext := range in {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
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
