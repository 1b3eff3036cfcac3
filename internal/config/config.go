package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/atomicstack/nestmenu/internal/app"
	"github.com/atomicstack/nestmenu/internal/search"
	"github.com/atomicstack/nestmenu/internal/theme"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envSocketPath = "NESTMENU_SOCKET"
	envWidth      = "NESTMENU_WIDTH"
	envHeight     = "NESTMENU_HEIGHT"
	envVerbose    = "NESTMENU_VERBOSE"
	envTrace      = "NESTMENU_TRACE"
	envLogFile    = "NESTMENU_LOG_FILE"
	envConfigFile = "NESTMENU_CONFIG"
	envMenuFile   = "NESTMENU_MENU"
	envSearchMode = "NESTMENU_SEARCH_MODE"
)

// Binder holds the flag values registered on a FlagSet. Environment values
// become the flag defaults, so an explicit flag always wins.
type Binder struct {
	env map[string]string

	socket     *string
	width      *int
	height     *int
	trace      *bool
	verbose    *bool
	logFile    *string
	configFile *string
	menuFile   *string
	searchMode *string
}

// Bind registers the application flags on fs.
func Bind(fs *pflag.FlagSet, environ []string) *Binder {
	env := parseEnv(environ)
	return &Binder{
		env:        env,
		socket:     fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)"),
		width:      fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)"),
		height:     fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)"),
		trace:      fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		verbose:    fs.BoolP("verbose", "v", envOrBool(env, envVerbose, false), "print success messages for actions"),
		logFile:    fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		configFile: fs.StringP("config", "c", envOrDefault(env, envConfigFile, ""), "path to the theme config file (default: $XDG_CONFIG_HOME/nestmenu/config.toml)"),
		menuFile:   fs.StringP("menu", "m", envOrDefault(env, envMenuFile, ""), "path to a YAML menu file (default: built-in menu)"),
		searchMode: fs.String("search-mode", envOrDefault(env, envSearchMode, ""), "type-ahead mode: nowhere, itemstart or somewhere"),
	}
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("nestmenu", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	b := Bind(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return b.Config(args)
}

// Config resolves the bound flag values into a Config. It must be called
// after the FlagSet has been parsed.
func (b *Binder) Config(args []string) (Config, error) {
	if *b.width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *b.width)
	}
	if *b.height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *b.height)
	}

	var modeOverride *search.Mode
	if v := strings.TrimSpace(*b.searchMode); v != "" {
		mode, ok := search.ParseMode(v)
		if !ok {
			return Config{}, unknownValue("search mode", v, search.ModeNames)
		}
		modeOverride = &mode
	}

	configPath, explicit := *b.configFile, *b.configFile != ""
	if !explicit {
		configPath = defaultConfigPath(b.env)
	}
	loadTheme := func() (theme.Menu, search.Mode, error) {
		return loadThemeFile(configPath, explicit, modeOverride)
	}
	menuTheme, mode, err := loadTheme()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			SocketPath: *b.socket,
			Width:      *b.width,
			Height:     *b.height,
			Verbose:    *b.verbose,
			MenuFile:   *b.menuFile,
			ConfigFile: configPath,
			Theme:      menuTheme,
			SearchMode: mode,
			Reload:     loadTheme,
		},
		Logging: Logging{
			FilePath: *b.logFile,
			Trace:    *b.trace,
		},
		Features: Features{
			Verbose: *b.verbose,
		},
		Flags: map[string]string{
			"socket":     *b.socket,
			"width":      strconv.Itoa(*b.width),
			"height":     strconv.Itoa(*b.height),
			"trace":      strconv.FormatBool(*b.trace),
			"verbose":    strconv.FormatBool(*b.verbose),
			"logFile":    *b.logFile,
			"config":     configPath,
			"menu":       *b.menuFile,
			"searchMode": mode.String(),
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

// loadThemeFile reads path over the default theme. A missing file is only
// an error when the user named it.
func loadThemeFile(path string, explicit bool, modeOverride *search.Mode) (theme.Menu, search.Mode, error) {
	base := theme.DefaultMenu()
	mode := search.DefaultMode
	if path != "" {
		f, err := ReadFile(path)
		switch {
		case err == nil:
			base, mode, err = f.Apply(base)
			if err != nil {
				return theme.Menu{}, 0, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return theme.Menu{}, 0, err
		}
	}
	if modeOverride != nil {
		mode = *modeOverride
	}
	return base, mode, nil
}

func defaultConfigPath(env map[string]string) string {
	dir := envOrDefault(env, "XDG_CONFIG_HOME", "")
	if dir == "" {
		home := envOrDefault(env, "HOME", "")
		if home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "nestmenu", "config.toml")
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.MenuFile != "" {
		if _, err := os.Stat(cfg.App.MenuFile); err != nil {
			return fmt.Errorf("menu file: %w", err)
		}
	}
	return nil
}
