// Package config handles all the user-configuration. The fields here are
// all in PascalCase but in your actual config.yml they'll be in camelCase.
// You can view the default config with `stracetui --config`.
// Because of the way we merge your user config with the defaults you may need
// to be careful: if for example you set a `theme:` yaml key but then give it
// no child values, the defaults for that section are still used underneath.
package config

import (
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/OpenPeeDeeP/xdg"
	yaml "github.com/jesseduffield/yaml"
	"golang.org/x/xerrors"
)

// UserConfig holds all of the user-configurable options.
type UserConfig struct {
	// Gui is for configuring visual things like colors, scroll amount and
	// whether we show or hide things.
	Gui GuiConfig `yaml:"gui,omitempty"`

	// Filter holds syscall filter defaults; see FilterConfig (not read at
	// startup).
	Filter FilterConfig `yaml:"filter,omitempty"`

	// Editor overrides $VISUAL/$EDITOR for the "open source location" action.
	// Leave blank to respect the environment.
	Editor string `yaml:"editor,omitempty"`

	// Resolver controls address resolution of backtrace frames.
	Resolver ResolverConfig `yaml:"resolver,omitempty"`

	// Tracer controls how we invoke strace when running the `trace`
	// subcommand directly against a target command.
	Tracer TracerConfig `yaml:"tracer,omitempty"`

	// ConfirmOnQuit is loaded from the config file but no code reads it;
	// quitting never asks for confirmation.
	ConfirmOnQuit bool `yaml:"confirmOnQuit,omitempty"`
}

// ThemeConfig is for setting the colors of panels and syscall categories.
type ThemeConfig struct {
	ActiveBorderColor   []string `yaml:"activeBorderColor,omitempty"`
	InactiveBorderColor []string `yaml:"inactiveBorderColor,omitempty"`
	OptionsTextColor    []string `yaml:"optionsTextColor,omitempty"`

	// SyscallCategoryColors maps a syscall category name (file, process,
	// memory, network, filesystem, time, signal, security, poll, resource,
	// other) to a color attribute, used for the syscall header line.
	SyscallCategoryColors map[string]string `yaml:"syscallCategoryColors,omitempty"`

	// ErrorColor is used for lines showing a failed syscall (errno set).
	ErrorColor string `yaml:"errorColor,omitempty"`

	// SearchMatchColor is not read by any code; search matches are always
	// drawn black on yellow.
	SearchMatchColor string `yaml:"searchMatchColor,omitempty"`

	// ProcessLaneColors is the palette cycled through for process lanes in
	// the fork/wait graph gutter.
	ProcessLaneColors []string `yaml:"processLaneColors,omitempty"`
}

// GuiConfig is for configuring visual things like colors and whether we show
// or hide things.
type GuiConfig struct {
	// ScrollHeight is not read by any code; the main list moves by lines,
	// pages and half-pages only.
	ScrollHeight int `yaml:"scrollHeight,omitempty"`

	// ScrollPastBottom is not read by any code; the scroll offset is always
	// clamped so the view never scrolls past the last line.
	ScrollPastBottom bool `yaml:"scrollPastBottom,omitempty"`

	// IgnoreMouseEvents is not read by any code; setting it changes
	// nothing.
	IgnoreMouseEvents bool `yaml:"mouseEvents,omitempty"`

	// Theme determines what colors and color attributes panel borders and
	// syscall categories have.
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// ShowHiddenOnStart is not read by any code; ghost mode (showing hidden
	// syscalls dimmed) always starts off.
	ShowHiddenOnStart bool `yaml:"showHiddenOnStart,omitempty"`

	// WrapArguments turns off the truncation of long argument and path
	// values. The list view does not wrap lines, so text wider than the
	// view is not continued on a further row.
	WrapArguments bool `yaml:"wrapArguments,omitempty"`

	// MaxArgumentWidth is the character width at which argument and path
	// values get truncated with an ellipsis, when WrapArguments is false.
	MaxArgumentWidth int `yaml:"maxArgumentWidth,omitempty"`
}

// FilterConfig holds filter-modal defaults.
type FilterConfig struct {
	// HiddenSyscalls is not read by any code; every syscall starts out
	// visible, whatever this list holds.
	HiddenSyscalls []string `yaml:"hiddenSyscalls,omitempty"`
}

// ResolverConfig controls the DWARF address resolver.
type ResolverConfig struct {
	// Enabled turns on address resolution of backtrace frames. Disabling
	// this skips the potentially slow DWARF loads entirely.
	Enabled bool `yaml:"enabled,omitempty"`

	// Async is not read by any code; resolution always runs synchronously
	// when a backtrace is expanded.
	Async bool `yaml:"async,omitempty"`
}

// TracerConfig controls how `stracetui trace CMD...` invokes strace.
type TracerConfig struct {
	// StracePath is the path to the strace binary; defaults to "strace" and
	// is resolved against $PATH.
	StracePath string `yaml:"stracePath,omitempty"`

	// ExtraArgs are appended to the strace invocation after the fixed flags
	// (-f -tt -k -s N -o FILE).
	ExtraArgs string `yaml:"extraArgs,omitempty"`

	// StringLimit is the -s value passed to strace, controlling how much of
	// each string argument is printed before truncation.
	StringLimit int `yaml:"stringLimit,omitempty"`

	// KeepTraceFile determines whether the temporary trace file written by
	// `trace` is kept on disk after the app exits.
	KeepTraceFile bool `yaml:"keepTraceFile,omitempty"`
}

// GetDefaultConfig returns the application default configuration. NOTE (to
// contributors, not users): do not default a boolean to true, because false
// is the boolean zero value and this will be ignored when parsing the user's
// config.
func GetDefaultConfig() UserConfig {
	return UserConfig{
		Gui: GuiConfig{
			ScrollHeight:      2,
			ScrollPastBottom:  false,
			IgnoreMouseEvents: false,
			Theme: ThemeConfig{
				ActiveBorderColor:   []string{"green", "bold"},
				InactiveBorderColor: []string{"default"},
				OptionsTextColor:    []string{"blue"},
				SyscallCategoryColors: map[string]string{
					"file":       "blue",
					"process":    "magenta",
					"memory":     "cyan",
					"network":    "green",
					"filesystem": "yellow",
					"time":       "light-blue",
					"signal":     "light-red",
					"security":   "light-magenta",
					"poll":       "light-green",
					"resource":   "light-yellow",
					"other":      "white",
				},
				ErrorColor:       "red",
				SearchMatchColor: "yellow",
				ProcessLaneColors: []string{
					"blue", "green", "yellow", "magenta", "cyan", "red",
				},
			},
			ShowHiddenOnStart: false,
			WrapArguments:     false,
			MaxArgumentWidth:  120,
		},
		Filter: FilterConfig{
			HiddenSyscalls: []string{},
		},
		Editor: "",
		Resolver: ResolverConfig{
			Enabled: true,
			Async:   true,
		},
		Tracer: TracerConfig{
			StracePath:    "strace",
			ExtraArgs:     "",
			StringLimit:   1024,
			KeepTraceFile: false,
		},
		ConfirmOnQuit: false,
	}
}

// AppConfig contains the base configuration fields required for stracetui.
type AppConfig struct {
	Debug       bool   `long:"debug" env:"DEBUG" default:"false"`
	Version     string `long:"version" env:"VERSION" default:"unversioned"`
	Commit      string `long:"commit" env:"COMMIT"`
	BuildDate   string `long:"build-date" env:"BUILD_DATE"`
	Name        string `long:"name" env:"NAME" default:"stracetui"`
	BuildSource string `long:"build-source" env:"BUILD_SOURCE" default:""`
	UserConfig  *UserConfig
	ConfigDir   string
	ProjectDir  string
}

// NewAppConfig makes a new app config.
func NewAppConfig(name, version, commit, date string, buildSource string, debuggingFlag bool, projectDir string) (*AppConfig, error) {
	configDir, err := findOrCreateConfigDir(name)
	if err != nil {
		return nil, err
	}

	userConfig, err := loadUserConfigWithDefaults(configDir)
	if err != nil {
		return nil, err
	}

	appConfig := &AppConfig{
		Name:        name,
		Version:     version,
		Commit:      commit,
		BuildDate:   date,
		Debug:       debuggingFlag || os.Getenv("DEBUG") == "TRUE",
		BuildSource: buildSource,
		UserConfig:  userConfig,
		ConfigDir:   configDir,
		ProjectDir:  projectDir,
	}

	return appConfig, nil
}

func configDirForVendor(vendor string, projectName string) string {
	envConfigDir := os.Getenv("CONFIG_DIR")
	if envConfigDir != "" {
		return envConfigDir
	}
	configDirs := xdg.New(vendor, projectName)
	return configDirs.ConfigHome()
}

func configDir(projectName string) string {
	return configDirForVendor("", projectName)
}

func findOrCreateConfigDir(projectName string) (string, error) {
	folder := configDir(projectName)

	err := os.MkdirAll(folder, 0o755)
	if err != nil {
		return "", xerrors.Errorf("creating config dir %q: %w", folder, err)
	}

	return folder, nil
}

// loadUserConfigWithDefaults reads config.yml (creating an empty one if it
// doesn't exist yet) and merges it over GetDefaultConfig(), with values
// present in the file taking precedence.
func loadUserConfigWithDefaults(configDir string) (*UserConfig, error) {
	base := GetDefaultConfig()
	return loadUserConfig(configDir, &base)
}

func loadUserConfig(configDir string, base *UserConfig) (*UserConfig, error) {
	fileName := filepath.Join(configDir, "config.yml")

	if _, err := os.Stat(fileName); err != nil {
		if os.IsNotExist(err) {
			file, err := os.Create(fileName)
			if err != nil {
				return nil, xerrors.Errorf("creating config file %q: %w", fileName, err)
			}
			file.Close()
		} else {
			return nil, xerrors.Errorf("statting config file %q: %w", fileName, err)
		}
	}

	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, xerrors.Errorf("reading config file %q: %w", fileName, err)
	}

	var fromFile UserConfig
	if err := yaml.Unmarshal(content, &fromFile); err != nil {
		return nil, xerrors.Errorf("parsing config file %q: %w", fileName, err)
	}

	if err := mergo.Merge(base, fromFile, mergo.WithOverride); err != nil {
		return nil, xerrors.Errorf("merging config file %q over defaults: %w", fileName, err)
	}

	return base, nil
}

// WriteToUserConfig allows you to set a value on the user config to be saved.
// Note that if you set a zero-value, it may be ignored e.g. a false or 0 or
// empty string, this is because we are using the omitempty yaml directive so
// that we don't write a heap of zero values to the user's config.yml.
func (c *AppConfig) WriteToUserConfig(updateConfig func(*UserConfig) error) error {
	userConfig, err := loadUserConfig(c.ConfigDir, &UserConfig{})
	if err != nil {
		return err
	}

	if err := updateConfig(userConfig); err != nil {
		return err
	}

	file, err := os.OpenFile(c.ConfigFilename(), os.O_WRONLY|os.O_CREATE, 0o666)
	if err != nil {
		return xerrors.Errorf("opening config file %q for write: %w", c.ConfigFilename(), err)
	}
	defer file.Close()

	return yaml.NewEncoder(file).Encode(userConfig)
}

// ConfigFilename returns the filename of the current config file.
func (c *AppConfig) ConfigFilename() string {
	return filepath.Join(c.ConfigDir, "config.yml")
}

// PollInterval is how often, in `trace` mode, the TUI re-reads the
// tracer's output file and rebuilds the list from it.
const PollInterval = 200 * time.Millisecond
