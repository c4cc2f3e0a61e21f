// Package config provides configuration types and defaults for the editor
// and its demo host.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"richtext/internal/log"
)

// Config holds all configuration options.
type Config struct {
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`
	Fonts  FontsConfig  `mapstructure:"fonts" yaml:"fonts"`
	Window WindowConfig `mapstructure:"window" yaml:"window"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// EditorConfig tunes the engine.
type EditorConfig struct {
	IndentStep     float64 `mapstructure:"indent_step" yaml:"indent_step"`
	Obliqueness    float64 `mapstructure:"obliqueness" yaml:"obliqueness"`
	ListMarker     string  `mapstructure:"list_marker" yaml:"list_marker"`           // exactly one character
	InlineMaxWidth float64 `mapstructure:"inline_max_width" yaml:"inline_max_width"` // widest inline image, in points
}

// FontsConfig holds the point size of each size class.
type FontsConfig struct {
	LargeTitle float64 `mapstructure:"large_title" yaml:"large_title"`
	Title1     float64 `mapstructure:"title1" yaml:"title1"`
	Title2     float64 `mapstructure:"title2" yaml:"title2"`
	Title3     float64 `mapstructure:"title3" yaml:"title3"`
	Body       float64 `mapstructure:"body" yaml:"body"`
}

type WindowConfig struct {
	Title  string `mapstructure:"title" yaml:"title"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
}

type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"` // empty disables logging
	Level string `mapstructure:"level" yaml:"level"`
}

func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			IndentStep:     32,
			Obliqueness:    0.3,
			ListMarker:     "•",
			InlineMaxWidth: 414,
		},
		Fonts: FontsConfig{
			LargeTitle: 32,
			Title1:     28,
			Title2:     26,
			Title3:     24,
			Body:       18,
		},
		Window: WindowConfig{
			Title:  "Rich Text",
			Width:  1100,
			Height: 760,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ListMarkerRune returns the configured marker as a rune.
func (e EditorConfig) ListMarkerRune() rune {
	r, _ := utf8.DecodeRuneInString(e.ListMarker)
	return r
}

var ErrInvalidConfig = errors.New("config: invalid")

func (c Config) Validate() error {
	var problems []string
	if c.Editor.IndentStep <= 0 {
		problems = append(problems, "editor.indent_step must be positive")
	}
	if c.Editor.Obliqueness == 0 {
		problems = append(problems, "editor.obliqueness must be non-zero")
	}
	if utf8.RuneCountInString(c.Editor.ListMarker) != 1 {
		problems = append(problems, "editor.list_marker must be exactly one character")
	}
	if c.Editor.InlineMaxWidth <= 0 {
		problems = append(problems, "editor.inline_max_width must be positive")
	}
	for name, size := range map[string]float64{
		"large_title": c.Fonts.LargeTitle,
		"title1":      c.Fonts.Title1,
		"title2":      c.Fonts.Title2,
		"title3":      c.Fonts.Title3,
		"body":        c.Fonts.Body,
	} {
		if size <= 0 {
			problems = append(problems, "fonts."+name+" must be positive")
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, "window size must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// SetDefaults registers every default on v so partial files still load.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor.indent_step", d.Editor.IndentStep)
	v.SetDefault("editor.obliqueness", d.Editor.Obliqueness)
	v.SetDefault("editor.list_marker", d.Editor.ListMarker)
	v.SetDefault("editor.inline_max_width", d.Editor.InlineMaxWidth)
	v.SetDefault("fonts.large_title", d.Fonts.LargeTitle)
	v.SetDefault("fonts.title1", d.Fonts.Title1)
	v.SetDefault("fonts.title2", d.Fonts.Title2)
	v.SetDefault("fonts.title3", d.Fonts.Title3)
	v.SetDefault("fonts.body", d.Fonts.Body)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads path (yaml) over the defaults. An empty path loads defaults
// plus RICHTEXT_* environment overrides only.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("RICHTEXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to read config", err, "path", path)
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Debug(log.CatConfig, "Loaded config", "path", path)
	return cfg, nil
}

// WriteDefault writes the defaults as yaml to path.
func WriteDefault(path string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", path)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", path)
	return nil
}
