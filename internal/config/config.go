package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/dshills/markupcore/internal/config/loader"
	"github.com/dshills/markupcore/internal/engine/document"
	"github.com/dshills/markupcore/internal/engine/syntax"
	"github.com/dshills/markupcore/internal/format"
	"github.com/dshills/markupcore/internal/renderer/core"
	"github.com/dshills/markupcore/internal/renderer/style"
)

// Format is a configuration file format.
type Format = loader.Format

// Supported formats.
const (
	FormatTOML = loader.FormatTOML
	FormatYAML = loader.FormatYAML
)

// DefaultMaxIncludeDepth limits nested @include directives.
const DefaultMaxIncludeDepth = 8

// Config holds all settings.
type Config struct {
	Theme ThemeConfig `yaml:"theme"`
	Cache CacheConfig `yaml:"cache"`
	Debug DebugConfig `yaml:"debug"`
}

// ThemeConfig describes how nodes are styled.
type ThemeConfig struct {
	// Base is applied beneath every descriptor when it is realized.
	Base StyleConfig `yaml:"base"`

	// MergeMode is "overlay", "replace" or "attributes".
	MergeMode string `yaml:"mergeMode"`

	// Builtin starts from the built-in node styles. Entries in Nodes
	// replace built-in entries of the same type.
	Builtin bool `yaml:"builtin"`

	// Nodes maps node types to styles.
	Nodes map[string]StyleConfig `yaml:"nodes"`
}

// StyleConfig is the file form of a style descriptor. Colors are "#rgb",
// "#rrggbb", a palette index, one of a few names, or "default".
type StyleConfig struct {
	Foreground    string  `yaml:"foreground"`
	Background    string  `yaml:"background"`
	Bold          bool    `yaml:"bold"`
	Italic        bool    `yaml:"italic"`
	Underline     bool    `yaml:"underline"`
	Strikethrough bool    `yaml:"strikethrough"`
	Dim           bool    `yaml:"dim"`
	Font          string  `yaml:"font"`
	Size          float64 `yaml:"size"`

	Indent          int `yaml:"indent"`
	FirstLineIndent int `yaml:"firstLineIndent"`
	SpacingBefore   int `yaml:"spacingBefore"`
}

// CacheConfig configures the style cache.
type CacheConfig struct {
	// Preload realizes every theme style when a formatter is built.
	Preload bool `yaml:"preload"`

	// Capacity bounds the number of realized styles kept. Zero means
	// unbounded.
	Capacity int `yaml:"capacity"`
}

// DebugConfig holds debugging switches.
type DebugConfig struct {
	// Validate checks every parsed tree before it is used.
	Validate bool `yaml:"validate"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Theme: ThemeConfig{
			MergeMode: style.MergeOverlay.String(),
			Builtin:   true,
			Nodes:     make(map[string]StyleConfig),
		},
		Debug: DebugConfig{
			LogLevel: zerolog.InfoLevel.String(),
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
	maxDepth  int
}

// WithFS reads files through fsys.
func WithFS(fsys loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnv layers environment variables with the given prefix over the
// file. An empty prefix means MARKUPCORE_.
func WithEnv(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.useEnv = true
		o.envPrefix = prefix
	}
}

// WithMaxIncludeDepth limits nested @include directives.
func WithMaxIncludeDepth(depth int) LoadOption {
	return func(o *loadOptions) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Load reads the configuration file at path, following its includes.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{fs: loader.DefaultFS(), maxDepth: DefaultMaxIncludeDepth}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := loader.NewWithFS(o.fs).LoadWithIncludes(path, o.maxDepth)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("load %s: %w", path, ErrFileNotFound)
	}

	if o.useEnv {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		m = loader.DeepMerge(m, env)
	}

	cfg, err := decode(m)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration in the given format. Includes are not
// followed.
func Parse(data []byte, format Format) (*Config, error) {
	m, err := loader.Parse("<data>", data, format)
	if err != nil {
		return nil, err
	}
	return decode(m)
}

// decode applies a generic settings map onto the defaults. The map is
// round-tripped through YAML so that TOML, YAML and environment values
// share one set of field tags.
func decode(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting that cannot be checked while decoding.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Theme.Base.Descriptor(); err != nil {
		errs = append(errs, fmt.Errorf("theme.base: %w", err))
	}
	for _, name := range slices.Sorted(maps.Keys(c.Theme.Nodes)) {
		if _, err := c.Theme.Nodes[name].Descriptor(); err != nil {
			errs = append(errs, fmt.Errorf("theme.nodes.%s: %w", name, err))
		}
	}
	if _, err := parseMergeMode(c.Theme.MergeMode); err != nil {
		errs = append(errs, fmt.Errorf("theme.mergeMode: %w", err))
	}
	if c.Cache.Capacity < 0 {
		errs = append(errs, fmt.Errorf("cache.capacity %d: %w", c.Cache.Capacity, ErrInvalidValue))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("debug.logLevel: %w", err))
	}
	return errors.Join(errs...)
}

// Descriptor converts s to a style descriptor.
func (s StyleConfig) Descriptor() (core.Style, error) {
	d := core.DefaultStyle()

	fg, err := parseColor(s.Foreground)
	if err != nil {
		return core.Style{}, fmt.Errorf("foreground: %w", err)
	}
	bg, err := parseColor(s.Background)
	if err != nil {
		return core.Style{}, fmt.Errorf("background: %w", err)
	}
	if s.Size < 0 {
		return core.Style{}, fmt.Errorf("size %g: %w", s.Size, ErrInvalidValue)
	}
	d = d.WithForeground(fg).WithBackground(bg)

	if s.Bold {
		d = d.Bold()
	}
	if s.Italic {
		d = d.Italic()
	}
	if s.Underline {
		d = d.Underline()
	}
	if s.Strikethrough {
		d = d.Strikethrough()
	}
	if s.Dim {
		d = d.Dim()
	}

	return d.
		WithFont(core.Font{Family: s.Font, Size: s.Size}).
		WithParagraph(core.Paragraph{
			Indent:          s.Indent,
			FirstLineIndent: s.FirstLineIndent,
			SpacingBefore:   s.SpacingBefore,
		}), nil
}

var namedColors = map[string]core.Color{
	"black": core.ColorBlack,
	"white": core.ColorWhite,
	"red":   core.ColorRed,
	"blue":  core.ColorBlue,
	"gray":  core.ColorGray,
	"grey":  core.ColorGray,
}

func parseColor(s string) (core.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, "default"):
		return core.ColorDefault, nil
	case strings.HasPrefix(s, "#"):
		c, err := core.ColorFromHex(s)
		if err != nil {
			return core.Color{}, fmt.Errorf("%w: %w", ErrInvalidColor, err)
		}
		return c, nil
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if i, err := strconv.ParseUint(s, 10, 8); err == nil {
		return core.ColorFromIndex(uint8(i)), nil
	}
	return core.Color{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
}

func parseMergeMode(s string) (style.MergeMode, error) {
	for _, m := range []style.MergeMode{style.MergeOverlay, style.MergeReplace, style.MergeAttributes} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	if s == "" {
		return style.MergeOverlay, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidValue)
}

// LogLevel parses Debug.LogLevel. An empty level means info.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Debug.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Debug.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return lvl, nil
}

// ThemeStyles returns the base descriptor and the descriptor of every
// configured node type.
func (c *Config) ThemeStyles() (base core.Style, nodes map[string]core.Style, err error) {
	base, err = c.Theme.Base.Descriptor()
	if err != nil {
		return core.Style{}, nil, fmt.Errorf("theme.base: %w", err)
	}
	nodes = make(map[string]core.Style, len(c.Theme.Nodes))
	for name, sc := range c.Theme.Nodes {
		d, err := sc.Descriptor()
		if err != nil {
			return core.Style{}, nil, fmt.Errorf("theme.nodes.%s: %w", name, err)
		}
		nodes[name] = d
	}
	return base, nodes, nil
}

// FormatTheme builds the theme used to format trees. The base style is not
// part of it; Materializer applies it when descriptors are realized.
func (c *Config) FormatTheme() (format.Theme, error) {
	_, nodes, err := c.ThemeStyles()
	if err != nil {
		return format.Theme{}, err
	}
	theme := format.NewTheme(core.DefaultStyle())
	if c.Theme.Builtin {
		theme = format.DefaultTheme()
	}
	for name, d := range nodes {
		theme = theme.With(syntax.NodeType(name), d)
	}
	return theme, nil
}

// Materializer builds the materializer realizing descriptors on top of the
// base style.
func (c *Config) Materializer() (*style.ThemeMaterializer, error) {
	base, err := c.Theme.Base.Descriptor()
	if err != nil {
		return nil, fmt.Errorf("theme.base: %w", err)
	}
	mode, err := parseMergeMode(c.Theme.MergeMode)
	if err != nil {
		return nil, fmt.Errorf("theme.mergeMode: %w", err)
	}
	return style.NewMaterializer(base).WithMergeMode(mode), nil
}

// NewFormatter builds a formatter with a fresh style cache for this
// configuration.
func (c *Config) NewFormatter() (*format.Formatter, error) {
	m, err := c.Materializer()
	if err != nil {
		return nil, err
	}
	theme, err := c.FormatTheme()
	if err != nil {
		return nil, err
	}

	cache := style.NewCache(m, style.WithCapacity(c.Cache.Capacity))
	if c.Cache.Preload {
		cache.Materialize(theme.Default)
		for _, d := range theme.Styles {
			cache.Materialize(theme.Default.Merge(d))
		}
	}
	return format.New(theme, cache), nil
}

// DocumentOptions returns the document options selected by the debug
// settings. logger is filtered to the configured level.
func (c *Config) DocumentOptions(logger zerolog.Logger) ([]document.Option, error) {
	lvl, err := c.LogLevel()
	if err != nil {
		return nil, err
	}
	return []document.Option{
		document.WithLogger(logger.Level(lvl)),
		document.WithValidation(c.Debug.Validate),
	}, nil
}
