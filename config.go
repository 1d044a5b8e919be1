package strptime

import (
	"time"

	"go.uber.org/zap"
)

// Config captures parser setup
type Config struct {
	LocaleSource LocaleSource
	Renderer     Renderer
	Location     *time.Location
	Overrides    OverrideSet
	Resolver     FallbackResolver
	Logger       *zap.Logger

	overridePaths []string
	formatCache   *FormatCache
	localeCache   *LocaleCache
}

// Option mutates Config during construction
type Option func(*Config) error

// NewConfig builds Config via supplied options
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyOverrideFiles(); err != nil {
		return nil, err
	}

	if err := cfg.Overrides.Validate(); err != nil {
		return nil, err
	}

	if cfg.LocaleSource == nil {
		cfg.LocaleSource = EnvLocale
	}

	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	if cfg.Resolver == nil {
		cfg.Resolver = NewStaticFallbackResolver()
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.formatCache == nil {
		cfg.formatCache = NewFormatCache()
	}

	if cfg.localeCache == nil {
		cfg.localeCache = NewLocaleCache()
	}

	return cfg, nil
}

// WithLocale pins the parser to locale instead of the environment.
func WithLocale(locale string) Option {
	return func(c *Config) error {
		c.LocaleSource = StaticLocale(locale)
		return nil
	}
}

func WithLocaleSource(source LocaleSource) Option {
	return func(c *Config) error {
		c.LocaleSource = source
		return nil
	}
}

// WithRenderer replaces the per-locale renderer selection with renderer for
// every locale.
func WithRenderer(renderer Renderer) Option {
	return func(c *Config) error {
		c.Renderer = renderer
		return nil
	}
}

// WithLocation sets the zone used when harvesting timezone names.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) error {
		c.Location = loc
		return nil
	}
}

// WithOverrides registers table overrides for locale; "" applies to all
// locales.
func WithOverrides(locale string, overrides LocaleOverrides) Option {
	return func(c *Config) error {
		if err := overrides.Validate(); err != nil {
			return err
		}
		if c.Overrides == nil {
			c.Overrides = make(OverrideSet)
		}
		key := normalizeLocale(locale)
		c.Overrides[key] = overrides.merge(c.Overrides[key])
		return nil
	}
}

func WithFallbackResolver(resolver FallbackResolver) Option {
	return func(c *Config) error {
		c.Resolver = resolver
		return nil
	}
}

// WithFallback sets the locales consulted for bundled names and overrides
// when locale has none of its own. A custom resolver set earlier keeps
// answering for every other locale.
func WithFallback(locale string, fallbacks ...string) Option {
	return func(c *Config) error {
		if normalizeLocale(locale) == "" {
			return nil
		}
		resolver, ok := c.Resolver.(*StaticFallbackResolver)
		if !ok {
			resolver = NewLayeredFallbackResolver(c.Resolver)
			c.Resolver = resolver
		}
		resolver.Set(locale, fallbacks...)
		return nil
	}
}

// WithOverridesFile loads overrides from a JSON or YAML file when the config
// is built. Entries from later files win.
func WithOverridesFile(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		c.overridePaths = append(c.overridePaths, path)
		return nil
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithFormatCache shares a compiled format cache between parsers. Parsers
// sharing a cache must agree on renderer and overrides.
func WithFormatCache(cache *FormatCache) Option {
	return func(c *Config) error {
		c.formatCache = cache
		return nil
	}
}

// WithLocaleCache shares harvested locale tables between parsers.
func WithLocaleCache(cache *LocaleCache) Option {
	return func(c *Config) error {
		c.localeCache = cache
		return nil
	}
}

// BuildParser returns a Parser wired from the config.
func (cfg *Config) BuildParser() *Parser {
	return &Parser{
		localeSource: cfg.LocaleSource,
		newLocale:    cfg.newLocaleTime,
		locales:      cfg.localeCache,
		formats:      cfg.formatCache,
		logger:       cfg.Logger,
	}
}

// FormatCache exposes the compiled format cache used by built parsers.
func (cfg *Config) FormatCache() *FormatCache {
	if cfg == nil {
		return nil
	}
	return cfg.formatCache
}

// LocaleCache exposes the harvested locale cache used by built parsers.
func (cfg *Config) LocaleCache() *LocaleCache {
	if cfg == nil {
		return nil
	}
	return cfg.localeCache
}

// RendererFor returns the renderer used to harvest lang.
func (cfg *Config) RendererFor(lang string) Renderer {
	if cfg.Renderer != nil {
		return cfg.Renderer
	}
	return newChainRenderer(lookupChain(cfg.Resolver, lang), cfg.Location)
}

func (cfg *Config) newLocaleTime(lang string) (*LocaleTime, error) {
	overrides := cfg.Overrides.resolveChain(lookupChain(cfg.Resolver, lang))
	return NewLocaleTime(cfg.RendererFor(lang), lang, overrides)
}

func (cfg *Config) applyOverrideFiles() error {
	for _, path := range cfg.overridePaths {
		set, err := LoadOverrides(path)
		if err != nil {
			return err
		}
		if cfg.Overrides == nil {
			cfg.Overrides = make(OverrideSet, len(set))
		}
		for locale, overrides := range set {
			cfg.Overrides[locale] = overrides.merge(cfg.Overrides[locale])
		}
	}
	return nil
}
