package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrSiteNameRequired indicates the site name was left empty.
var ErrSiteNameRequired = errors.New("cms config: site name is required")

// ErrDefaultLanguageRequired indicates no default language was configured.
var ErrDefaultLanguageRequired = errors.New("cms config: default language is required")

// ErrLanguageMenuLabelsInvalid rejects unknown language menu label styles.
var ErrLanguageMenuLabelsInvalid = errors.New("cms config: language menu labels must be name, code or flag")

// ErrTransliterateTablesMismatched ensures replacement tables stay aligned.
var ErrTransliterateTablesMismatched = errors.New("cms config: transliterate replace tables must have equal length")

var ErrStorageProviderUnknown = errors.New("cms config: storage provider is invalid")
var ErrLoggingProviderRequired = errors.New("cms config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("cms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("cms config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("cms config: logging format is invalid")
var ErrAdvancedCacheRequiresEnabledCache = errors.New("cms config: advanced cache feature requires cache to be enabled")

// Language menu label styles.
const (
	LanguageLabelName = "name"
	LanguageLabelCode = "code"
	LanguageLabelFlag = "flag"
)

// Config aggregates site metadata, i18n behaviour and adapter bindings for
// the CMS module. Fields intentionally use simple types so host applications
// can extend them later.
type Config struct {
	Enabled       bool
	Site          SiteConfig
	I18N          I18NConfig
	Transliterate TransliterateConfig
	Storage       StorageConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Features      Features
}

// SiteConfig carries site-wide metadata injected into every composed page.
// URL is the absolute base used when feeds and sitemaps need full links.
type SiteConfig struct {
	Name     string
	Author   string
	Keywords string
	URL      string
}

// I18NConfig captures language handling for alias resolution and menu paths.
type I18NConfig struct {
	// DefaultLanguage is assumed when a request carries no language code.
	DefaultLanguage string
	// Languages lists the codes content may be authored in. The empty code
	// (language-neutral) is always implied and never listed here.
	Languages []string
	// URLPrefix prepends "/<language>" to generated paths when set.
	URLPrefix bool
	// LanguageMenuLabels selects what a language block hands to templates:
	// name, code or flag.
	LanguageMenuLabels string
}

// TransliterateConfig exposes the character tables used when deriving URL
// aliases from titles. Replace maps ReplaceFrom[i] to ReplaceTo[i]; Remove
// lists characters dropped outright.
type TransliterateConfig struct {
	Remove      string
	ReplaceFrom string
	ReplaceTo   string
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Logger        bool
	AdvancedCache bool
	Feeds         bool
}

// DefaultConfig returns opinionated defaults mirroring the original 9cms
// settings module.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Name:   "9cms",
			Author: "9cms",
		},
		I18N: I18NConfig{
			DefaultLanguage:    "en",
			Languages:          []string{"en"},
			URLPrefix:          true,
			LanguageMenuLabels: LanguageLabelName,
		},
		Transliterate: TransliterateConfig{
			Remove:      `"'` + "`" + `,:;|{[}]+=*&%^$#@!~()?<>`,
			ReplaceFrom: ` .-_/`,
			ReplaceTo:   `-----`,
		},
		Storage: StorageConfig{
			Provider: "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Name) == "" {
		return ErrSiteNameRequired
	}
	if strings.TrimSpace(cfg.I18N.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	switch cfg.I18N.LanguageMenuLabels {
	case "", LanguageLabelName, LanguageLabelCode, LanguageLabelFlag:
	default:
		return fmt.Errorf("%w: %s", ErrLanguageMenuLabelsInvalid, cfg.I18N.LanguageMenuLabels)
	}
	if len(cfg.Transliterate.ReplaceFrom) != len(cfg.Transliterate.ReplaceTo) {
		return ErrTransliterateTablesMismatched
	}
	if provider := normalize(cfg.Storage.Provider); provider != "" && !isSupportedStorage(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedLoggingProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedStorage(provider string) bool {
	switch provider {
	case "sqlite", "postgres", "memory":
		return true
	default:
		return false
	}
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
