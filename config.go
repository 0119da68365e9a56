package ninecms

import "github.com/goliatone/go-ninecms/internal/runtimeconfig"

var (
	ErrSiteNameRequired                  = runtimeconfig.ErrSiteNameRequired
	ErrDefaultLanguageRequired           = runtimeconfig.ErrDefaultLanguageRequired
	ErrLanguageMenuLabelsInvalid         = runtimeconfig.ErrLanguageMenuLabelsInvalid
	ErrTransliterateTablesMismatched     = runtimeconfig.ErrTransliterateTablesMismatched
	ErrStorageProviderUnknown            = runtimeconfig.ErrStorageProviderUnknown
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
)

type (
	Config              = runtimeconfig.Config
	SiteConfig          = runtimeconfig.SiteConfig
	I18NConfig          = runtimeconfig.I18NConfig
	TransliterateConfig = runtimeconfig.TransliterateConfig
	StorageConfig       = runtimeconfig.StorageConfig
	CacheConfig         = runtimeconfig.CacheConfig
	LoggingConfig       = runtimeconfig.LoggingConfig
	Features            = runtimeconfig.Features
)

// DefaultConfig returns the default module configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
