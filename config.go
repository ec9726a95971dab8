package gist

import "github.com/goliatone/go-gist/internal/runtimeconfig"

var (
	ErrCacheLocationRequired    = runtimeconfig.ErrCacheLocationRequired
	ErrCacheDriverUnknown       = runtimeconfig.ErrCacheDriverUnknown
	ErrRemoteURLInvalid         = runtimeconfig.ErrRemoteURLInvalid
	ErrHighlightStyleUnknown    = runtimeconfig.ErrHighlightStyleUnknown
	ErrHighlightTabWidthInvalid = runtimeconfig.ErrHighlightTabWidthInvalid
	ErrMarkdownPatternInvalid   = runtimeconfig.ErrMarkdownPatternInvalid
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFormatUnsupported  = runtimeconfig.ErrConfigFormatUnsupported
	ErrSettingInvalid           = runtimeconfig.ErrSettingInvalid
)

type (
	Config          = runtimeconfig.Config
	CacheConfig     = runtimeconfig.CacheConfig
	RemoteConfig    = runtimeconfig.RemoteConfig
	HighlightConfig = runtimeconfig.HighlightConfig
	EmbedConfig     = runtimeconfig.EmbedConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a TOML or YAML config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// ConfigFromSettings builds a Config from a host settings map such as
// {"CACHE_ENABLED": true, "CACHE_LOCATION": "/tmp/gists"}.
func ConfigFromSettings(settings map[string]any) (Config, error) {
	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplySettings(&cfg, settings); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}
