package runtimeconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSettingInvalid = errors.New("gist config: host setting has an invalid value")

// Host setting names. Each is also accepted with the SettingsPrefix.
const (
	SettingCacheEnabled   = "CACHE_ENABLED"
	SettingCacheLocation  = "CACHE_LOCATION"
	SettingHighlightStyle = "HIGHLIGHT_STYLE"
	SettingLineNumbers    = "LINE_NUMBERS"

	SettingsPrefix = "GIST_"
)

// ApplySettings overlays a host settings map onto cfg. Unprefixed names are
// applied first so GIST_-prefixed names win. Unknown keys are ignored.
func ApplySettings(cfg *Config, settings map[string]any) error {
	if cfg == nil || len(settings) == 0 {
		return nil
	}
	for _, prefix := range []string{"", SettingsPrefix} {
		if err := applySettings(cfg, settings, prefix); err != nil {
			return err
		}
	}
	return nil
}

func applySettings(cfg *Config, settings map[string]any, prefix string) error {
	if raw, ok := settings[prefix+SettingCacheEnabled]; ok {
		value, err := boolSetting(prefix+SettingCacheEnabled, raw)
		if err != nil {
			return err
		}
		cfg.Cache.Enabled = value
	}
	if raw, ok := settings[prefix+SettingCacheLocation]; ok {
		value, err := stringSetting(prefix+SettingCacheLocation, raw)
		if err != nil {
			return err
		}
		cfg.Cache.Location = value
	}
	if raw, ok := settings[prefix+SettingHighlightStyle]; ok {
		value, err := stringSetting(prefix+SettingHighlightStyle, raw)
		if err != nil {
			return err
		}
		cfg.Highlight.Style = value
	}
	if raw, ok := settings[prefix+SettingLineNumbers]; ok {
		value, err := boolSetting(prefix+SettingLineNumbers, raw)
		if err != nil {
			return err
		}
		cfg.Highlight.LineNumbers = value
	}
	return nil
}

func boolSetting(name string, raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %s=%q", ErrSettingInvalid, name, v)
		}
		return parsed, nil
	case int:
		return v != 0, nil
	default:
		return false, fmt.Errorf("%w: %s has type %T", ErrSettingInvalid, name, raw)
	}
}

func stringSetting(name string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: %s has type %T", ErrSettingInvalid, name, raw)
	}
}
