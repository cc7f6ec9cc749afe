package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidateStartupConfigWithGetterEmpty verifies missing required keys fail validation.
func TestValidateStartupConfigWithGetterEmpty(t *testing.T) {
	err := validateStartupConfigWithGetter(newMapConfigGetter(map[string]any{}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.telegram.token is required")
	require.Contains(t, err.Error(), "settings.db.media.addr is required")
	require.Contains(t, err.Error(), "settings.s3.endpoint is required")
}

// TestValidateStartupConfigWithGetterValidConfig verifies a fully configured bot passes validation.
func TestValidateStartupConfigWithGetterValidConfig(t *testing.T) {
	err := validateStartupConfigWithGetter(newMapConfigGetter(validBotConfig()))
	require.NoError(t, err)
}

// TestValidateStartupConfigWithGetterInvalidURL verifies malformed URL values fail validation.
func TestValidateStartupConfigWithGetterInvalidURL(t *testing.T) {
	cfg := validBotConfig()
	cfg["settings"].(map[string]any)["telegram"].(map[string]any)["api"] = "not a url"

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.telegram.api must be a valid absolute URL")
}

// TestValidateStartupConfigWithGetterInvalidPrefix verifies a slash-leading prefix fails validation.
func TestValidateStartupConfigWithGetterInvalidPrefix(t *testing.T) {
	cfg := validBotConfig()
	cfg["settings"].(map[string]any)["telegram"].(map[string]any)["prefix"] = "/x"

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.telegram.prefix must not start with '/'")
}

// TestValidateStartupConfigWithGetterInvalidMaxSize verifies the size cap lower bound.
func TestValidateStartupConfigWithGetterInvalidMaxSize(t *testing.T) {
	cfg := validBotConfig()
	cfg["settings"].(map[string]any)["media"] = map[string]any{
		"max_file_size_mb": 0,
	}

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.media.max_file_size_mb must be >= 1")
}

// TestValidateStartupConfigWithGetterInvalidBoolean verifies invalid boolean configuration fails validation.
func TestValidateStartupConfigWithGetterInvalidBoolean(t *testing.T) {
	cfg := validBotConfig()
	cfg["settings"].(map[string]any)["s3"].(map[string]any)["use_ssl"] = "not-a-bool"

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.s3.use_ssl must be a boolean")
}

// TestValidateStartupConfigWithGetterEmptyBasePath verifies a slash-only base path fails validation.
func TestValidateStartupConfigWithGetterEmptyBasePath(t *testing.T) {
	cfg := validBotConfig()
	cfg["settings"].(map[string]any)["media"] = map[string]any{
		"base_path": "///",
	}

	err := validateStartupConfigWithGetter(newMapConfigGetter(cfg))
	require.Error(t, err)
	require.Contains(t, err.Error(), "settings.media.base_path must not be empty")
}

// TestValidateStartupConfigWithGetterNil verifies a nil getter is rejected.
func TestValidateStartupConfigWithGetterNil(t *testing.T) {
	err := validateStartupConfigWithGetter(nil)
	require.Error(t, err)
}

// validBotConfig returns a minimal configuration that passes startup validation.
func validBotConfig() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"telegram": map[string]any{
				"token": "123456:bot-token",
			},
			"db": map[string]any{
				"media": map[string]any{
					"addr": "localhost",
					"db":   "media",
					"user": "media",
					"pwd":  "media",
				},
			},
			"s3": map[string]any{
				"endpoint":   "s3.example.com",
				"access_key": "ak",
				"secret_key": "sk",
				"bucket":     "media",
			},
		},
	}
}

// newMapConfigGetter builds a dotted-path getter for nested map-based test configuration.
// It accepts a nested map and returns a getter function compatible with validateStartupConfigWithGetter.
func newMapConfigGetter(root map[string]any) configGetter {
	return func(key string) any {
		if key == "" {
			return nil
		}

		parts := strings.Split(key, ".")
		var current any = root
		for _, part := range parts {
			nextMap, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			next, exists := nextMap[part]
			if !exists {
				return nil
			}
			current = next
		}

		return current
	}
}
