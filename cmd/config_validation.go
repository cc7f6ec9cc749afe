package cmd

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.S.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It accepts a value getter and returns nil when all configured values are valid.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateTelegramConfig(get, &validationErrs)
	validateDBConfig(get, &validationErrs)
	validateS3Config(get, &validationErrs)
	validateMediaConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateTelegramConfig validates telegram bot configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateTelegramConfig(get configGetter, errs *[]string) {
	validateRequiredStringNonEmpty(get, "settings.telegram.token", errs)
	validateOptionalURL(get, "settings.telegram.api", errs)

	rawPrefix := get("settings.telegram.prefix")
	if rawPrefix == nil {
		return
	}

	prefix, parseErr := parseStrictString(rawPrefix)
	if parseErr != nil || strings.TrimSpace(prefix) == "" {
		appendValidationError(errs, "settings.telegram.prefix must be a non-empty string")
		return
	}

	if strings.HasPrefix(prefix, "/") {
		appendValidationError(errs, "settings.telegram.prefix must not start with '/'")
	}
}

// validateDBConfig validates media database connection values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateDBConfig(get configGetter, errs *[]string) {
	keys := []string{
		"settings.db.media.addr",
		"settings.db.media.db",
		"settings.db.media.user",
		"settings.db.media.pwd",
	}

	for _, key := range keys {
		validateRequiredStringNonEmpty(get, key, errs)
	}
}

// validateS3Config validates object storage configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateS3Config(get configGetter, errs *[]string) {
	validateRequiredStringNonEmpty(get, "settings.s3.endpoint", errs)
	validateRequiredStringNonEmpty(get, "settings.s3.access_key", errs)
	validateRequiredStringNonEmpty(get, "settings.s3.secret_key", errs)
	validateRequiredStringNonEmpty(get, "settings.s3.bucket", errs)
	validateOptionalBool(get, "settings.s3.use_ssl", errs)
	validateOptionalURL(get, "settings.s3.public_prefix", errs)
}

// validateMediaConfig validates media policy configuration values.
// It accepts a getter and an error collector pointer and appends validation errors.
func validateMediaConfig(get configGetter, errs *[]string) {
	validateOptionalInt64Min(get, "settings.media.max_file_size_mb", 1, errs)

	rawBasePath := get("settings.media.base_path")
	if rawBasePath == nil {
		return
	}

	basePath, parseErr := parseStrictString(rawBasePath)
	if parseErr != nil {
		appendValidationError(errs, "settings.media.base_path must be a string")
		return
	}

	if strings.TrimSpace(strings.Trim(basePath, "/")) == "" {
		appendValidationError(errs, "settings.media.base_path must not be empty")
	}
}

// validateOptionalBool validates an optionally configured boolean key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalBool(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, ok := parseStrictBool(raw); !ok {
		appendValidationError(errs, "%s must be a boolean", key)
	}
}

// validateOptionalInt64Min validates an optionally configured int64 key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalInt64Min(get configGetter, key string, min int64, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt64(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalURL validates an optionally configured absolute URL key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalURL(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string URL", key)
		return
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		appendValidationError(errs, "%s must not be empty", key)
		return
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		appendValidationError(errs, "%s must be a valid absolute URL", key)
	}
}

// validateRequiredStringNonEmpty validates a required non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateRequiredStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		appendValidationError(errs, "%s is required", key)
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil || strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must be a non-empty string", key)
	}
}

// parseStrictBool parses a value as boolean using strict conversion rules.
// It accepts a raw value and returns the parsed boolean and whether parsing succeeded.
func parseStrictBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		if math.Trunc(v) != v {
			return false, false
		}
		return int64(v) != 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, false
		}
		switch strings.ToLower(trimmed) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// parseStrictInt64 parses a value as a strict int64.
// It accepts a raw value and returns the parsed int64 and an error when parsing fails.
func parseStrictInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "parse int")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
