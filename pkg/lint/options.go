package lint

import (
	"fmt"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// GetStringOption extracts a string option.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	if s, ok := opts[key].(string); ok {
		return s
	}
	return defaultVal
}

// GetBoolOption extracts a bool option. String values such as "true" from
// environment variables are accepted.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) bool {
	switch v := opts[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling float64 from JSON.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	switch n := opts[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return defaultVal
}

// DecodeOptions decodes rule options into a struct using `mapstructure` tags.
// Values are converted weakly, so options arriving from environment
// variables decode like YAML ones. Unknown keys are an error.
func DecodeOptions(opts map[string]any, out any) error {
	if opts == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return fmt.Errorf("create options decoder: %w", err)
	}
	if err := dec.Decode(opts); err != nil {
		return fmt.Errorf("decode rule options: %w", err)
	}
	return nil
}
