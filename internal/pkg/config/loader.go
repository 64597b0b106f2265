// Package config implements fail-open environment loading for long-running
// processes. A missing variable yields the default silently; a malformed or
// out-of-range variable yields the default plus a warning, so a bad deploy
// never keeps the process from starting.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one environment variable.
type LoadResult[T any] struct {
	// Value is the parsed value, or the default when FallbackApplied is set.
	Value T
	// Raw is the environment value as read, untrimmed.
	Raw string
	// Warning describes why the default was used. Empty when no fallback happened.
	Warning string
	// FallbackApplied reports that a value was present but rejected.
	FallbackApplied bool
}

// Load reads envKey, parses it and validates it. parse is required; validate
// may be nil.
func Load[T any](envKey string, defaultValue T, parse func(string) (T, error), validate func(T) error) LoadResult[T] {
	raw := os.Getenv(envKey)
	if strings.TrimSpace(raw) == "" {
		return LoadResult[T]{Value: defaultValue, Raw: raw}
	}

	fallback := func(err error) LoadResult[T] {
		return LoadResult[T]{
			Value:           defaultValue,
			Raw:             raw,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}

	v, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(err)
		}
	}
	return LoadResult[T]{Value: v, Raw: raw}
}

// LoadString loads a string variable. Surrounding whitespace is removed.
func LoadString(envKey, defaultValue string, validate func(string) error) LoadResult[string] {
	return Load(envKey, defaultValue, func(s string) (string, error) {
		return strings.TrimSpace(s), nil
	}, validate)
}

// LoadDuration loads a variable in time.ParseDuration syntax, e.g. "90s" or "1h30m".
func LoadDuration(envKey string, defaultValue time.Duration, validate func(time.Duration) error) LoadResult[time.Duration] {
	return Load(envKey, defaultValue, func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	}, validate)
}

// LoadInt loads a base-10 integer variable.
func LoadInt(envKey string, defaultValue int, validate func(int) error) LoadResult[int] {
	return Load(envKey, defaultValue, func(s string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return n, nil
	}, validate)
}

// LoadBool loads a boolean variable accepting the strconv.ParseBool spellings.
func LoadBool(envKey string, defaultValue bool) LoadResult[bool] {
	return Load(envKey, defaultValue, func(s string) (bool, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return false, fmt.Errorf("invalid boolean format, expected true or false")
		}
		return b, nil
	}, nil)
}
