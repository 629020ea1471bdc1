package cache

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Lifetime bounds for list output.
const (
	DefaultTTL = time.Hour
	MinTTL     = time.Minute
	MaxTTL     = 7 * 24 * time.Hour
)

// Environment overrides read by the CLI.
const (
	EnvTTLSeconds   = "PXPANTHEON_CACHE_TTL_SECONDS"
	EnvCacheEnabled = "PXPANTHEON_CACHE_ENABLED"
	EnvCacheDir     = "PXPANTHEON_CACHE_DIR"
)

// ErrInvalidTTL reports a lifetime outside [MinTTL, MaxTTL] or one that does not parse.
var ErrInvalidTTL = errors.New("cache TTL must be between 1m and 7d")

// CheckTTL validates a lifetime against the allowed range.
func CheckTTL(ttl time.Duration) error {
	if ttl < MinTTL || ttl > MaxTTL {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}
	return nil
}

// ParseTTL accepts whole seconds ("3600") or a Go duration ("1h", "90m") and
// validates the result.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var ttl time.Duration
	if seconds, err := strconv.Atoi(s); err == nil {
		ttl = time.Duration(seconds) * time.Second
	} else {
		d, perr := time.ParseDuration(s)
		if perr != nil {
			return 0, fmt.Errorf("%w: %q is neither seconds nor a duration", ErrInvalidTTL, s)
		}
		ttl = d
	}
	if err := CheckTTL(ttl); err != nil {
		return 0, err
	}
	return ttl, nil
}

// TTLFromEnv returns the PXPANTHEON_CACHE_TTL_SECONDS lifetime; zero when unset.
func TTLFromEnv() (time.Duration, error) {
	v := os.Getenv(EnvTTLSeconds)
	if v == "" {
		return 0, nil
	}
	return ParseTTL(v)
}

// EnabledFromEnv reports PXPANTHEON_CACHE_ENABLED; ok is false when unset or unparsable.
func EnabledFromEnv() (enabled, ok bool) {
	b, err := strconv.ParseBool(os.Getenv(EnvCacheEnabled))
	if err != nil {
		return false, false
	}
	return b, true
}

// DirFromEnv returns PXPANTHEON_CACHE_DIR, or "" to use the configured directory.
func DirFromEnv() string {
	return os.Getenv(EnvCacheDir)
}

// FormatDuration renders d with its two largest units, e.g. "2h30m", "3d2h", "45s".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	units := []struct {
		size time.Duration
		name string
	}{
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	}

	var b strings.Builder
	parts := 0
	for _, u := range units {
		if parts == 2 {
			break
		}
		n := d / u.size
		if n == 0 {
			if parts > 0 {
				break
			}
			continue
		}
		fmt.Fprintf(&b, "%d%s", n, u.name)
		d -= n * u.size
		parts++
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}
