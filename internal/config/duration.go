package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses the configured duration, using fallback when
// value is blank. Durations live as strings in Config so they survive
// the YAML and FINMATE_ env layers unchanged.
func DurationOrDefault(value, fallback string) (time.Duration, error) {
	for _, candidate := range []string{value, fallback} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		d, err := time.ParseDuration(candidate)
		if err != nil {
			return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
		}
		return d, nil
	}
	return 0, fmt.Errorf("duration value is empty")
}
