package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"trendradar/engine"
)

// Default configuration values
const (
	// DefaultRulesFile is the keyword rule file loaded when
	// RULES_FILE is unset.
	DefaultRulesFile = "rules.txt"

	// DefaultReportWindow bounds how far back frequency counting
	// looks across polling cycles.
	DefaultReportWindow = 24 * time.Hour
)

// GetEnvOrDefault returns the environment value for key, or def when unset.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// RulesPath returns the keyword rule file path from RULES_FILE.
func RulesPath() string {
	return GetEnvOrDefault("RULES_FILE", DefaultRulesFile)
}

// ReportWindow returns the frequency reporting window from
// REPORT_WINDOW_HOURS.
func ReportWindow() time.Duration {
	if v := os.Getenv("REPORT_WINDOW_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return DefaultReportWindow
}

// LoadWeights reads the scoring weights from RANK_WEIGHT,
// FREQUENCY_WEIGHT and HOTNESS_WEIGHT. Unset variables keep the
// default split. Invalid values are a configuration error surfaced to
// the caller at load time, never during scoring.
func LoadWeights() (engine.Weights, error) {
	w := engine.DefaultWeights

	fields := []struct {
		env string
		dst *float64
	}{
		{"RANK_WEIGHT", &w.Rank},
		{"FREQUENCY_WEIGHT", &w.Frequency},
		{"HOTNESS_WEIGHT", &w.Hotness},
	}
	for _, f := range fields {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return engine.Weights{}, fmt.Errorf("invalid %s value %q: %w", f.env, v, err)
		}
		*f.dst = parsed
	}

	if err := w.Validate(); err != nil {
		return engine.Weights{}, err
	}
	return w, nil
}
