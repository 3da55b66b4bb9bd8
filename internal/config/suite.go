package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is the hosted storefront the suite targets by default.
const DefaultBaseURL = "https://www.saucedemo.com"

// Visual comparison defaults. The threshold is a YIQ colour distance in [0, 1].
const (
	DefaultPixelThreshold = 0.2
	DefaultMaxDiffRatio   = 0.001
)

// SuiteConfig holds the settings shared by every browser journey
type SuiteConfig struct {
	BaseURL           string
	Browser           string
	Headless          bool
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	BaselineDir       string
	UpdateBaselines   bool
	PixelThreshold    float64
	MaxDiffRatio      float64
	LogLevel          logrus.Level
}

// LoadSuiteConfig loads suite configuration from environment variables
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := &SuiteConfig{
		BaseURL:           strings.TrimRight(getenv("BASE_URL"), "/"),
		Browser:           strings.ToLower(getenv("BROWSER")),
		Headless:          true,
		ActionTimeout:     10 * time.Second,
		NavigationTimeout: 30 * time.Second,
		BaselineDir:       getenv("BASELINE_DIR"),
		PixelThreshold:    DefaultPixelThreshold,
		MaxDiffRatio:      DefaultMaxDiffRatio,
		LogLevel:          logrus.InfoLevel,
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Browser == "" {
		config.Browser = "chromium"
	}
	switch config.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return nil, fmt.Errorf("BROWSER must be one of chromium, firefox, webkit; got %q", config.Browser)
	}
	if config.BaselineDir == "" {
		config.BaselineDir = "testdata/baselines"
	}

	var err error
	if v := getenv("HEADLESS"); v != "" {
		if config.Headless, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid HEADLESS: %w", err)
		}
	}
	if v := getenv("UPDATE_BASELINES"); v != "" {
		if config.UpdateBaselines, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid UPDATE_BASELINES: %w", err)
		}
	}
	if v := getenv("ACTION_TIMEOUT"); v != "" {
		if config.ActionTimeout, err = parsePositiveDuration(v); err != nil {
			return nil, fmt.Errorf("invalid ACTION_TIMEOUT: %w", err)
		}
	}
	if v := getenv("NAVIGATION_TIMEOUT"); v != "" {
		if config.NavigationTimeout, err = parsePositiveDuration(v); err != nil {
			return nil, fmt.Errorf("invalid NAVIGATION_TIMEOUT: %w", err)
		}
	}
	if v := getenv("PIXEL_THRESHOLD"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PIXEL_THRESHOLD: %w", err)
		}
		if threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("PIXEL_THRESHOLD must be within [0, 1], got %v", threshold)
		}
		config.PixelThreshold = threshold
	}
	if v := getenv("MAX_DIFF_RATIO"); v != "" {
		ratio, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_DIFF_RATIO: %w", err)
		}
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("MAX_DIFF_RATIO must be within [0, 1], got %v", ratio)
		}
		config.MaxDiffRatio = ratio
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		if config.LogLevel, err = logrus.ParseLevel(v); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	return config, nil
}

// URL joins path onto the configured base URL
func (c *SuiteConfig) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

func parsePositiveDuration(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", v)
	}
	return d, nil
}
