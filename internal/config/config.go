// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL     = "JOBS_API_URL"
	EnvAPIToken   = "JOBS_API_TOKEN"
	EnvChromePath = "CHROME_PATH"
	EnvLogLevel   = "LOG_LEVEL"
)

// Duration is a time.Duration written as a Go duration string ("30s") in JSON.
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Jobs API
	APIBaseURL string `json:"api_base_url,omitempty" validate:"omitempty,url"`
	APIToken   string `json:"api_token,omitempty"`

	// Page loading
	UseBrowser    bool     `json:"use_browser,omitempty"`
	Headless      bool     `json:"headless,omitempty"`
	ChromePath    string   `json:"chrome_path,omitempty"`
	UserAgent     string   `json:"user_agent,omitempty"`
	PageTimeout   Duration `json:"page_timeout,omitempty" validate:"gte=0"`
	SettleDelay   Duration `json:"settle_delay,omitempty" validate:"gte=0"`
	RatePerSecond float64  `json:"rate_per_second,omitempty" validate:"gte=0,lte=50"`

	// Crawl
	Workers int `json:"workers,omitempty" validate:"gte=0,lte=32"`
	MaxJobs int `json:"max_jobs,omitempty" validate:"gte=0"`

	// Extraction actions
	ExpandDescription bool `json:"expand_description,omitempty"`
	OpenInsight       bool `json:"open_insight,omitempty"`

	// Logging
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogJSON  bool   `json:"log_json,omitempty"`
}

// Defaults returns the values used when neither the config file nor a flag sets a field.
func Defaults() Config {
	return Config{
		Headless:      true,
		PageTimeout:   Duration(45 * time.Second),
		SettleDelay:   Duration(800 * time.Millisecond),
		RatePerSecond: 1,
		Workers:       2,
		LogLevel:      "info",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Required values are checked by the commands that need them.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("'%s' fails %s", fe.Field(), describeTag(fe)))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// ApplyEnv overrides the API and browser settings from the environment.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIBaseURL = v
	}
	if v := getenv(EnvAPIToken); v != "" {
		c.APIToken = v
	}
	if v := getenv(EnvChromePath); v != "" {
		c.ChromePath = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIBaseURL == "" {
		result.APIBaseURL = defaults.APIBaseURL
	}
	if result.APIToken == "" {
		result.APIToken = defaults.APIToken
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Numeric fields: use default if zero
	if result.PageTimeout == 0 {
		result.PageTimeout = defaults.PageTimeout
	}
	if result.SettleDelay == 0 {
		result.SettleDelay = defaults.SettleDelay
	}
	if result.RatePerSecond == 0 {
		result.RatePerSecond = defaults.RatePerSecond
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.MaxJobs == 0 {
		result.MaxJobs = defaults.MaxJobs
	}

	// Bool fields: cannot distinguish unset from false, so only true values carry over
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Headless = result.Headless || defaults.Headless
	result.ExpandDescription = result.ExpandDescription || defaults.ExpandDescription
	result.OpenInsight = result.OpenInsight || defaults.OpenInsight
	result.LogJSON = result.LogJSON || defaults.LogJSON

	return result
}
