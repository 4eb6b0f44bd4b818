// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/specsense/internal/correction"
	"github.com/jonathan/specsense/internal/extraction"
	"github.com/jonathan/specsense/internal/validation"
)

// Defaults applied before any file, environment or flag
const (
	DefaultPort      = 8080
	DefaultWorkers   = 4
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values keep their defaults.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // postgres://, sqlite:// or file: URL

	// Server
	Port               int    `json:"port,omitempty" yaml:"port,omitempty" validate:"min=1,max=65535"`
	JWTSecret          string `json:"-" yaml:"-"` // environment only
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty" yaml:"jwt_expiration_hours,omitempty" validate:"omitempty,min=1"`

	// Behavior
	Workers    int      `json:"workers,omitempty" yaml:"workers,omitempty" validate:"min=1,max=256"`
	UseBrowser bool     `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for script-rendered datasheet pages
	Verbose    bool     `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogLevel   string   `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"oneof=debug info warn error"`
	LogFormat  string   `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"oneof=json console"`
	Locales    []string `json:"locales,omitempty" yaml:"locales,omitempty" validate:"dive,required"`

	// Tables
	Rules        *RuleOverrides           `json:"rules,omitempty" yaml:"rules,omitempty"`
	VoltagePairs []correction.VoltagePair `json:"voltage_pairs,omitempty" yaml:"voltage_pairs,omitempty" validate:"dive"`
	Armor        map[string]string        `json:"armor,omitempty" yaml:"armor,omitempty" validate:"dive,keys,required,endkeys,required"`
}

// RuleOverrides replaces individual rule thresholds. Nil fields keep the built-in value.
type RuleOverrides struct {
	MaxDensity             *float64  `json:"max_density,omitempty" yaml:"max_density,omitempty"`
	MinDensity             *float64  `json:"min_density,omitempty" yaml:"min_density,omitempty"`
	SizeTolerance          *float64  `json:"size_tolerance,omitempty" yaml:"size_tolerance,omitempty"`
	MinTemperature         *float64  `json:"min_temperature,omitempty" yaml:"min_temperature,omitempty"`
	MaxTemperature         *float64  `json:"max_temperature,omitempty" yaml:"max_temperature,omitempty"`
	StandardSizes          []float64 `json:"standard_sizes,omitempty" yaml:"standard_sizes,omitempty"`
	MaxDualRatingRatio     *float64  `json:"max_dual_rating_ratio,omitempty" yaml:"max_dual_rating_ratio,omitempty"`
	PVCVoltageLimit        *float64  `json:"pvc_voltage_limit,omitempty" yaml:"pvc_voltage_limit,omitempty"`
	InsulationVoltageLimit *float64  `json:"insulation_voltage_limit,omitempty" yaml:"insulation_voltage_limit,omitempty"`
	MinConductorSize       *float64  `json:"min_conductor_size,omitempty" yaml:"min_conductor_size,omitempty"`
	ForbiddenMaterials     []string  `json:"forbidden_materials,omitempty" yaml:"forbidden_materials,omitempty"`
	MetallicArmor          []string  `json:"metallic_armor,omitempty" yaml:"metallic_armor,omitempty"`
	AmbiguousMarkers       []string  `json:"ambiguous_markers,omitempty" yaml:"ambiguous_markers,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:      DefaultPort,
		Workers:   DefaultWorkers,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a JSON or YAML file over the defaults.
// The format is chosen by extension: .yaml and .yml are YAML, anything else is JSON.
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

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
// lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
	num := func(dst *int, keys ...string) error {
		v, ok := str(keys...)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: keys[0], Message: "must be an integer", Cause: err}
		}
		*dst = n
		return nil
	}

	if v, ok := str("SPECSENSE_DATABASE_URL", "DATABASE_URL"); ok {
		c.DatabaseURL = v
	}
	if err := num(&c.Port, "PORT", "SPECSENSE_PORT"); err != nil {
		return err
	}
	if err := num(&c.Workers, "SPECSENSE_WORKERS"); err != nil {
		return err
	}
	if err := num(&c.JWTExpirationHours, "JWT_EXPIRATION_HOURS"); err != nil {
		return err
	}
	if v, ok := str("SPECSENSE_LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := str("SPECSENSE_LOG_FORMAT"); ok {
		c.LogFormat = strings.ToLower(v)
	}
	if v, ok := str("SPECSENSE_USE_BROWSER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &Error{Field: "SPECSENSE_USE_BROWSER", Message: "must be a boolean", Cause: err}
		}
		c.UseBrowser = b
	}
	if v, ok := str("JWT_SECRET"); ok {
		c.JWTSecret = v
	}
	return nil
}

// Validate checks field constraints and the consistency of the derived rule and correction tables
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			first := validationErrs[0]
			return &Error{Field: first.Namespace(), Tag: first.Tag(), Cause: err}
		}
		return &Error{Message: "validation failed", Cause: err}
	}

	if err := c.ValidationConfig().Validate(); err != nil {
		return &Error{Message: "invalid rules", Cause: err}
	}
	return nil
}

// ValidationConfig returns the rule thresholds with overrides applied
func (c *Config) ValidationConfig() validation.Config {
	cfg := validation.DefaultConfig()
	r := c.Rules
	if r == nil {
		return cfg
	}

	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat(&cfg.MaxDensity, r.MaxDensity)
	setFloat(&cfg.MinDensity, r.MinDensity)
	setFloat(&cfg.SizeTolerance, r.SizeTolerance)
	setFloat(&cfg.MinTemperature, r.MinTemperature)
	setFloat(&cfg.MaxTemperature, r.MaxTemperature)
	setFloat(&cfg.MaxDualRatingRatio, r.MaxDualRatingRatio)
	setFloat(&cfg.PVCVoltageLimit, r.PVCVoltageLimit)
	setFloat(&cfg.InsulationVoltageLimit, r.InsulationVoltageLimit)
	setFloat(&cfg.MinConductorSize, r.MinConductorSize)

	if len(r.StandardSizes) > 0 {
		cfg.StandardSizes = r.StandardSizes
	}
	if len(r.ForbiddenMaterials) > 0 {
		cfg.ForbiddenMaterials = r.ForbiddenMaterials
	}
	if len(r.MetallicArmor) > 0 {
		cfg.MetallicArmor = r.MetallicArmor
	}
	if len(r.AmbiguousMarkers) > 0 {
		cfg.AmbiguousMarkers = r.AmbiguousMarkers
	}
	return cfg
}

// CorrectionTables returns the correction tables. Configured voltage pairs replace
// the built-in list; configured armor entries are added to the built-in map.
func (c *Config) CorrectionTables() correction.Tables {
	tables := correction.DefaultTables()
	if len(c.VoltagePairs) > 0 {
		tables.VoltagePairs = c.VoltagePairs
	}
	for k, v := range c.Armor {
		tables.Armor[k] = v
	}
	return tables
}

// ExtractorOptions returns the extractor options implied by the configuration
func (c *Config) ExtractorOptions() []extraction.Option {
	if len(c.Locales) == 0 {
		return nil
	}
	return []extraction.Option{extraction.WithLocales(c.Locales...)}
}

// JWT returns the token settings, or nil when no secret is configured
func (c *Config) JWT() (*JWTConfig, error) {
	if c.JWTSecret == "" {
		return nil, nil
	}
	jwtCfg := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
		Issuer:          DefaultIssuer,
	}
	if jwtCfg.ExpirationHours == 0 {
		jwtCfg.ExpirationHours = DefaultExpirationHours
	}
	if err := jwtCfg.normalize(); err != nil {
		return nil, err
	}
	return jwtCfg, nil
}
