package validation

import (
	"errors"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Config holds the thresholds of the rule battery. The density limits and
// the size tolerance are heuristics and are meant to be tuned per deployment.
type Config struct {
	MaxDensity             float64   `json:"max_density" yaml:"max_density" validate:"gt=0"`
	MinDensity             float64   `json:"min_density" yaml:"min_density" validate:"gte=0,ltfield=MaxDensity"`
	SizeTolerance          float64   `json:"size_tolerance" yaml:"size_tolerance" validate:"gt=0,lt=1"`
	MinTemperature         float64   `json:"min_temperature" yaml:"min_temperature" validate:"ltfield=MaxTemperature"`
	MaxTemperature         float64   `json:"max_temperature" yaml:"max_temperature"`
	StandardSizes          []float64 `json:"standard_sizes" yaml:"standard_sizes" validate:"min=1,dive,gt=0"`
	MaxDualRatingRatio     float64   `json:"max_dual_rating_ratio" yaml:"max_dual_rating_ratio" validate:"gt=1"`
	PVCVoltageLimit        float64   `json:"pvc_voltage_limit" yaml:"pvc_voltage_limit" validate:"gt=0"`
	InsulationVoltageLimit float64   `json:"insulation_voltage_limit" yaml:"insulation_voltage_limit" validate:"gt=0"`
	MinConductorSize       float64   `json:"min_conductor_size" yaml:"min_conductor_size" validate:"gte=0"`
	ForbiddenMaterials     []string  `json:"forbidden_materials" yaml:"forbidden_materials" validate:"dive,required"`
	MetallicArmor          []string  `json:"metallic_armor" yaml:"metallic_armor" validate:"dive,required"`
	AmbiguousMarkers       []string  `json:"ambiguous_markers" yaml:"ambiguous_markers" validate:"dive,required"`
}

// StandardSizes are the IEC 60228 preferred conductor cross-sections in mm²
var StandardSizes = []float64{
	0.5, 0.75, 1, 1.5, 2.5, 4, 6, 10, 16, 25, 35, 50, 70,
	95, 120, 150, 185, 240, 300, 400, 500, 630, 800, 1000,
}

// DefaultConfig returns the built-in rule thresholds
func DefaultConfig() Config {
	return Config{
		MaxDensity:             30,
		MinDensity:             0.1,
		SizeTolerance:          0.05,
		MinTemperature:         -40,
		MaxTemperature:         105,
		StandardSizes:          slices.Clone(StandardSizes),
		MaxDualRatingRatio:     50,
		PVCVoltageLimit:        3300,
		InsulationVoltageLimit: 1000,
		MinConductorSize:       0.1,
		ForbiddenMaterials:     []string{"PLASTIC", "FOAM", "GLASS", "WOOD", "PAPER", "PAINT", "WATER", "STONE"},
		MetallicArmor:          []string{"STEEL", "ALUMINUM", "COPPER", "SWA", "STA", "AWA", "ATA", "NONE"},
		AmbiguousMarkers:       []string{"UNKNOWN", "?", "AMBIGUOUS"},
	}
}

// Validate checks the thresholds for internal consistency
func (c Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		return &ConfigError{
			Field: first.Field(),
			Tag:   first.Tag(),
			Cause: err,
		}
	}
	return &ConfigError{Message: "config validation failed", Cause: err}
}
