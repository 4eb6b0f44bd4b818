package validation

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

// Rule tags. The numbering is a stable external contract; messages start with "<tag>. ".
const (
	RuleFiberOptic       = "1"
	RuleCableType        = "1b"
	RuleMixedCurrent     = "2"
	RuleDualRating       = "2b"
	RuleDensityHigh      = "3"
	RuleDensityLow       = "3b"
	RuleInsulation       = "4"
	RuleFractionalCount  = "5"
	RuleArmor            = "7"
	RuleTemperature      = "8"
	RuleStandardSize     = "9"
	RulePVCVoltage       = "10"
	RuleInsulationNeeded = "11"
	RuleSizeFloor        = "size-floor"
)

// inputs holds the uppercased field values and the numbers parsed from them
type inputs struct {
	cableType   string
	voltage     string
	current     string
	insulation  string
	count       string
	size        string
	armor       string
	temperature string

	voltages       []float64
	maxVoltage     float64
	currentVal     float64
	hasCurrent     bool
	sizeVal        float64
	hasSize        bool
	composite      bool
	temperatureVal float64
	hasTemperature bool
}

func newInputs(rec types.SpecRecord) *inputs {
	upper := func(key types.FieldKey) string {
		return strings.ToUpper(strings.TrimSpace(rec.Value(key)))
	}

	in := &inputs{
		cableType:   upper(types.FieldCableType),
		voltage:     upper(types.FieldVoltage),
		current:     upper(types.FieldCurrentRating),
		insulation:  upper(types.FieldInsulation),
		count:       upper(types.FieldConductorCount),
		size:        upper(types.FieldConductorSize),
		armor:       upper(types.FieldArmor),
		temperature: upper(types.FieldOperatingTemperature),
	}
	if in.armor == "" {
		in.armor = "NONE"
	}

	in.voltages = ParseVoltages(in.voltage)
	if len(in.voltages) > 0 {
		in.maxVoltage = slices.Max(in.voltages)
	}
	in.currentVal, in.hasCurrent = ParseLeadingFloat(in.current)
	in.composite = strings.Contains(in.size, "+")
	if !in.composite {
		in.sizeVal, in.hasSize = ParseLeadingFloat(in.size)
	}
	in.temperatureVal, in.hasTemperature = ParseLeadingFloat(in.temperature)
	return in
}

// hasUnverifiable reports whether the corrector gave up on any field
func hasUnverifiable(rec types.SpecRecord) bool {
	for _, key := range types.FieldKeys() {
		if strings.EqualFold(strings.TrimSpace(rec.Value(key)), types.Unverifiable) {
			return true
		}
	}
	return false
}

type result struct {
	violations []string
	missing    []string
}

func (r *result) violate(tag, format string, args ...any) {
	r.violations = append(r.violations, tag+". "+fmt.Sprintf(format, args...))
}

func (r *result) miss(tag, format string, args ...any) {
	r.missing = append(r.missing, tag+". "+fmt.Sprintf(format, args...))
}

type rule struct {
	tag   string
	check func(v *Validator, in *inputs, r *result)
}

// rules in evaluation order; violation and missing lists keep this order
var rules = []rule{
	{RuleFiberOptic, checkFiberOptic},
	{RuleCableType, checkCableType},
	{RuleMixedCurrent, checkMixedCurrent},
	{RuleDualRating, checkDualRating},
	{RuleDensityHigh, checkDensityHigh},
	{RuleDensityLow, checkDensityLow},
	{RuleInsulation, checkInsulationMaterial},
	{RuleFractionalCount, checkFractionalCount},
	{RuleArmor, checkArmor},
	{RuleTemperature, checkTemperature},
	{RuleStandardSize, checkStandardSize},
	{RulePVCVoltage, checkPVCVoltage},
	{RuleInsulationNeeded, checkInsulationNeeded},
	{RuleSizeFloor, checkSizeFloor},
}

// RuleTags returns the rule tags in evaluation order
func RuleTags() []string {
	tags := make([]string, len(rules))
	for i, r := range rules {
		tags[i] = r.tag
	}
	return tags
}

func checkFiberOptic(_ *Validator, in *inputs, r *result) {
	if strings.Contains(in.cableType, "FIBER") || strings.Contains(in.cableType, "OPTIC") {
		r.violate(RuleFiberOptic, "Cable Type: Rejected hybrid fiber-optic/power cable.")
	}
}

func checkCableType(v *Validator, in *inputs, r *result) {
	if in.cableType == "" || containsAny(in.cableType, v.cfg.AmbiguousMarkers) {
		r.miss(RuleCableType, "Cable Type: Unknown or ambiguous.")
	}
}

func checkMixedCurrent(_ *Validator, in *inputs, r *result) {
	if strings.Contains(in.voltage, "AC") && strings.Contains(in.voltage, "DC") {
		r.violate(RuleMixedCurrent, "Voltage: Rejected mixed AC/DC rating '%s'.", in.voltage)
	}
}

func checkDualRating(v *Validator, in *inputs, r *result) {
	if !strings.Contains(in.voltage, "/") || len(in.voltages) < 2 || in.maxVoltage <= 0 {
		return
	}
	low := slices.Min(in.voltages)
	if low <= 0 {
		low = 1
	}
	if in.maxVoltage/low > v.cfg.MaxDualRatingRatio {
		r.violate(RuleDualRating, "Voltage: Rejected mismatched voltage levels '%s'.", in.voltage)
	}
}

// density returns current over cross-section when both parse and the size is non-zero
func (in *inputs) density() (float64, bool) {
	if !in.hasCurrent || !in.hasSize || in.sizeVal == 0 {
		return 0, false
	}
	return in.currentVal / in.sizeVal, true
}

func checkDensityHigh(v *Validator, in *inputs, r *result) {
	d, ok := in.density()
	if ok && d > v.cfg.MaxDensity {
		r.violate(RuleDensityHigh, "Current: %sA is physically incompatible with %s mm² (density %.1f A/mm² too high).",
			formatNumber(in.currentVal), formatNumber(in.sizeVal), d)
	}
}

func checkDensityLow(v *Validator, in *inputs, r *result) {
	d, ok := in.density()
	if ok && d < v.cfg.MinDensity {
		r.violate(RuleDensityLow, "Current: %sA is too low for %s mm² (density %.4f A/mm²).",
			formatNumber(in.currentVal), formatNumber(in.sizeVal), d)
	}
}

func checkInsulationMaterial(v *Validator, in *inputs, r *result) {
	if containsAny(in.insulation, v.cfg.ForbiddenMaterials) {
		r.violate(RuleInsulation, "Insulation: Rejected non-electrical material '%s'.", in.insulation)
	}
}

func checkFractionalCount(_ *Validator, in *inputs, r *result) {
	if strings.Contains(in.count, ".") {
		r.violate(RuleFractionalCount, "Conductors: Rejected fractional conductor count '%s'.", in.count)
	}
}

func checkArmor(v *Validator, in *inputs, r *result) {
	if in.armor == "NONE" || slices.Contains(v.cfg.MetallicArmor, in.armor) {
		return
	}
	if containsAny(in.armor, v.cfg.ForbiddenMaterials) {
		r.violate(RuleArmor, "Armor: Rejected non-metallic armor '%s'.", in.armor)
	}
}

func checkTemperature(v *Validator, in *inputs, r *result) {
	if !in.hasTemperature {
		return
	}
	t := in.temperatureVal
	if t < v.cfg.MinTemperature || t > v.cfg.MaxTemperature {
		r.violate(RuleTemperature, "Temperature: %s°C is outside the %s to %s°C range.",
			formatNumber(t), formatNumber(v.cfg.MinTemperature), formatNumber(v.cfg.MaxTemperature))
	}
}

func checkStandardSize(v *Validator, in *inputs, r *result) {
	if in.composite {
		r.miss(RuleStandardSize, "Conductor Size: Composite notation '%s' cannot be verified.", in.size)
		return
	}
	if !in.hasSize {
		return
	}
	for _, s := range v.cfg.StandardSizes {
		if math.Abs(in.sizeVal-s)/s < v.cfg.SizeTolerance {
			return
		}
	}
	r.violate(RuleStandardSize, "Conductor Size: %s mm² is not a standard IEC size.", formatNumber(in.sizeVal))
}

func checkPVCVoltage(v *Validator, in *inputs, r *result) {
	if in.maxVoltage > v.cfg.PVCVoltageLimit && strings.Contains(in.insulation, "PVC") {
		r.violate(RulePVCVoltage, "Material: PVC insulation cannot be used at %s. Must be XLPE.", in.voltage)
	}
}

func checkInsulationNeeded(v *Validator, in *inputs, r *result) {
	if in.maxVoltage <= v.cfg.InsulationVoltageLimit {
		return
	}
	if in.insulation == "" || in.insulation == "UNKNOWN" || in.insulation == "NONE" {
		r.violate(RuleInsulationNeeded, "Safety: High voltage (%s) requires a verified insulation type. None found.", in.voltage)
	}
}

func checkSizeFloor(v *Validator, in *inputs, r *result) {
	if in.hasSize && in.sizeVal < v.cfg.MinConductorSize {
		r.violate(RuleSizeFloor, "Conductor Size: Rejected unrealistic size %s mm².", formatNumber(in.sizeVal))
	}
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
