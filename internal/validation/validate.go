package validation

import (
	"slices"
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

// Notes added to the missing list when a record is UNVERIFIABLE
const (
	NoteUnverifiable   = "Contains UNVERIFIABLE fields"
	NoteVoltageMissing = "Voltage: Missing (required for a compliance decision)"
)

// Validator evaluates records against the rule battery.
// It holds only read-only configuration and is safe for concurrent use.
type Validator struct {
	cfg Config
}

// New creates a Validator after checking cfg
func New(cfg Config) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.StandardSizes = slices.Clone(cfg.StandardSizes)
	cfg.ForbiddenMaterials = upperAll(cfg.ForbiddenMaterials)
	cfg.MetallicArmor = upperAll(cfg.MetallicArmor)
	cfg.AmbiguousMarkers = upperAll(cfg.AmbiguousMarkers)
	return &Validator{cfg: cfg}, nil
}

// Default creates a Validator with DefaultConfig
func Default() *Validator {
	v, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return v
}

// Config returns the thresholds in use
func (v *Validator) Config() Config {
	return v.cfg
}

// Validate runs every rule against rec and aggregates the verdict.
// Absent fields never cause an error.
func (v *Validator) Validate(rec types.SpecRecord) types.Verdict {
	in := newInputs(rec)
	res := &result{}
	for _, r := range rules {
		r.check(v, in, res)
	}

	unverifiable := hasUnverifiable(rec)
	if len(res.violations) == 0 && (len(res.missing) > 0 || in.voltage == "" || unverifiable) {
		res.missing = append(res.missing, missingNotes(rec, unverifiable)...)
		unverifiable = true
	}
	return types.NewVerdict(res.violations, res.missing, unverifiable)
}

// missingNotes explains an UNVERIFIABLE outcome field by field
func missingNotes(rec types.SpecRecord, unverifiable bool) []string {
	var notes []string
	if unverifiable {
		notes = append(notes, NoteUnverifiable)
	}
	if !rec.Has(types.FieldVoltage) {
		notes = append(notes, NoteVoltageMissing)
	}
	for _, key := range types.FieldKeys() {
		// cable type is covered by rule 1b
		if key == types.FieldCableType || key == types.FieldVoltage {
			continue
		}
		if !rec.Has(key) {
			notes = append(notes, key.Label()+": not found")
		}
	}
	return notes
}

func upperAll(values []string) []string {
	out := make([]string, len(values))
	for i, s := range values {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}
