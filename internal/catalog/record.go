package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// levelTypeCodeRe matches the numeric GRIB2 level-type code in parentheses at
// the end of a level description, e.g. "height above ground (103)" -> 103.
var levelTypeCodeRe = regexp.MustCompile(`\((\d+)\)\s*$`)

// Derivation labels the provenance of a field, read off the long-name markers.
type Derivation string

const (
	// DerivationNative marks fields present in the raw model output.
	DerivationNative Derivation = "native"
	// DerivationDiagnosed marks fields diagnosed by the model post-processor ("*").
	DerivationDiagnosed Derivation = "diagnosed"
	// DerivationDerived marks fields derived downstream from native fields ("**").
	DerivationDerived Derivation = "derived"
)

// ParameterRecord is one row of the reference table: a variable name bound to
// GRIB2 identification codes, a vertical level, and display metadata.
type ParameterRecord struct {
	Abbrev     string `json:"abbrev"`
	Discipline int    `json:"discipline"`
	Category   int    `json:"category"`
	Parameter  int    `json:"parameter"`
	LevelValue int    `json:"level"`
	LevelType  string `json:"level_type"`
	LongName   string `json:"long_name"`
	Units      string `json:"units"`
}

// Key identifies a record by the GRIB2 classification triple plus level value.
type Key struct {
	Discipline int
	Category   int
	Parameter  int
	LevelValue int
}

// Key returns the record's composite key.
func (r ParameterRecord) Key() Key {
	return Key{
		Discipline: r.Discipline,
		Category:   r.Category,
		Parameter:  r.Parameter,
		LevelValue: r.LevelValue,
	}
}

// LevelTypeCode extracts the GRIB2 level-type code from the LevelType text.
// Returns false if the text carries no parenthesized code.
func (r ParameterRecord) LevelTypeCode() (int, bool) {
	m := levelTypeCodeRe.FindStringSubmatch(r.LevelType)
	if len(m) != 2 {
		return 0, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return code, true
}

// CleanName returns the long name with any trailing provenance markers removed.
func (r ParameterRecord) CleanName() string {
	return strings.TrimSpace(strings.TrimRight(r.LongName, "*"))
}

// Derivation reports the field provenance encoded by the long-name markers.
func (r ParameterRecord) Derivation() Derivation {
	switch {
	case strings.HasSuffix(r.LongName, "**"):
		return DerivationDerived
	case strings.HasSuffix(r.LongName, "*"):
		return DerivationDiagnosed
	default:
		return DerivationNative
	}
}

// Categorical reports whether the record describes a dimensionless
// categorical field (units "-").
func (r ParameterRecord) Categorical() bool {
	return r.Units == "-"
}
