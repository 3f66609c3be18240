package inventory

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
)

// UnknownFieldError reports an inventory variable with no catalog entry.
// Unknown fields are expected in old archive segments (the table predates
// some model upgrades), so callers typically skip rather than abort.
type UnknownFieldError struct {
	Abbrev     string
	LevelValue int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("inventory: no catalog entry for %s at level %d", e.Abbrev, e.LevelValue)
}

// Annotate joins a parsed field against the catalog by (variable, level) and
// fills in the GRIB2 codes and display metadata. ProcessedAt comes from the
// package clock.
func Annotate(f Field, table *catalog.Table) (AnnotatedField, error) {
	candidates := table.LookupByAbbrev(f.Abbrev)
	if len(candidates) == 0 {
		return AnnotatedField{}, &UnknownFieldError{Abbrev: f.Abbrev}
	}

	rec, ok := resolveLevel(candidates, f.LevelText)
	if !ok {
		return AnnotatedField{}, &UnknownFieldError{Abbrev: f.Abbrev, LevelValue: LevelBound(f.LevelText)}
	}

	return AnnotatedField{
		ID:         generateID(f, rec),
		Abbrev:     rec.Abbrev,
		Discipline: rec.Discipline,
		Category:   rec.Category,
		Parameter:  rec.Parameter,
		LevelValue: rec.LevelValue,
		LevelType:  rec.LevelType,
		LongName:   rec.CleanName(),
		Units:      rec.Units,
		Derivation: string(rec.Derivation()),

		File:          f.File,
		MessageNumber: f.MessageNumber,
		ByteOffset:    f.ByteOffset,
		InitTime:      f.InitTime,
		Member:        f.Member,
		ForecastHour:  f.ForecastHour,

		ProcessedAt: clock.Now(),
	}, nil
}

// resolveLevel picks the catalog record whose level value matches the bound
// in the inventory level text. A single candidate matches unconditionally;
// the level bound only disambiguates multi-level variables.
func resolveLevel(candidates []catalog.ParameterRecord, levelText string) (catalog.ParameterRecord, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}
	bound := LevelBound(levelText)
	for _, rec := range candidates {
		if rec.LevelValue == bound {
			return rec, true
		}
	}
	return catalog.ParameterRecord{}, false
}

// generateID produces a deterministic ID from the field's key attributes.
// Reprocessing the same inventory line yields the same ID, so downstream
// stores can upsert idempotently during replays.
func generateID(f Field, rec catalog.ParameterRecord) string {
	input := fmt.Sprintf("%s|%d|%s|%d", f.File, f.MessageNumber, rec.Abbrev, rec.LevelValue)
	hash := sha256.Sum256([]byte(input))
	return strings.ToLower(rec.Abbrev) + "-" + hex.EncodeToString(hash[:8])
}

// LevelText renders the wgrib2 inventory level text for a catalog record.
// Used by fixture generation and tests; returns false for level types the
// inventory never writes.
func LevelText(rec catalog.ParameterRecord) (string, bool) {
	code, ok := rec.LevelTypeCode()
	if !ok {
		return "", false
	}
	switch code {
	case 1:
		return "surface", true
	case 100:
		return fmt.Sprintf("%d mb", rec.LevelValue), true
	case 101:
		return "mean sea level", true
	case 103:
		return fmt.Sprintf("%d m above ground", rec.LevelValue), true
	case 200:
		return "entire atmosphere", true
	default:
		return "", false
	}
}
