// Command validate performs integrity checks on a GRIB2 parameter table: field
// domains, key uniqueness, serialization round-trip, inventory level-text
// resolution, and optional parity against the README documentation table.
//
// Usage:
//
//	go run ./cmd/validate                  # validate the embedded table
//	go run ./cmd/validate -table my.csv    # validate an external table
//	go run ./cmd/validate -readme README.md
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/inventory"
)

// knownLevelTypeCodes are the GRIB2 fixed-surface codes used by the ensemble
// post-processing chain.
var knownLevelTypeCodes = map[int]bool{
	1:   true, // ground or water surface
	100: true, // isobaric level
	101: true, // mean sea level
	103: true, // height above ground
	200: true, // entire atmosphere
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	tablePath := flag.String("table", "", "path to a parameter table (default: embedded copy)")
	readmePath := flag.String("readme", "", "optional README to check the documentation table against")
	flag.Parse()

	if code := run(*tablePath, *readmePath); code != 0 {
		os.Exit(code)
	}
}

func run(tablePath, readmePath string) int {
	fmt.Println("=== GRIB2 Parameter Table Validation ===")
	fmt.Println()

	table, err := loadTable(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load table: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateFieldDomains(table),
		validateKnownParameters(table),
		validateRoundTrip(table),
		validateLevelResolution(table),
	}
	if readmePath != "" {
		phases = append(phases, validateReadmeParity(table, readmePath))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", table.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadTable(path string) (*catalog.Table, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	return catalog.Default()
}

// ── Validation phases ──

// validateFieldDomains checks every record's fields against the table contract:
// non-negative codes, non-empty names and units, known level-type codes.
func validateFieldDomains(table *catalog.Table) *phase {
	p := &phase{name: "Field domains"}

	for _, rec := range table.Records() {
		if rec.Abbrev == "" {
			p.errorf("record %+v: empty variable name", rec)
		}
		for _, f := range []struct {
			name  string
			value int
		}{
			{"discipline", rec.Discipline},
			{"category", rec.Category},
			{"parameter", rec.Parameter},
			{"level", rec.LevelValue},
		} {
			if f.value < 0 {
				p.errorf("%s level %d: negative %s %d", rec.Abbrev, rec.LevelValue, f.name, f.value)
			}
		}
		if rec.LongName == "" {
			p.errorf("%s level %d: empty long name", rec.Abbrev, rec.LevelValue)
		}
		if rec.Units == "" {
			p.errorf("%s level %d: empty units", rec.Abbrev, rec.LevelValue)
		}
		code, ok := rec.LevelTypeCode()
		if !ok {
			p.errorf("%s level %d: level type %q carries no numeric code", rec.Abbrev, rec.LevelValue, rec.LevelType)
		} else if !knownLevelTypeCodes[code] {
			p.errorf("%s level %d: unknown level-type code %d", rec.Abbrev, rec.LevelValue, code)
		}
	}
	return p
}

// validateKnownParameters spot-checks records the downstream consumers depend on.
func validateKnownParameters(table *catalog.Table) *phase {
	p := &phase{name: "Known parameters"}

	mslp := table.LookupByAbbrev("MSLP")
	if len(mslp) != 2 {
		p.errorf("MSLP: want 2 records, got %d", len(mslp))
	}
	levels := map[int]bool{}
	for _, rec := range mslp {
		levels[rec.LevelValue] = true
		if rec.Units != "Pa" {
			p.errorf("MSLP level %d: units %q, want Pa", rec.LevelValue, rec.Units)
		}
	}
	if !levels[0] || !levels[1] {
		p.errorf("MSLP: want levels 0 and 1, got %v", levels)
	}

	cape, ok := table.LookupByCode(0, 7, 6, 0)
	if !ok {
		p.errorf("code (0,7,6,0): no record")
	} else {
		if cape.Abbrev != "CAPE" {
			p.errorf("code (0,7,6,0): variable %q, want CAPE", cape.Abbrev)
		}
		if cape.Units != "J/kg" {
			p.errorf("CAPE: units %q, want J/kg", cape.Units)
		}
	}
	return p
}

// validateRoundTrip serializes the table and reloads it, requiring record-level
// equivalence.
func validateRoundTrip(table *catalog.Table) *phase {
	p := &phase{name: "Serialization round-trip"}

	var buf bytes.Buffer
	if _, err := table.WriteTo(&buf); err != nil {
		p.errorf("serialize: %v", err)
		return p
	}
	reloaded, err := catalog.Load(&buf)
	if err != nil {
		p.errorf("reload: %v", err)
		return p
	}
	if diff := cmp.Diff(table.Records(), reloaded.Records()); diff != "" {
		p.errorf("records differ after round-trip:\n%s", diff)
	}
	return p
}

// validateLevelResolution renders each record's inventory level text and
// resolves it back through the table, requiring the same record. MSLP's
// membrane-smoothed variant shares its level text with the Eta reduction and
// resolves to the latter, so it is exempt.
func validateLevelResolution(table *catalog.Table) *phase {
	p := &phase{name: "Inventory level resolution"}

	for _, rec := range table.Records() {
		text, ok := inventory.LevelText(rec)
		if !ok {
			p.errorf("%s level %d: no inventory rendering for level type %q", rec.Abbrev, rec.LevelValue, rec.LevelType)
			continue
		}
		if rec.Abbrev == "MSLP" && rec.LevelValue == 1 {
			continue
		}
		bound := inventory.LevelBound(text)
		candidates := table.LookupByAbbrev(rec.Abbrev)
		if len(candidates) == 1 {
			continue
		}
		var matched bool
		for _, c := range candidates {
			if c.LevelValue == bound {
				matched = c.Key() == rec.Key()
				break
			}
		}
		if !matched {
			p.errorf("%s level %d: level text %q does not resolve back to the record", rec.Abbrev, rec.LevelValue, text)
		}
	}
	return p
}

// validateReadmeParity checks that the README's documentation table describes
// the same records as the machine-readable copy.
func validateReadmeParity(table *catalog.Table, readmePath string) *phase {
	p := &phase{name: "README parity"}

	data, err := os.ReadFile(readmePath)
	if err != nil {
		p.errorf("read README: %v", err)
		return p
	}

	docTable, err := catalog.Load(bytes.NewReader(extractDocTable(data)))
	if err != nil {
		p.errorf("parse documentation table: %v", err)
		return p
	}
	if docTable.Len() != table.Len() {
		p.errorf("documentation table has %d records, machine table has %d", docTable.Len(), table.Len())
	}
	for _, rec := range docTable.Records() {
		got, ok := table.LookupByCode(rec.Discipline, rec.Category, rec.Parameter, rec.LevelValue)
		if !ok {
			p.errorf("documented record %s level %d missing from machine table", rec.Abbrev, rec.LevelValue)
			continue
		}
		if diff := cmp.Diff(rec, got); diff != "" {
			p.errorf("%s level %d differs:\n%s", rec.Abbrev, rec.LevelValue, diff)
		}
	}
	return p
}

// extractDocTable pulls the parameter documentation table out of README
// markdown: the pipe-delimited rows with the table's nine columns. Other
// README tables (configuration, endpoints) have fewer columns and are skipped.
func extractDocTable(readme []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(readme, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if !bytes.HasPrefix(trimmed, []byte("|")) {
			continue
		}
		cells := bytes.Split(bytes.Trim(trimmed, "|"), []byte("|"))
		if len(cells) != 9 {
			continue
		}
		out.Write(trimmed)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
