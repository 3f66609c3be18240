package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Number of fields in the compact comma form and the documentation pipe form.
// The pipe form carries a leading human-facing row index that the loader drops.
const (
	compactFieldCount = 8
	tabularFieldCount = 9
)

// MalformedRecordError reports a table line that could not be parsed. The load
// aborts on the first malformed record; there is no partial-load recovery
// because the table is small, trusted reference data.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("catalog: malformed record at line %d: %s", e.Line, e.Reason)
}

// Table is the loaded, immutable parameter reference table. Records keep load
// order; lookups are indexed by variable name and by composite key. Safe for
// concurrent readers once built.
type Table struct {
	records  []ParameterRecord
	byAbbrev map[string][]int
	byKey    map[Key]int
}

// Load parses the delimited table from r. It skips blank and "#"-comment
// lines, accepts both the comma and pipe forms, validates field counts and
// numeric fields, and rejects duplicate composite keys.
func Load(r io.Reader) (*Table, error) {
	t := &Table{
		byAbbrev: make(map[string][]int),
		byKey:    make(map[Key]int),
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, skip, err := splitFields(line, lineNum)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}

		rec, err := parseRecord(fields, lineNum)
		if err != nil {
			return nil, err
		}
		if err := t.add(rec, lineNum); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read table: %w", err)
	}

	return t, nil
}

// LoadFile opens and loads a table file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// splitFields splits one data line into its 8 record fields. Pipe-form rows
// are detected per line; their header and separator rows are skipped, and the
// leading row index is validated and discarded.
func splitFields(line string, lineNum int) ([]string, bool, error) {
	if !strings.Contains(line, "|") {
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) != compactFieldCount {
			return nil, false, &MalformedRecordError{
				Line:   lineNum,
				Reason: fmt.Sprintf("expected %d comma-separated fields, got %d", compactFieldCount, len(fields)),
			}
		}
		return fields, false, nil
	}

	fields := strings.Split(strings.Trim(line, "|"), "|")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if isTabularHeader(fields) {
		return nil, true, nil
	}
	if len(fields) != tabularFieldCount {
		return nil, false, &MalformedRecordError{
			Line:   lineNum,
			Reason: fmt.Sprintf("expected %d pipe-separated columns, got %d", tabularFieldCount, len(fields)),
		}
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return nil, false, &MalformedRecordError{
			Line:   lineNum,
			Reason: fmt.Sprintf("row index %q is not numeric", fields[0]),
		}
	}
	// The index column is presentation-only.
	return fields[1:], false, nil
}

// isTabularHeader reports whether pipe-form fields are a column-header or
// markdown separator row rather than data.
func isTabularHeader(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	first := fields[0]
	if first == "#" {
		return true
	}
	return first != "" && strings.Trim(first, "-: ") == ""
}

func parseRecord(fields []string, lineNum int) (ParameterRecord, error) {
	abbrev := fields[0]
	if abbrev == "" {
		return ParameterRecord{}, &MalformedRecordError{Line: lineNum, Reason: "empty variable name"}
	}

	nums := make([]int, 4)
	names := [4]string{"discipline", "category", "parameter", "level"}
	for i, name := range names {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return ParameterRecord{}, &MalformedRecordError{
				Line:   lineNum,
				Reason: fmt.Sprintf("%s %q is not numeric", name, fields[i+1]),
			}
		}
		if n < 0 {
			return ParameterRecord{}, &MalformedRecordError{
				Line:   lineNum,
				Reason: fmt.Sprintf("%s %d is negative", name, n),
			}
		}
		nums[i] = n
	}

	units := fields[7]
	if units == "" {
		return ParameterRecord{}, &MalformedRecordError{Line: lineNum, Reason: "empty units"}
	}

	return ParameterRecord{
		Abbrev:     abbrev,
		Discipline: nums[0],
		Category:   nums[1],
		Parameter:  nums[2],
		LevelValue: nums[3],
		LevelType:  fields[5],
		LongName:   fields[6],
		Units:      units,
	}, nil
}

func (t *Table) add(rec ParameterRecord, lineNum int) error {
	key := rec.Key()
	if _, exists := t.byKey[key]; exists {
		return &MalformedRecordError{
			Line: lineNum,
			Reason: fmt.Sprintf("duplicate key (%d,%d,%d,%d)",
				key.Discipline, key.Category, key.Parameter, key.LevelValue),
		}
	}
	for _, i := range t.byAbbrev[rec.Abbrev] {
		if t.records[i].LevelValue == rec.LevelValue {
			return &MalformedRecordError{
				Line:   lineNum,
				Reason: fmt.Sprintf("duplicate variable %s at level %d", rec.Abbrev, rec.LevelValue),
			}
		}
	}

	t.records = append(t.records, rec)
	idx := len(t.records) - 1
	t.byAbbrev[rec.Abbrev] = append(t.byAbbrev[rec.Abbrev], idx)
	t.byKey[key] = idx
	return nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns all records in load order. The returned slice is a copy.
func (t *Table) Records() []ParameterRecord {
	out := make([]ParameterRecord, len(t.records))
	copy(out, t.records)
	return out
}

// LookupByAbbrev returns all records for a variable name, in load order.
// A miss returns an empty slice, not an error: multi-level variables make
// multiple matches normal and absent names are a valid query.
func (t *Table) LookupByAbbrev(name string) []ParameterRecord {
	idxs := t.byAbbrev[name]
	out := make([]ParameterRecord, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, t.records[i])
	}
	return out
}

// LookupByCode returns the record for an exact composite key.
func (t *Table) LookupByCode(discipline, category, parameter, levelValue int) (ParameterRecord, bool) {
	i, ok := t.byKey[Key{
		Discipline: discipline,
		Category:   category,
		Parameter:  parameter,
		LevelValue: levelValue,
	}]
	if !ok {
		return ParameterRecord{}, false
	}
	return t.records[i], true
}

// WriteTo serializes the table in the compact comma form. Loading the output
// yields an equal record set.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var written int64
	n, err := fmt.Fprintln(w, "# variable,discipline,category,parameter,level,level type,name,units")
	written += int64(n)
	if err != nil {
		return written, err
	}
	for _, r := range t.records {
		n, err := fmt.Fprintf(w, "%s,%d,%d,%d,%d,%s,%s,%s\n",
			r.Abbrev, r.Discipline, r.Category, r.Parameter, r.LevelValue,
			r.LevelType, r.LongName, r.Units)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
