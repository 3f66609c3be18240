// Command genmock generates mock inventory fixtures from the embedded
// parameter table. It renders a wgrib2-style inventory for one ensemble file
// and, via the actual annotation code path, the matching annotated JSON, so
// test fixtures always agree with real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -init 2017042100 -member 1 -hour 12 \
//	  -raw-out data/mock/raw_inventory_2017042100_mem1_f012.jsonl \
//	  -annotated-out data/mock/annotated_2017042100_mem1_f012.json
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/inventory"
	"github.com/jonboulle/clockwork"
)

// offsetStride is the synthetic per-message byte offset increment. Real
// offsets vary with field compressibility; fixtures only need monotonicity.
const offsetStride = 817_342

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	initStamp := flag.String("init", "2017042100", "model init time (YYYYMMDDHH)")
	member := flag.Int("member", 1, "ensemble member (1-10)")
	hour := flag.Int("hour", 12, "forecast hour (0-48)")
	vars := flag.String("vars", "", "comma-separated variable subset (default: all)")
	rawOut := flag.String("raw-out", "", "output path for raw inventory JSONL fixture")
	annotatedOut := flag.String("annotated-out", "", "output path for annotated JSON fixture")
	flag.Parse()

	if *rawOut == "" || *annotatedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -annotated-out")
	}

	initTime, err := time.ParseInLocation("2006010215", *initStamp, time.UTC)
	if err != nil {
		return fmt.Errorf("parse -init: %w", err)
	}

	table, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load embedded table: %w", err)
	}

	var wanted map[string]bool
	if *vars != "" {
		wanted = map[string]bool{}
		for _, v := range strings.Split(*vars, ",") {
			wanted[strings.TrimSpace(v)] = true
		}
	}

	// Set a fixed clock for reproducible ProcessedAt timestamps and IDs.
	inventory.SetClock(clockwork.NewFakeClockAt(initTime.Add(30 * time.Hour)))
	defer inventory.SetClock(nil)

	file := fmt.Sprintf("%s/%s/ncar_3km_%s_mem%d_f%03d.grb2",
		initTime.Format("2006"), initTime.Format("20060102"), *initStamp, *member, *hour)

	var rawRecords []inventory.RawRecord     //nolint:prealloc // size depends on variable subset
	var annotated []inventory.AnnotatedField //nolint:prealloc // size depends on variable subset
	skipped := 0

	msgNum := 0
	for _, rec := range table.Records() {
		if wanted != nil && !wanted[rec.Abbrev] {
			continue
		}
		levelText, ok := inventory.LevelText(rec)
		if !ok {
			return fmt.Errorf("%s: no inventory rendering for level type %q", rec.Abbrev, rec.LevelType)
		}
		// Records whose level text resolves to a sibling record cannot appear
		// in a consistent fixture (MSLP membrane smoothed shares "mean sea
		// level" with the Eta reduction).
		if !resolvesToSelf(table, rec, levelText) {
			skipped++
			continue
		}

		msgNum++
		raw := inventory.RawRecord{
			File: file,
			Line: fmt.Sprintf("%d:%d:d=%s:%s:%s:%d hour fcst:",
				msgNum, (msgNum-1)*offsetStride, *initStamp, rec.Abbrev, levelText, *hour),
		}
		rawRecords = append(rawRecords, raw)

		parsed, err := inventory.ParseRecord(raw)
		if err != nil {
			return fmt.Errorf("%s: generated line does not parse: %w", rec.Abbrev, err)
		}
		field, err := inventory.Annotate(parsed, table)
		if err != nil {
			return fmt.Errorf("%s: annotate: %w", rec.Abbrev, err)
		}
		annotated = append(annotated, field)
	}

	log.Printf("generated %d records (%d skipped)", len(rawRecords), skipped)

	if err := writeJSONL(*rawOut, rawRecords); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw inventory fixture: %s", *rawOut)

	if err := writeJSON(*annotatedOut, annotated); err != nil {
		return fmt.Errorf("writing annotated fixture: %w", err)
	}
	log.Printf("wrote annotated fixture: %s", *annotatedOut)
	return nil
}

// resolvesToSelf reports whether annotating the rendered level text selects
// the same table record it was rendered from.
func resolvesToSelf(table *catalog.Table, rec catalog.ParameterRecord, levelText string) bool {
	candidates := table.LookupByAbbrev(rec.Abbrev)
	if len(candidates) == 1 {
		return true
	}
	bound := inventory.LevelBound(levelText)
	for _, c := range candidates {
		if c.LevelValue == bound {
			return c.Key() == rec.Key()
		}
	}
	return false
}

func writeJSONL(path string, records []inventory.RawRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
