package inventory

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	memberMin       = 1
	memberMax       = 10
	forecastHourMax = 48
)

var (
	// fileNameRe matches the ensemble file-name grammar, e.g.
	// "ncar_3km_2017042100_mem1_f012.grb2". The ".grb" form covers the
	// GRIB1-era files before September 2015.
	fileNameRe = regexp.MustCompile(`^ncar_3km_(\d{10})_mem(\d{1,2})_f(\d{3})\.grb2?$`)

	// levelBoundRe finds numeric bounds in inventory level text, e.g.
	// "500 mb" -> 500, "0-3000 m above ground" -> 0, 3000.
	levelBoundRe = regexp.MustCompile(`\d+`)
)

// ParseRawEvent deserializes a RawEvent's value and parses both the file name
// and the inventory line into a Field.
func ParseRawEvent(raw RawEvent) (Field, error) {
	var rec RawRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Field{}, fmt.Errorf("parse raw event: %w", err)
	}
	return ParseRecord(rec)
}

// ParseRecord parses a collector record into a Field. The d= stamp on the
// inventory line must match the init time encoded in the file name.
func ParseRecord(rec RawRecord) (Field, error) {
	initTime, member, hour, err := parseFileName(rec.File)
	if err != nil {
		return Field{}, err
	}

	f, err := parseLine(rec.Line)
	if err != nil {
		return Field{}, err
	}

	if !f.InitTime.Equal(initTime) {
		return Field{}, fmt.Errorf("inventory: init time mismatch: file %s vs line d=%s",
			initTime.Format(initTimeLayout), f.InitTime.Format(initTimeLayout))
	}

	f.File = rec.File
	f.Member = member
	f.ForecastHour = hour
	return f, nil
}

const initTimeLayout = "2006010215"

// parseFileName extracts init time, member, and forecast hour from an
// archive-relative path like "2017/20170421/ncar_3km_2017042100_mem1_f012.grb2".
func parseFileName(file string) (time.Time, int, int, error) {
	base := path.Base(file)
	m := fileNameRe.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, 0, 0, fmt.Errorf("inventory: file name %q does not match ensemble convention", base)
	}

	initTime, err := time.ParseInLocation(initTimeLayout, m[1], time.UTC)
	if err != nil {
		return time.Time{}, 0, 0, fmt.Errorf("inventory: init time in %q: %w", base, err)
	}

	member, _ := strconv.Atoi(m[2])
	if member < memberMin || member > memberMax {
		return time.Time{}, 0, 0, fmt.Errorf("inventory: member %d out of range %d-%d", member, memberMin, memberMax)
	}

	hour, _ := strconv.Atoi(m[3])
	if hour > forecastHourMax {
		return time.Time{}, 0, 0, fmt.Errorf("inventory: forecast hour %d exceeds %d", hour, forecastHourMax)
	}

	return initTime, member, hour, nil
}

// parseLine splits a wgrib2 inventory line into its colon-delimited fields:
// "<msgnum>:<offset>:d=<YYYYMMDDHH>:<variable>:<level>:<forecast>:".
func parseLine(line string) (Field, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 6 {
		return Field{}, fmt.Errorf("inventory: line %q has %d fields, want at least 6", line, len(parts))
	}

	msgNum, err := strconv.Atoi(parts[0])
	if err != nil || msgNum < 1 {
		return Field{}, fmt.Errorf("inventory: message number %q", parts[0])
	}

	offset, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || offset < 0 {
		return Field{}, fmt.Errorf("inventory: byte offset %q", parts[1])
	}

	stamp, ok := strings.CutPrefix(parts[2], "d=")
	if !ok {
		return Field{}, fmt.Errorf("inventory: missing d= stamp in %q", parts[2])
	}
	initTime, err := time.ParseInLocation(initTimeLayout, stamp, time.UTC)
	if err != nil {
		return Field{}, fmt.Errorf("inventory: d= stamp %q: %w", stamp, err)
	}

	abbrev := strings.TrimSpace(parts[3])
	if abbrev == "" {
		return Field{}, fmt.Errorf("inventory: empty variable in line %q", line)
	}

	return Field{
		MessageNumber: msgNum,
		ByteOffset:    offset,
		InitTime:      initTime,
		Abbrev:        abbrev,
		LevelText:     strings.TrimSpace(parts[4]),
		ForecastText:  strings.TrimSpace(parts[5]),
	}, nil
}

// LevelBound extracts the catalog level value implied by inventory level
// text. For layers ("0-3000 m above ground") the upper bound is the catalog
// value, so the last number wins. Text with no number ("surface",
// "mean sea level", "entire atmosphere") maps to 0.
func LevelBound(levelText string) int {
	nums := levelBoundRe.FindAllString(levelText, -1)
	if len(nums) == 0 {
		return 0
	}
	n, err := strconv.Atoi(nums[len(nums)-1])
	if err != nil {
		return 0
	}
	return n
}
