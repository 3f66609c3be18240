package inventory

import (
	"context"
	"time"
)

// RawRecord is the flat JSON structure produced by the collector: one
// inventory line plus the archive-relative path of the file it came from.
type RawRecord struct {
	File string `json:"file"`
	Line string `json:"line"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Field is a parsed inventory line before catalog annotation.
type Field struct {
	File          string
	MessageNumber int
	ByteOffset    int64
	InitTime      time.Time
	Member        int
	ForecastHour  int
	Abbrev        string
	LevelText     string
	ForecastText  string
}

// AnnotatedField is the catalog-enriched form destined for the sink topic.
type AnnotatedField struct {
	ID         string `json:"id"`
	Abbrev     string `json:"abbrev"`
	Discipline int    `json:"discipline"`
	Category   int    `json:"category"`
	Parameter  int    `json:"parameter"`
	LevelValue int    `json:"level"`
	LevelType  string `json:"level_type"`
	LongName   string `json:"long_name"`
	Units      string `json:"units"`
	Derivation string `json:"derivation"`

	File          string    `json:"file"`
	MessageNumber int       `json:"message_number"`
	ByteOffset    int64     `json:"byte_offset"`
	InitTime      time.Time `json:"init_time"`
	Member        int       `json:"member"`
	ForecastHour  int       `json:"forecast_hour"`

	ProcessedAt time.Time `json:"processed_at"`
}
