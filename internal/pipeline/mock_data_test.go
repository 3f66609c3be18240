package pipeline_test

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/inventory"
	"github.com/couchcryptid/grib-catalog-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockInventoryFile = "raw_inventory_2017042100_mem1_f012.jsonl"

// loadMockEvents reads the committed inventory fixture, one raw event per line.
func loadMockEvents(t *testing.T) []inventory.RawEvent {
	t.Helper()

	f, err := os.Open(filepath.Join("..", "..", "data", "mock", mockInventoryFile))
	require.NoError(t, err)
	defer f.Close()

	var events []inventory.RawEvent
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		value := make([]byte, len(line))
		copy(value, line)
		events = append(events, inventory.RawEvent{Value: value})
	}
	require.NoError(t, scanner.Err())
	require.NotEmpty(t, events)
	return events
}

func TestCatalogTransformer_WithMockInventory(t *testing.T) {
	frozen := time.Date(2017, time.April, 22, 6, 0, 0, 0, time.UTC)
	inventory.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { inventory.SetClock(nil) })

	table, err := catalog.Default()
	require.NoError(t, err)

	transformer := pipeline.NewTransformer(table, slog.Default())
	events := loadMockEvents(t)

	seenIDs := map[string]bool{}
	unitsByAbbrev := map[string]string{}

	for _, raw := range events {
		out, err := transformer.Transform(context.Background(), raw)
		require.NoError(t, err, "line: %s", raw.Value)

		assert.Equal(t, 1, out.Member)
		assert.Equal(t, 12, out.ForecastHour)
		assert.Equal(t, time.Date(2017, time.April, 21, 0, 0, 0, 0, time.UTC), out.InitTime)
		assert.Equal(t, frozen, out.ProcessedAt)
		assert.False(t, seenIDs[out.ID], "duplicate ID %s", out.ID)
		seenIDs[out.ID] = true
		unitsByAbbrev[out.Abbrev] = out.Units
	}

	assert.Len(t, seenIDs, 16)
	assert.Equal(t, "Pa", unitsByAbbrev["MSLP"])
	assert.Equal(t, "J/kg", unitsByAbbrev["CAPE"])
	assert.Equal(t, "gpm", unitsByAbbrev["HGT500"])
	assert.Equal(t, "-", unitsByAbbrev["CSNOW"])
}

func TestCatalogTransformer_MockInventoryDerivations(t *testing.T) {
	table, err := catalog.Default()
	require.NoError(t, err)

	transformer := pipeline.NewTransformer(table, slog.Default())

	derivations := map[string]string{}
	for _, raw := range loadMockEvents(t) {
		out, err := transformer.Transform(context.Background(), raw)
		require.NoError(t, err)
		derivations[out.Abbrev] = out.Derivation
	}

	assert.Equal(t, "native", derivations["REFC"])
	assert.Equal(t, "diagnosed", derivations["GUST"])
	assert.Equal(t, "derived", derivations["CSNOW"])
}
