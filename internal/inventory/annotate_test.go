package inventory_test

import (
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/inventory"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCatalog(t *testing.T) *catalog.Table {
	t.Helper()
	table, err := catalog.Default()
	require.NoError(t, err)
	return table
}

func parsedField(t *testing.T, line string) inventory.Field {
	t.Helper()
	f, err := inventory.ParseRecord(inventory.RawRecord{
		File: "2017/20170421/ncar_3km_2017042100_mem3_f024.grb2",
		Line: line,
	})
	require.NoError(t, err)
	return f
}

func TestAnnotate(t *testing.T) {
	frozen := time.Date(2017, time.April, 22, 6, 0, 0, 0, time.UTC)
	inventory.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { inventory.SetClock(nil) })

	table := defaultCatalog(t)
	f := parsedField(t, "7:912034:d=2017042100:CAPE:surface:24 hour fcst:")

	out, err := inventory.Annotate(f, table)
	require.NoError(t, err)

	assert.Equal(t, "CAPE", out.Abbrev)
	assert.Equal(t, 0, out.Discipline)
	assert.Equal(t, 7, out.Category)
	assert.Equal(t, 6, out.Parameter)
	assert.Equal(t, 0, out.LevelValue)
	assert.Equal(t, "surface (1)", out.LevelType)
	assert.Equal(t, "Convective available potential energy", out.LongName)
	assert.Equal(t, "J/kg", out.Units)
	assert.Equal(t, "native", out.Derivation)
	assert.Equal(t, 3, out.Member)
	assert.Equal(t, 24, out.ForecastHour)
	assert.Equal(t, frozen, out.ProcessedAt)
	assert.True(t, strings.HasPrefix(out.ID, "cape-"))
}

func TestAnnotate_MultiLevelDisambiguation(t *testing.T) {
	table := defaultCatalog(t)

	f := parsedField(t, "11:1203944:d=2017042100:HGT500:500 mb:24 hour fcst:")
	out, err := inventory.Annotate(f, table)
	require.NoError(t, err)
	assert.Equal(t, 500, out.LevelValue)
	assert.Equal(t, "gpm", out.Units)

	// MSLP resolves to the level-0 Eta reduction: "mean sea level" carries
	// no numeric bound.
	f = parsedField(t, "2:84021:d=2017042100:MSLP:mean sea level:24 hour fcst:")
	out, err = inventory.Annotate(f, table)
	require.NoError(t, err)
	assert.Equal(t, 0, out.LevelValue)
	assert.Equal(t, "Pa", out.Units)
	assert.Equal(t, "native", out.Derivation)
}

func TestAnnotate_DerivationMarkersStripped(t *testing.T) {
	table := defaultCatalog(t)

	f := parsedField(t, "19:2400312:d=2017042100:CSNOW:surface:24 hour fcst:")
	out, err := inventory.Annotate(f, table)
	require.NoError(t, err)
	assert.Equal(t, "Categorical snow", out.LongName)
	assert.Equal(t, "derived", out.Derivation)
	assert.Equal(t, "-", out.Units)

	f = parsedField(t, "20:2500312:d=2017042100:GUST:surface:24 hour fcst:")
	out, err = inventory.Annotate(f, table)
	require.NoError(t, err)
	assert.Equal(t, "diagnosed", out.Derivation)
}

func TestAnnotate_UnknownVariable(t *testing.T) {
	table := defaultCatalog(t)

	f := parsedField(t, "4:400000:d=2017042100:BOGUS:surface:24 hour fcst:")
	_, err := inventory.Annotate(f, table)
	require.Error(t, err)

	var unknown *inventory.UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "BOGUS", unknown.Abbrev)
}

func TestAnnotate_DeterministicID(t *testing.T) {
	table := defaultCatalog(t)
	f := parsedField(t, "7:912034:d=2017042100:CAPE:surface:24 hour fcst:")

	first, err := inventory.Annotate(f, table)
	require.NoError(t, err)
	second, err := inventory.Annotate(f, table)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other := parsedField(t, "8:999999:d=2017042100:CAPE:surface:24 hour fcst:")
	third, err := inventory.Annotate(other, table)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestLevelText_RoundTrip(t *testing.T) {
	table := defaultCatalog(t)

	for _, rec := range table.Records() {
		text, ok := inventory.LevelText(rec)
		if !ok {
			continue
		}
		// The rendered text must resolve back to a level the annotator
		// accepts. MSLP's smoothed variant shares its level text with the
		// Eta reduction and resolves to level 0, so it is the one known
		// exception.
		if rec.Abbrev == "MSLP" && rec.LevelValue == 1 {
			continue
		}
		bound := inventory.LevelBound(text)
		if len(table.LookupByAbbrev(rec.Abbrev)) > 1 {
			assert.Equal(t, rec.LevelValue, bound, "%s level text %q", rec.Abbrev, text)
		}
	}
}
