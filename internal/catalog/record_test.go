package catalog_test

import (
	"testing"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelTypeCode(t *testing.T) {
	cases := []struct {
		levelType string
		code      int
		ok        bool
	}{
		{"height above ground (103)", 103, true},
		{"surface (1)", 1, true},
		{"entire atmosphere (200)", 200, true},
		{"mean sea level", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		rec := catalog.ParameterRecord{LevelType: tc.levelType}
		code, ok := rec.LevelTypeCode()
		assert.Equal(t, tc.ok, ok, tc.levelType)
		assert.Equal(t, tc.code, code, tc.levelType)
	}
}

func TestDerivationMarkers(t *testing.T) {
	cases := []struct {
		longName   string
		derivation catalog.Derivation
		clean      string
	}{
		{"Composite radar reflectivity", catalog.DerivationNative, "Composite radar reflectivity"},
		{"Surface wind gust speed*", catalog.DerivationDiagnosed, "Surface wind gust speed"},
		{"Categorical snow**", catalog.DerivationDerived, "Categorical snow"},
	}

	for _, tc := range cases {
		rec := catalog.ParameterRecord{LongName: tc.longName}
		assert.Equal(t, tc.derivation, rec.Derivation(), tc.longName)
		assert.Equal(t, tc.clean, rec.CleanName(), tc.longName)
	}
}

func TestCategorical(t *testing.T) {
	assert.True(t, catalog.ParameterRecord{Units: "-"}.Categorical())
	assert.False(t, catalog.ParameterRecord{Units: "Pa"}.Categorical())
}

func TestKey(t *testing.T) {
	rec := catalog.ParameterRecord{Discipline: 0, Category: 7, Parameter: 6, LevelValue: 0}
	key := rec.Key()
	require.Equal(t, catalog.Key{Discipline: 0, Category: 7, Parameter: 6, LevelValue: 0}, key)
}
