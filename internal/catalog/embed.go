package catalog

import (
	"bytes"
	_ "embed"
	"sync"
)

// The table ships inside the binary so the service starts without any
// filesystem dependency. CATALOG_PATH overrides it at runtime.
//
//go:embed ncar_grib2_table.csv
var defaultTable []byte

var loadDefault = sync.OnceValues(func() (*Table, error) {
	return Load(bytes.NewReader(defaultTable))
})

// Default returns the table embedded in the binary.
func Default() (*Table, error) {
	return loadDefault()
}
