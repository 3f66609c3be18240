package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/grib-catalog-service/internal/catalog"
	"github.com/couchcryptid/grib-catalog-service/internal/inventory"
)

// CatalogTransformer implements Transformer by parsing raw inventory events
// and joining them against the parameter catalog.
type CatalogTransformer struct {
	table  *catalog.Table
	logger *slog.Logger
}

// NewTransformer creates a CatalogTransformer over the given table.
func NewTransformer(table *catalog.Table, logger *slog.Logger) *CatalogTransformer {
	return &CatalogTransformer{
		table:  table,
		logger: logger,
	}
}

func (t *CatalogTransformer) Transform(_ context.Context, raw inventory.RawEvent) (inventory.AnnotatedField, error) {
	field, err := inventory.ParseRawEvent(raw)
	if err != nil {
		return inventory.AnnotatedField{}, err
	}

	return inventory.Annotate(field, t.table)
}
