//go:build !duckdb

package duckdb

import (
	"context"
	"fmt"

	"github.com/sadopc/querycraft/internal/schema"
	"github.com/sadopc/querycraft/internal/source"
)

var errDisabled = fmt.Errorf("duckdb: %w, rebuild with -tags duckdb", source.ErrDisabled)

func init() {
	source.Register(&disabledSource{})
}

type disabledSource struct{}

func (d *disabledSource) Name() string { return "duckdb" }

func (d *disabledSource) Load(_ context.Context, _ string) (*schema.Catalog, error) {
	return nil, errDisabled
}
