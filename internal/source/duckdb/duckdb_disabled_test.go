//go:build !duckdb

package duckdb

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sadopc/querycraft/internal/source"
)

func TestDuckDBDisabled_Load(t *testing.T) {
	cat, err := (&disabledSource{}).Load(context.Background(), "wh.duckdb")
	if cat != nil {
		t.Error("Load() should return nil catalog when disabled")
	}
	if !errors.Is(err, source.ErrDisabled) {
		t.Fatalf("Load() error = %v, want ErrDisabled", err)
	}
	if !strings.Contains(err.Error(), "-tags duckdb") {
		t.Errorf("error %q should mention the build tag", err)
	}
}

func TestDuckDBDisabled_Registration(t *testing.T) {
	s, err := source.Lookup("duckdb")
	if err != nil {
		t.Fatalf("duckdb source not registered: %v", err)
	}
	if s.Name() != "duckdb" {
		t.Errorf("registered source Name() = %q, want %q", s.Name(), "duckdb")
	}
}

func TestDuckDBDisabled_Introspect(t *testing.T) {
	_, err := source.Introspect(context.Background(), "", "/data/wh.duckdb")
	if !errors.Is(err, source.ErrDisabled) {
		t.Errorf("Introspect(.duckdb) error = %v, want ErrDisabled", err)
	}
}
