// Package export writes generated SQL to disk and saves or loads a query
// state as YAML.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/querycraft/internal/query"
)

var (
	// ErrEmptySQL is returned when there is no statement to write.
	ErrEmptySQL = errors.New("export: no SQL to write")
	// ErrInvalidState is returned when a saved state names an unknown
	// statement type.
	ErrInvalidState = errors.New("export: invalid query state")
)

// WriteSQL writes sql to path, creating parent directories. Blank text is
// refused with ErrEmptySQL. The file always ends with a newline.
func WriteSQL(path, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return ErrEmptySQL
	}
	if !strings.HasSuffix(sql, "\n") {
		sql += "\n"
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(sql), 0o644); err != nil {
		return fmt.Errorf("export write: %w", err)
	}
	return nil
}

// SaveState writes s to path as YAML.
func SaveState(path string, s query.State) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("export marshal state: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export write state: %w", err)
	}
	return nil
}

// LoadState reads a state saved by SaveState. A missing type means SELECT;
// the type is matched case-insensitively.
func LoadState(path string) (query.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.State{}, fmt.Errorf("export read state: %w", err)
	}

	var s query.State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return query.State{}, fmt.Errorf("export parse state: %w", err)
	}

	if s.Type == "" {
		s.Type = query.Select
	} else {
		t, ok := query.ParseType(string(s.Type))
		if !ok {
			return query.State{}, fmt.Errorf("%w: unknown type %q", ErrInvalidState, s.Type)
		}
		s.Type = t
	}
	return s, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export create dir: %w", err)
	}
	return nil
}
