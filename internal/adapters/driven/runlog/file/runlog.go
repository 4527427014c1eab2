// Package file provides a run log that writes one JSON document per
// pipeline invocation into a directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archivist-labs/docqa/internal/core/ports/driven"
)

var _ driven.RunLog = (*RunLog)(nil)

// RunLog writes run records as pretty-printed JSON files named by run
// ID under dir.
type RunLog struct {
	dir string
}

// New creates the run log directory if needed.
func New(dir string) (*RunLog, error) {
	if dir == "" {
		dir = filepath.Join("logs", "runs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating run log directory: %w", err)
	}
	return &RunLog{dir: dir}, nil
}

// Dir returns the directory records are written to.
func (l *RunLog) Dir() string {
	return l.dir
}

// Record persists one run record.
func (l *RunLog) Record(_ context.Context, rec driven.RunRecord) error {
	if rec.RunID == "" {
		return fmt.Errorf("run record has no run id")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run record: %w", err)
	}

	path := filepath.Join(l.dir, sanitize(rec.RunID)+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing run record: %w", err)
	}
	return nil
}

// sanitize keeps run IDs filesystem-safe.
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}
