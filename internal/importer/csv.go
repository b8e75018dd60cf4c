package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
)

// ReadTable reads comma-delimited rows. Rows may have differing field
// counts, and a leading UTF-8 byte order mark is dropped.
func ReadTable(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// LoadTableFile reads and parses a table file into a timeline.
func LoadTableFile(path string, opts ...Option) (*domain.Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadTable(f)
	if err != nil {
		return nil, err
	}
	return ParseTable(rows, opts...)
}
