package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/41rumble/crew-planner/internal/domain"
	"github.com/41rumble/crew-planner/internal/service"
	"github.com/spf13/pflag"
)

// formatFlag is a pflag.Value restricted to the export formats.
type formatFlag struct {
	value service.ExportFormat
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string {
	if f.value == "" {
		return string(service.FormatCSV)
	}
	return string(f.value)
}

func (f *formatFlag) Set(s string) error {
	switch v := service.ExportFormat(strings.ToLower(s)); v {
	case service.FormatCSV, service.FormatJSON:
		f.value = v
		return nil
	default:
		return fmt.Errorf("must be one of csv, json")
	}
}

func (f *formatFlag) Type() string { return "format" }

// boundaryFlag is a pflag.Value for the drag handle.
type boundaryFlag struct {
	value domain.Boundary
}

var _ pflag.Value = (*boundaryFlag)(nil)

func (f *boundaryFlag) String() string { return string(f.value) }

func (f *boundaryFlag) Set(s string) error {
	switch b := domain.Boundary(strings.ToLower(s)); b {
	case domain.BoundaryStart, domain.BoundaryEnd:
		f.value = b
		return nil
	default:
		return fmt.Errorf("must be start or end")
	}
}

func (f *boundaryFlag) Type() string { return "handle" }

// resolveMonth turns a month flag into a column index. It accepts a 0-based
// index or a month label such as "Mar 2025" (case-insensitive).
func resolveMonth(t *domain.Timeline, flag, value string) (int, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n >= t.MonthCount() {
			return 0, fmt.Errorf("--%s %d outside 0-%d", flag, n, t.MonthCount()-1)
		}
		return n, nil
	}
	for i, label := range t.Months {
		if strings.EqualFold(label, value) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("--%s %q is not a month of %q", flag, value, t.Name)
}

// monthIndexes resolves a list of month flag values in order.
func monthIndexes(t *domain.Timeline, flag string, values []string) ([]int, error) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		m, err := resolveMonth(t, flag, v)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
