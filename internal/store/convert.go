package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/vorn-digital/adlens/internal/model"
)

// coerceCell narrows driver values to the cell types model.Table holds:
// string, int64, float64, bool, time.Time or nil.
func coerceCell(v any) any {
	switch x := v.(type) {
	case nil, string, int64, float64, bool, time.Time:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// inferColumnKinds assigns each column's kind from its first non-nil
// cell. Columns with only nulls stay string-kinded.
func inferColumnKinds(t *model.Table) {
	for ci := range t.Columns {
		for _, row := range t.Rows {
			if ci >= len(row) || row[ci] == nil {
				continue
			}
			t.Columns[ci].Kind = kindOf(row[ci])
			break
		}
	}
}

func kindOf(v any) model.CellKind {
	switch v.(type) {
	case int64:
		return model.KindInt
	case float64:
		return model.KindFloat
	case bool:
		return model.KindBool
	case time.Time:
		return model.KindTime
	default:
		return model.KindString
	}
}

// firstColumnStrings flattens a single-column result into strings.
func firstColumnStrings(t *model.Table) []string {
	if len(t.Columns) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) == 0 || row[0] == nil {
			continue
		}
		out = append(out, model.CellString(row[0]))
	}
	return out
}

// quoteTable wraps a dotted table identifier so warehouse-style names
// like project.dataset.table survive the SQL dialect.
func quoteTable(table string) string {
	if strings.ContainsAny(table, `"`+"`") {
		return table
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return strings.Join(parts, ".")
}
