package model

import (
	"fmt"
	"strconv"
	"time"
)

// CellString renders a cell value for display, legends and labels.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

// CellFloat coerces a cell value to float64 for use on a value axis.
// Non-numeric cells yield 0 with ok=false.
func CellFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case nil:
		return 0, false
	default:
		return 0, false
	}
}
