package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// salesDateLayout is the string form used by the source system (day first).
const salesDateLayout = "02/01/2006"

// ParseSalesDate normalizes the heterogeneous Sales Date field. The raw
// collection stores either a native date or a DD/MM/YYYY string; anything
// else is reported as unparseable rather than guessed at.
func ParseSalesDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case primitive.DateTime:
		return d.Time(), true
	case string:
		t, err := time.Parse(salesDateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// AmountExpr is the aggregation counterpart of CoerceAmount: it converts a
// possibly string-encoded monetary field to a double, stripping locale
// thousands separators first. Pipelines that sum raw amount fields must use
// this instead of a bare $toDouble, which aborts on "125,000"-style values.
func AmountExpr(field string) map[string]any {
	return map[string]any{
		"$toDouble": map[string]any{
			"$replaceAll": map[string]any{
				"input":       map[string]any{"$toString": "$" + field},
				"find":        ",",
				"replacement": "",
			},
		},
	}
}

// CoerceAmount normalizes a monetary value. String-encoded amounts carry
// locale thousands separators which are stripped before parsing; numeric
// values pass through unchanged.
func CoerceAmount(v any) (float64, error) {
	switch a := v.(type) {
	case float64:
		return a, nil
	case float32:
		return float64(a), nil
	case int:
		return float64(a), nil
	case int32:
		return float64(a), nil
	case int64:
		return float64(a), nil
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(a), ",", "")
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0, fmt.Errorf("coerce amount %q: %w", a, err)
		}
		return d.InexactFloat64(), nil
	default:
		return 0, fmt.Errorf("coerce amount: unsupported type %T", v)
	}
}
