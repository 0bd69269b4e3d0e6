package projection

import (
	"strings"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/shopspring/decimal"
)

// ParseAmount reads a money value off a sheet cell. Sheets deliver amounts
// as numbers or as formatted strings with thousands separators and an
// occasional currency prefix; anything unparseable counts as zero.
func ParseAmount(v any) decimal.Decimal {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case int:
		return decimal.NewFromInt(int64(val))
	case string:
		s := strings.TrimSpace(val)
		s = strings.TrimPrefix(s, "₹")
		s = strings.TrimPrefix(s, "Rs.")
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// SumField totals one canonical amount field across projected rows.
func SumField(rows []model.Row, field string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(ParseAmount(row[field]))
	}
	return total
}

// ReceivedValue totals receivedQty*rate over STORE IN rows matching a PO.
func ReceivedValue(storeInRows []model.Row, schema Schema, poNumber string) decimal.Decimal {
	total := decimal.Zero
	if strings.TrimSpace(poNumber) == "" {
		return total
	}
	for _, raw := range storeInRows {
		row := schema.Normalize(raw)
		if strings.TrimSpace(row.Str("poNumber")) != poNumber {
			continue
		}
		qty := ParseAmount(row["receivedQty"])
		rate := ParseAmount(row["rate"])
		total = total.Add(qty.Mul(rate))
	}
	return total
}
