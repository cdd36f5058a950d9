package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToPgText converts a string to pgtype.Text, mapping blank to SQL NULL so
// optional columns stay NULL instead of collecting empty strings.
func ToPgText(value string) pgtype.Text {
	value = strings.TrimSpace(value)
	if value == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: value, Valid: true}
}

// TextString unwraps a nullable text column, NULL reading as "".
func TextString(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}

// ToPgNumeric converts a money amount to pgtype.Numeric for NUMERIC
// columns. Formatting through strconv avoids the float exponent forms the
// numeric parser rejects.
func ToPgNumeric(f float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(strconv.FormatFloat(f, 'f', -1, 64)); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("invalid numeric %v: %w", f, err)
	}
	return n, nil
}

// NumericFloat unwraps a NUMERIC column into a float64, NULL or
// unrepresentable values reading as 0.
func NumericFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	v, err := n.Float64Value()
	if err != nil {
		return 0
	}
	return v.Float64
}
