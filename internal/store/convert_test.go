package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

// ----------------------------------------------------------------------------
// Conversion Helper Tests
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{
			name:      "value kept",
			input:     "Karachi",
			wantValid: true,
			wantValue: "Karachi",
		},
		{
			name:      "trimmed",
			input:     "  Karachi  ",
			wantValid: true,
			wantValue: "Karachi",
		},
		{
			name:      "blank maps to null",
			input:     "",
			wantValid: false,
		},
		{
			name:      "whitespace maps to null",
			input:     "   ",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgText(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToPgText(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.String != tt.wantValue {
				t.Errorf("ToPgText(%q) = %q, want %q", tt.input, got.String, tt.wantValue)
			}
			if TextString(got) != tt.wantValue && tt.wantValid {
				t.Errorf("TextString round trip lost the value")
			}
		})
	}
}

func TestToPgNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input float64
	}{
		{name: "integer amount", input: 450},
		{name: "decimal amount", input: 150.75},
		{name: "zero", input: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ToPgNumeric(tt.input)
			if err != nil {
				t.Fatalf("ToPgNumeric(%v): %v", tt.input, err)
			}
			if !n.Valid {
				t.Fatalf("ToPgNumeric(%v) produced invalid numeric", tt.input)
			}
			if got := NumericFloat(n); got != tt.input {
				t.Errorf("NumericFloat(ToPgNumeric(%v)) = %v", tt.input, got)
			}
		})
	}
}

func TestNumericFloat_Null(t *testing.T) {
	if got := NumericFloat(pgtype.Numeric{}); got != 0 {
		t.Errorf("NULL numeric = %v, want 0", got)
	}
}
