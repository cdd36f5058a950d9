package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// MapError Tests
// ----------------------------------------------------------------------------

func TestMapError_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		// Pipeline
		{
			name:     "zone replace failure",
			err:      fmt.Errorf(`replace zones for city "Lahore": connection reset`),
			wantCode: "IMP001",
		},
		{
			name:     "empty import",
			err:      errors.New("no valid rows found"),
			wantCode: "IMP002",
		},
		{
			name:     "import limiter",
			err:      errors.New("too many concurrent imports, try again shortly"),
			wantCode: "IMP003",
		},

		// Validation
		{
			name:     "missing columns",
			err:      errors.New("missing required columns: item_name, price"),
			wantCode: "VAL001",
		},
		{
			name:     "blocking save validation",
			err:      errors.New("row 3: zone name is required"),
			wantCode: "VAL002",
		},
		{
			name:     "bad amount",
			err:      errors.New("row 2 (Tower): price must be a number of at least 0"),
			wantCode: "VAL003",
		},
		{
			name:     "unparseable request",
			err:      errors.New("invalid request body: unexpected EOF"),
			wantCode: "VAL005",
		},
		{
			name:     "bad template key",
			err:      errors.New(`unknown catalog "drinks"`),
			wantCode: "VAL006",
		},

		// Files
		{
			name:     "wrong extension",
			err:      errors.New(`unsupported file type ".pdf": upload a .csv or .xlsx file`),
			wantCode: "FILE001",
		},
		{
			name:     "empty sheet",
			err:      errors.New(`sheet "Sheet1" has no rows`),
			wantCode: "FILE003",
		},
		{
			name:     "corrupt workbook",
			err:      errors.New("open workbook: zip: not a valid zip file"),
			wantCode: "FILE004",
		},
		{
			name:     "oversized upload",
			err:      errors.New("http: request body too large"),
			wantCode: "FILE005",
		},
		{
			name:     "not a form upload",
			err:      errors.New("request Content-Type isn't multipart/form-data"),
			wantCode: "FILE006",
		},
		{
			name:     "missing file field",
			err:      errors.New("no file provided: http: no such file"),
			wantCode: "FILE007",
		},

		// Store
		{
			name:     "missing restaurant",
			err:      ErrRestaurantNotFound,
			wantCode: "RES001",
		},
		{
			name:     "database down",
			err:      errors.New("failed to ping: connection refused"),
			wantCode: "DB003",
		},

		// Fallback
		{
			name:     "unknown error",
			err:      errors.New("something nobody anticipated"),
			wantCode: "ERR000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%q).Code = %s, want %s", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" || got.Action == "" {
				t.Errorf("mapped message incomplete: %+v", got)
			}
		})
	}
}

func TestMapError_CaseInsensitive(t *testing.T) {
	got := MapError(errors.New("MISSING REQUIRED COLUMNS: price"))
	if got.Code != "VAL001" {
		t.Errorf("uppercase error mapped to %s, want VAL001", got.Code)
	}
}

func TestMapError_Nil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
}

func TestMapError_WrappedChain(t *testing.T) {
	// The city-naming wrapper must win over the database cause it wraps.
	err := fmt.Errorf("replace zones for city %q: %w", "Karachi",
		errors.New("connection refused"))
	if got := MapError(err); got.Code != "IMP001" {
		t.Errorf("wrapped chain mapped to %s, want IMP001", got.Code)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(errors.New("no valid rows found"))
	if !strings.Contains(got, "(Code: IMP002)") {
		t.Errorf("FormatUserError = %q, want embedded code", got)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}
