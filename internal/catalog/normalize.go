package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel group names applied when a row arrives without one.
const (
	DefaultCategory = "Uncategorized"
	DefaultCity     = "Unassigned"
)

var (
	headerRunRegex = regexp.MustCompile(`[\s\-]+`)
	spaceRunRegex  = regexp.MustCompile(`\s+`)
	slugRunRegex   = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeHeader canonicalizes a column header for matching: strips a
// UTF-8 BOM, removes spreadsheet artifacts, trims, lowercases, and
// collapses whitespace and hyphen runs to a single underscore. " Item_Name "
// and "item-name" both resolve to "item_name".
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = CleanCell(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return headerRunRegex.ReplaceAllString(s, "_")
}

// NormalizeText coerces any scalar to a string, collapses internal
// whitespace runs to single spaces, and trims. Nil becomes "".
func NormalizeText(v any) string {
	s := coerceString(v)
	return strings.TrimSpace(spaceRunRegex.ReplaceAllString(s, " "))
}

// NormalizePrice coerces a cell to a money amount. Everything except
// digits, the first decimal point, and a leading minus is stripped before
// parsing, so "PKR 1,250" reads as 1250. The second return is false when
// nothing parseable remains; callers treat that as row data, not an error.
func NormalizePrice(v any) (float64, bool) {
	s := strings.TrimSpace(coerceString(v))
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	b.Grow(len(s))
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeGroupName is NormalizeText with a fallback: an empty result
// maps to the catalog's sentinel group instead of "".
func NormalizeGroupName(v any, fallback string) string {
	if s := NormalizeText(v); s != "" {
		return s
	}
	return fallback
}

// Slug derives the id fragment for a name: lowercase, runs of
// non-alphanumerics become single hyphens, edge hyphens are trimmed, and
// a fully non-alphanumeric name falls back to "item" so id synthesis
// always has something to build on.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRunRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "item"
	}
	return s
}

// GroupKey is the comparison key for group names: case-insensitive and
// whitespace-collapsed. "Karachi" and " karachi " group together while
// their first-seen display form is preserved.
func GroupKey(name string) string {
	return strings.ToLower(NormalizeText(name))
}

// CleanCell strips spreadsheet export artifacts from a raw cell: the
// Excel ="..." formula wrapper and stray surrounding quotes.
func CleanCell(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, `="`) && strings.HasSuffix(value, `"`) && len(value) >= 3 {
		value = value[2 : len(value)-1]
	}
	value = strings.Trim(value, `"`)
	return strings.TrimSpace(value)
}

// validAmount reports whether a money amount is present, finite, and not
// negative. Validity lives here rather than in NormalizePrice so parsing
// stays total and rejection stays a reconciler concern.
func validAmount(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v >= 0
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
