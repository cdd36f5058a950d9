package ingest

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// parseCSV reads a delimited file into raw rows. The reader is deliberately
// forgiving about shape: ragged rows and stray quotes are common in
// hand-edited exports and are handled downstream. A syntax error the
// parser cannot recover from is returned as-is so the user sees the
// parser's own line and column.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeFile(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sanitizeFile strips a UTF-8 byte order mark and replaces invalid byte
// sequences with the replacement character. Windows spreadsheet tools
// produce both routinely, and the CSV parser must never see them.
func sanitizeFile(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}
	return buf.Bytes()
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
