package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Template renders the downloadable starter file for a catalog: the
// header row plus one example row, as CSV. Content is fixed per
// definition, so users get the same file every time.
func Template(key string) ([]byte, error) {
	def, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q", key)
	}

	headers := make([]string, len(def.Columns))
	for i, col := range def.Columns {
		headers[i] = col.Label
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if len(def.Example) > 0 {
		if err := w.Write(def.Example); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
