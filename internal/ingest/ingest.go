package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/asharibshahid/dashboard/internal/catalog"
)

// ErrNoValidRows is returned when a file parses cleanly but not a single
// row survives reconciliation. The file-level error matters even though
// no row-level problem does: silently importing nothing would look like
// success.
var ErrNoValidRows = errors.New("no valid rows found")

// Record is one data row keyed by normalized header. Cells are cleaned of
// spreadsheet artifacts but otherwise raw; value coercion happens when
// the record is mapped to a catalog row.
type Record map[string]string

// MenuImport is the outcome of parsing a menu file: reconciled rows ready
// for the edit surface, plus counts for reporting how lossy the file was.
type MenuImport struct {
	Rows    []catalog.MenuRow
	Parsed  int
	Dropped int
}

// ZoneImport is the outcome of parsing a delivery zone file.
type ZoneImport struct {
	Rows    []catalog.ZoneRow
	Parsed  int
	Dropped int
}

// ParseMenuFile parses an uploaded menu file into reconciled rows. The
// adapter is chosen by the declared filename's extension. Structural
// problems (unsupported type, unreadable file, missing required columns,
// zero surviving rows) return an error; individual bad rows are dropped
// and show up in the Dropped count.
func ParseMenuFile(filename string, data []byte) (*MenuImport, error) {
	def, _ := Lookup(CatalogMenu)
	records, err := parseRecords(filename, data, def)
	if err != nil {
		return nil, err
	}

	rows := make([]catalog.MenuRow, 0, len(records))
	for _, rec := range records {
		row := catalog.MenuRow{
			ID:          catalog.NormalizeText(rec[colID]),
			Category:    catalog.NormalizeText(rec[colCategory]),
			Name:        catalog.NormalizeText(rec[colItemName]),
			Description: catalog.NormalizeText(rec[colDescription]),
		}
		if p, ok := catalog.NormalizePrice(rec[colPrice]); ok {
			row.Price = &p
		}
		rows = append(rows, row)
	}

	reconciled := catalog.ReconcileMenuRows(rows)
	if len(reconciled) == 0 {
		return nil, ErrNoValidRows
	}
	return &MenuImport{
		Rows:    reconciled,
		Parsed:  len(records),
		Dropped: len(records) - len(reconciled),
	}, nil
}

// ParseZoneFile parses an uploaded delivery zone file into reconciled
// rows, under the same structural/row-level error split as ParseMenuFile.
func ParseZoneFile(filename string, data []byte) (*ZoneImport, error) {
	def, _ := Lookup(CatalogZones)
	records, err := parseRecords(filename, data, def)
	if err != nil {
		return nil, err
	}

	rows := make([]catalog.ZoneRow, 0, len(records))
	for _, rec := range records {
		row := catalog.ZoneRow{
			ID:     catalog.NormalizeText(rec[colID]),
			City:   catalog.NormalizeText(rec[colCity]),
			Name:   catalog.NormalizeText(rec[colZoneName]),
			Active: parseBoolCell(rec[colActive]),
		}
		if fee, ok := catalog.NormalizePrice(rec[colDeliveryFee]); ok {
			row.DeliveryFee = &fee
		}
		if min, ok := catalog.NormalizePrice(rec[colMinOrder]); ok {
			row.MinOrderAmount = &min
		}
		rows = append(rows, row)
	}

	reconciled := catalog.ReconcileZoneRows(rows)
	if len(reconciled) == 0 {
		return nil, ErrNoValidRows
	}
	return &ZoneImport{
		Rows:    reconciled,
		Parsed:  len(records),
		Dropped: len(records) - len(reconciled),
	}, nil
}

// parseRecords runs the format-independent part of ingestion: adapter
// dispatch, header normalization, required-column validation, and the
// projection of data rows onto normalized header keys.
func parseRecords(filename string, data []byte, def Definition) ([]Record, error) {
	table, err := readTable(filename, data)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, errors.New("file is empty")
	}

	headers := make([]string, len(table[0]))
	for i, h := range table[0] {
		headers[i] = catalog.NormalizeHeader(h)
	}
	if err := validateHeaders(headers, def); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(table)-1)
	for _, row := range table[1:] {
		if isEmptyRow(row) {
			continue
		}
		rec := make(Record, len(headers))
		for i, key := range headers {
			if key == "" || i >= len(row) {
				continue
			}
			rec[key] = catalog.CleanCell(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

// readTable picks the adapter for the declared filename. Only the two
// supported extensions are accepted; anything else fails before a byte is
// parsed.
func readTable(filename string, data []byte) ([][]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseWorkbook(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q: upload a .csv or .xlsx file", ext)
	}
}

// validateHeaders checks that every required column of the definition is
// present after normalization.
func validateHeaders(headers []string, def Definition) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range def.Columns {
		if col.Required && !present[col.Key] {
			missing = append(missing, col.Key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseBoolCell reads an is_active style cell. Blank or unrecognized
// values return nil so the reconciler can apply the default.
func parseBoolCell(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "active":
		v = true
	case "false", "no", "n", "0", "inactive":
		v = false
	default:
		return nil
	}
	return &v
}
