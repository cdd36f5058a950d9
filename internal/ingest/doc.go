// Package ingest turns uploaded catalog files into reconciled rows.
//
// Two file formats are supported, CSV and XLSX, selected by the declared
// filename's extension. Both adapters converge on the same output: the
// first row is the header, normalized for matching, and every following
// non-empty row becomes a record keyed by normalized header. Required
// columns are checked up front so a wrong file fails fast with the
// missing names instead of importing garbage.
//
// Catalog kinds are registered as Definitions at init time. A Definition
// carries the column specs used for header validation and the content of
// the downloadable starter template.
package ingest
