// Package catalog implements the tabular catalog reconciliation engine:
// conversion between flat editable rows and the grouped canonical
// documents consumed by the ordering bot.
//
// # Pipeline
//
// Rows arrive from file ingestion or straight from the edit surface. The
// field normalizers coerce individual values, the reconcilers validate
// rows and assign identities, and the projectors convert between the row
// and grouped representations. Persistence happens elsewhere; this
// package only builds payloads and drives the zone replace protocol
// through the ZoneGateway seam.
//
// All normalizers are total functions: malformed input produces a zero
// value or a nil sentinel, never a panic or an error. Row-level problems
// are handled by filtering, so a bad spreadsheet row costs that row, not
// the import.
//
// # Ordering
//
// Group order is first appearance and in-group order is row order. This
// is a contract, not an implementation detail: generated ids embed a
// per-group counter, so reordering rows changes the ids they get.
package catalog
