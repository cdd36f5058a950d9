package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/asharibshahid/dashboard/internal/catalog"
	"github.com/asharibshahid/dashboard/internal/ingest"
	"github.com/asharibshahid/dashboard/internal/logging"
)

// menuResponse pairs the canonical grouped view with the flat rows the
// edit surface works on.
type menuResponse struct {
	Categories []catalog.MenuCategory `json:"categories"`
	Rows       []catalog.MenuRow      `json:"rows"`
}

// handleGetMenu returns the stored menu in both shapes. Legacy and
// malformed documents degrade to an empty catalog instead of failing.
func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	raw, err := s.store.LoadMenu(r.Context(), rest.ID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	rows := catalog.ReconcileMenuRows(catalog.FlattenMenu(catalog.DecodeStoredMenu(raw)))

	writeJSON(w, http.StatusOK, menuResponse{
		Categories: catalog.GroupMenuRows(rows),
		Rows:       rows,
	})
}

// handleSaveMenu validates, reconciles, and persists the edited rows as
// the canonical grouped document. Unlike imports, manual edits block on
// the first invalid row instead of dropping it.
func (s *Server) handleSaveMenu(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	var req struct {
		Rows []catalog.MenuRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	if err := catalog.ValidateMenuRows(req.Rows); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	rows := catalog.ReconcileMenuRows(req.Rows)
	doc, err := catalog.EncodeMenu(catalog.GroupMenuRows(rows))
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.store.SaveMenu(r.Context(), rest.ID, doc); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("menu saved",
		"restaurant_id", rest.ID,
		"items", len(rows),
	)

	writeJSON(w, http.StatusOK, menuResponse{
		Categories: catalog.GroupMenuRows(rows),
		Rows:       rows,
	})
}

// handleImportMenu parses an uploaded menu file and returns the
// reconciled rows. Nothing is persisted until the user saves.
func (s *Server) handleImportMenu(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	if err := s.imports.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err, importStatus(err))
		return
	}
	defer s.imports.Release()

	data, filename, err := s.readImportFile(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := ingest.ParseMenuFile(filename, data)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.recordImport(r, rest.ID, ingest.CatalogMenu, filename, len(res.Rows), res.Dropped)

	logging.FromContext(r.Context()).Info("menu file imported",
		"restaurant_id", rest.ID,
		"file_name", filename,
		"parsed", res.Parsed,
		"dropped", res.Dropped,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"catalog":   ingest.CatalogMenu,
		"file_name": filename,
		"parsed":    res.Parsed,
		"dropped":   res.Dropped,
		"rows":      res.Rows,
	})
}

// handleExportMenu downloads the stored menu as CSV in the same column
// layout the import template uses, so exports re-import cleanly.
func (s *Server) handleExportMenu(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	raw, err := s.store.LoadMenu(r.Context(), rest.ID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	rows := catalog.ReconcileMenuRows(catalog.FlattenMenu(catalog.DecodeStoredMenu(raw)))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="menu_export.csv"`)

	csvWriter := csv.NewWriter(w)
	csvWriter.Write([]string{"Item Name", "Price", "Category", "Description", "Id"})
	for _, row := range rows {
		csvWriter.Write([]string{
			row.Name,
			formatAmount(row.Price),
			row.Category,
			row.Description,
			row.ID,
		})
	}
	csvWriter.Flush()
}

// formatAmount renders a money value for CSV export, empty when unset.
func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
