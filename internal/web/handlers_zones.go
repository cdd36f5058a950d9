package web

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asharibshahid/dashboard/internal/catalog"
	"github.com/asharibshahid/dashboard/internal/ingest"
	"github.com/asharibshahid/dashboard/internal/logging"
)

// handleGetZones returns the stored delivery zones plus the flat editable
// rows with freshly assigned ids.
func (s *Server) handleGetZones(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	zones, err := s.store.ListZones(r.Context(), rest.ID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if zones == nil {
		zones = []catalog.Zone{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"zones": zones,
		"rows":  catalog.ReconcileZoneRows(catalog.FlattenZones(zones)),
	})
}

// handleSaveZones validates the edited rows and runs the per-city replace
// protocol. Cities are saved one transaction at a time; on failure the
// error names the city and earlier cities stay saved.
func (s *Server) handleSaveZones(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	var req struct {
		Rows []catalog.ZoneRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	if err := catalog.ValidateZoneRows(req.Rows); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	saved, err := catalog.SaveZones(r.Context(), s.store, rest.ID.String(), req.Rows)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("zones saved",
		"restaurant_id", rest.ID,
		"zones", len(saved),
	)

	writeJSON(w, http.StatusOK, map[string]any{"rows": saved})
}

// handleImportZones parses an uploaded zone file and returns the
// reconciled rows. Nothing is persisted until the user saves.
func (s *Server) handleImportZones(w http.ResponseWriter, r *http.Request) {
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

	res, err := ingest.ParseZoneFile(filename, data)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	s.recordImport(r, rest.ID, ingest.CatalogZones, filename, len(res.Rows), res.Dropped)

	logging.FromContext(r.Context()).Info("zone file imported",
		"restaurant_id", rest.ID,
		"file_name", filename,
		"parsed", res.Parsed,
		"dropped", res.Dropped,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"catalog":   ingest.CatalogZones,
		"file_name": filename,
		"parsed":    res.Parsed,
		"dropped":   res.Dropped,
		"rows":      res.Rows,
	})
}

// handleExportZones downloads the stored zones as CSV in the template's
// column layout.
func (s *Server) handleExportZones(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	zones, err := s.store.ListZones(r.Context(), rest.ID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="zones_export.csv"`)

	csvWriter := csv.NewWriter(w)
	csvWriter.Write([]string{"Zone Name", "Delivery Fee", "City", "Min Order Amount", "Is Active"})
	for _, row := range catalog.FlattenZones(zones) {
		csvWriter.Write([]string{
			row.Name,
			formatAmount(row.DeliveryFee),
			row.City,
			formatAmount(row.MinOrderAmount),
			formatBool(row.Active),
		})
	}
	csvWriter.Flush()
}

// formatBool renders an active flag in the form the importer reads back.
func formatBool(v *bool) string {
	if v == nil || *v {
		return "yes"
	}
	return "no"
}
