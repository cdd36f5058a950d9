package web

// handlers.go contains the restaurant CRUD surface plus the handlers
// shared by both catalogs: health, template download, and import history.
// Catalog-specific handlers live in handlers_menu.go and handlers_zones.go.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asharibshahid/dashboard/internal/catalog"
	"github.com/asharibshahid/dashboard/internal/ingest"
	"github.com/asharibshahid/dashboard/internal/logging"
	"github.com/asharibshahid/dashboard/internal/store"
)

type ctxKey int

const restaurantCtxKey ctxKey = 0

// restaurantCtx resolves {restaurantID} and loads the restaurant into the
// request context. Nested handlers can assume the restaurant exists.
func (s *Server) restaurantCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "restaurantID"))
		if err != nil {
			s.respondError(w, r, fmt.Errorf("invalid restaurant id: %w", err), http.StatusBadRequest)
			return
		}

		rest, err := s.store.GetRestaurant(r.Context(), id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrRestaurantNotFound) {
				status = http.StatusNotFound
			}
			s.respondError(w, r, err, status)
			return
		}

		ctx := context.WithValue(r.Context(), restaurantCtxKey, rest)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restaurantFrom returns the restaurant loaded by restaurantCtx.
func restaurantFrom(ctx context.Context) *store.Restaurant {
	rest, _ := ctx.Value(restaurantCtxKey).(*store.Restaurant)
	return rest
}

// handleHealth reports liveness, database reachability, and import load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.imports.Status(),
	})
}

// handleCreateRestaurant registers a new restaurant.
func (s *Server) handleCreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var p store.RestaurantParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	if catalog.NormalizeText(p.Name) == "" {
		s.respondError(w, r, errors.New("restaurant name is required"), http.StatusBadRequest)
		return
	}

	rest, err := s.store.CreateRestaurant(r.Context(), p)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, rest)
}

// handleListRestaurants returns all restaurants, newest first.
func (s *Server) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListRestaurants(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.Restaurant{}
	}

	writeJSON(w, http.StatusOK, list)
}

// handleGetRestaurant returns the restaurant resolved by restaurantCtx.
func (s *Server) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, restaurantFrom(r.Context()))
}

// handleUpdateRestaurant overwrites the writable restaurant fields.
// An omitted is_active keeps the stored value.
func (s *Server) handleUpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	var p store.RestaurantParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	if catalog.NormalizeText(p.Name) == "" {
		s.respondError(w, r, errors.New("restaurant name is required"), http.StatusBadRequest)
		return
	}

	updated, err := s.store.UpdateRestaurant(r.Context(), rest.ID, p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrRestaurantNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteRestaurant removes a restaurant and its catalogs.
func (s *Server) handleDeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())

	if err := s.store.DeleteRestaurant(r.Context(), rest.ID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrRestaurantNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListImports returns a restaurant's recent import events.
func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	rest := restaurantFrom(r.Context())
	limit := parseIntParam(r, "limit", 50)

	events, err := s.store.ListImports(r.Context(), rest.ID, limit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []store.ImportEvent{}
	}

	writeJSON(w, http.StatusOK, events)
}

// handleDownloadTemplate returns a CSV starter file for a catalog.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "catalog")

	data, err := ingest.Template(key)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_template.csv"`, key))
	w.Write(data)
}

// readImportFile extracts the uploaded file from a multipart form.
// The request body is capped at the configured maximum file size.
func (s *Server) readImportFile(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("no file provided: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}

	return data, header.Filename, nil
}

// recordImport appends to the import history. Failures are logged, not
// surfaced: the import itself already succeeded.
func (s *Server) recordImport(r *http.Request, restaurantID uuid.UUID, catalogKey, fileName string, imported, dropped int) {
	ev := store.ImportEvent{
		RestaurantID: restaurantID,
		Catalog:      catalogKey,
		FileName:     fileName,
		RowsImported: imported,
		RowsDropped:  dropped,
	}
	if err := s.store.RecordImport(r.Context(), ev); err != nil {
		logging.FromContext(r.Context()).Warn("record import failed",
			"restaurant_id", restaurantID,
			"catalog", catalogKey,
			"error", err,
		)
	}
}

// importStatus picks the response code for a failed limiter acquire.
func importStatus(err error) int {
	if errors.Is(err, ErrTooManyImports) {
		return http.StatusTooManyRequests
	}
	return http.StatusBadRequest
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
