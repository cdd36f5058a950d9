package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ImportEvent records one file import: what was uploaded, how much of it
// survived reconciliation, and when. The history answers "why is the
// catalog half empty" without re-running the file.
type ImportEvent struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Catalog      string    `json:"catalog"`
	FileName     string    `json:"file_name,omitempty"`
	RowsImported int       `json:"rows_imported"`
	RowsDropped  int       `json:"rows_dropped"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordImport appends one event to a restaurant's import history.
func (s *Store) RecordImport(ctx context.Context, ev ImportEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_events
			(id, restaurant_id, catalog, file_name, rows_imported, rows_dropped)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.RestaurantID, ev.Catalog, ToPgText(ev.FileName), ev.RowsImported, ev.RowsDropped)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return nil
}

// ListImports returns a restaurant's recent import events, newest first.
// Limit is clamped to keep the endpoint cheap.
func (s *Store) ListImports(ctx context.Context, restaurantID uuid.UUID, limit int) ([]ImportEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, restaurant_id, catalog, file_name, rows_imported, rows_dropped, created_at
		FROM import_events
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []ImportEvent
	for rows.Next() {
		var (
			ev       ImportEvent
			fileName pgtype.Text
		)
		if err := rows.Scan(&ev.ID, &ev.RestaurantID, &ev.Catalog, &fileName,
			&ev.RowsImported, &ev.RowsDropped, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("list imports: %w", err)
		}
		ev.FileName = TextString(fileName)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return out, nil
}
