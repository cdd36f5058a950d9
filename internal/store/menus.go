package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveMenu upserts the canonical menu document for a restaurant. The
// document is stored whole; versioning is updated_at only.
func (s *Store) SaveMenu(ctx context.Context, restaurantID uuid.UUID, document []byte) error {
	ctx, cancel := context.WithTimeout(ctx, SaveTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO menus (restaurant_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (restaurant_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		restaurantID, document)
	if err != nil {
		return fmt.Errorf("save menu: %w", err)
	}
	return nil
}

// LoadMenu returns the stored menu document, or nil when the restaurant
// has never saved one. Absence is not an error; it reads as an empty
// catalog downstream.
func (s *Store) LoadMenu(ctx context.Context, restaurantID uuid.UUID) ([]byte, error) {
	var document []byte
	err := s.pool.QueryRow(ctx, `
		SELECT document FROM menus WHERE restaurant_id = $1`,
		restaurantID).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return document, nil
}
