package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/asharibshahid/dashboard/internal/catalog"
)

// ReplaceCityZones implements the engine's ZoneGateway: inside one
// transaction, delete the stored zones of this (restaurant, city) whose
// names appear in the incoming batch, then insert the batch. Stored
// zones absent from names survive untouched, which is what makes a
// city-scoped save a merge instead of a wipe. Name matching is
// case-insensitive and trimmed on both sides.
func (s *Store) ReplaceCityZones(ctx context.Context, restaurantID, city string, names []string, zones []catalog.Zone) error {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return fmt.Errorf("invalid restaurant id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, SaveTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(names) > 0 {
		_, err = tx.Exec(ctx, `
			DELETE FROM delivery_zones
			WHERE restaurant_id = $1
			  AND lower(btrim(city)) = lower(btrim($2))
			  AND lower(btrim(zone_name)) = ANY($3)`,
			rid, city, names)
		if err != nil {
			return fmt.Errorf("delete listed zones: %w", err)
		}
	}

	for _, z := range zones {
		fee, err := ToPgNumeric(z.DeliveryFee)
		if err != nil {
			return fmt.Errorf("zone %q: %w", z.Name, err)
		}
		min, err := ToPgNumeric(z.MinOrderAmount)
		if err != nil {
			return fmt.Errorf("zone %q: %w", z.Name, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO delivery_zones
				(id, restaurant_id, city, zone_name, delivery_fee, min_order_amount, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), rid, z.City, z.Name, fee, min, z.Active)
		if err != nil {
			return fmt.Errorf("insert zone %q: %w", z.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// ListZones returns a restaurant's stored zones ordered by city then
// name, the order the edit surface shows them in.
func (s *Store) ListZones(ctx context.Context, restaurantID uuid.UUID) ([]catalog.Zone, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT city, zone_name, delivery_fee, min_order_amount, is_active
		FROM delivery_zones
		WHERE restaurant_id = $1
		ORDER BY lower(city), lower(zone_name)`,
		restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var out []catalog.Zone
	for rows.Next() {
		var (
			z        catalog.Zone
			fee, min pgtype.Numeric
		)
		if err := rows.Scan(&z.City, &z.Name, &fee, &min, &z.Active); err != nil {
			return nil, fmt.Errorf("list zones: %w", err)
		}
		z.DeliveryFee = NumericFloat(fee)
		z.MinOrderAmount = NumericFloat(min)
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return out, nil
}
