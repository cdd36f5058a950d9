package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/asharibshahid/dashboard/internal/catalog"
)

// ErrRestaurantNotFound is returned when an id resolves to nothing.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// Restaurant is one business whose catalogs the dashboard manages.
type Restaurant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RestaurantParams carries the writable restaurant fields. Active is a
// pointer so an omitted flag keeps the current value on update and
// defaults to true on create.
type RestaurantParams struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	City   string `json:"city"`
	Active *bool  `json:"is_active"`
}

// CreateRestaurant inserts a new restaurant and returns it.
func (s *Store) CreateRestaurant(ctx context.Context, p RestaurantParams) (*Restaurant, error) {
	name := catalog.NormalizeText(p.Name)
	if name == "" {
		return nil, errors.New("restaurant name is required")
	}

	r := &Restaurant{
		ID:     uuid.New(),
		Name:   name,
		Phone:  catalog.NormalizeText(p.Phone),
		City:   catalog.NormalizeText(p.City),
		Active: true,
	}
	if p.Active != nil {
		r.Active = *p.Active
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO restaurants (id, name, phone, city, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		r.ID, r.Name, ToPgText(r.Phone), ToPgText(r.City), r.Active,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

// GetRestaurant loads one restaurant by id.
func (s *Store) GetRestaurant(ctx context.Context, id uuid.UUID) (*Restaurant, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, phone, city, is_active, created_at, updated_at
		FROM restaurants
		WHERE id = $1`, id)

	r, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

// ListRestaurants returns every restaurant, newest first.
func (s *Store) ListRestaurants(ctx context.Context) ([]Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, phone, city, is_active, created_at, updated_at
		FROM restaurants
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var out []Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("list restaurants: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out, nil
}

// UpdateRestaurant overwrites the writable fields and returns the result.
func (s *Store) UpdateRestaurant(ctx context.Context, id uuid.UUID, p RestaurantParams) (*Restaurant, error) {
	name := catalog.NormalizeText(p.Name)
	if name == "" {
		return nil, errors.New("restaurant name is required")
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE restaurants
		SET name = $2, phone = $3, city = $4,
		    is_active = COALESCE($5, is_active),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, phone, city, is_active, created_at, updated_at`,
		id, name, ToPgText(catalog.NormalizeText(p.Phone)), ToPgText(catalog.NormalizeText(p.City)), p.Active)

	r, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return r, nil
}

// DeleteRestaurant removes a restaurant; its catalogs go with it via
// cascade.
func (s *Store) DeleteRestaurant(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}

func scanRestaurant(row pgx.Row) (*Restaurant, error) {
	var (
		r     Restaurant
		phone pgtype.Text
		city  pgtype.Text
	)
	err := row.Scan(&r.ID, &r.Name, &phone, &city, &r.Active, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Phone = TextString(phone)
	r.City = TextString(city)
	return &r, nil
}
