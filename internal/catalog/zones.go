package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Zone is the canonical persisted form of one delivery area.
type Zone struct {
	City           string  `json:"city"`
	Name           string  `json:"zone_name"`
	DeliveryFee    float64 `json:"delivery_fee"`
	MinOrderAmount float64 `json:"min_order_amount"`
	Active         bool    `json:"is_active"`
}

// ZoneRow is the flat editable unit for delivery zones. The pointer
// fields distinguish "not provided" from real zero values: a nil fee is
// invalid, a nil minimum defaults to 0, a nil active flag defaults to
// true.
type ZoneRow struct {
	ID             string   `json:"id,omitempty"`
	City           string   `json:"city"`
	Name           string   `json:"zone_name"`
	DeliveryFee    *float64 `json:"delivery_fee"`
	MinOrderAmount *float64 `json:"min_order_amount"`
	Active         *bool    `json:"is_active"`
}

// ZoneGateway is the narrow persistence seam the replace protocol drives.
// Implementations replace one city's listed zones in a single transaction
// and leave every other stored zone untouched.
type ZoneGateway interface {
	ReplaceCityZones(ctx context.Context, restaurantID, city string, names []string, zones []Zone) error
}

// CityBatch is one city's slice of an incoming zone set: the canonical
// zones to insert plus the normalized name keys the delete step matches
// against. Only names listed here may be removed from storage.
type CityBatch struct {
	City  string
	Names []string
	Zones []Zone
}

// ReconcileZoneRows validates, identifies, and deduplicates zone rows.
// The rules mirror ReconcileMenuRows with city as the group: empty names
// and missing, non-finite, or negative fees drop the row, a negative
// minimum order drops it too, and a missing minimum or active flag takes
// its default. Storage is keyed by (restaurant, city, name), so rows
// repeating a (city, name) pair are dropped as well as rows repeating an
// id.
func ReconcileZoneRows(rows []ZoneRow) []ZoneRow {
	out := make([]ZoneRow, 0, len(rows))
	counters := make(map[string]int, 4)
	seenID := make(map[string]struct{}, len(rows))
	seenName := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		name := NormalizeText(row.Name)
		if name == "" || !validAmount(row.DeliveryFee) {
			continue
		}
		min := 0.0
		if row.MinOrderAmount != nil {
			if !validAmount(row.MinOrderAmount) {
				continue
			}
			min = *row.MinOrderAmount
		}
		city := NormalizeGroupName(row.City, DefaultCity)
		key := GroupKey(city)
		nameKey := key + "\x00" + GroupKey(name)
		if _, dup := seenName[nameKey]; dup {
			continue
		}
		counters[key]++
		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = Slug(city) + "-" + Slug(name) + "-" + strconv.Itoa(counters[key])
		}
		if _, dup := seenID[id]; dup {
			continue
		}
		seenID[id] = struct{}{}
		seenName[nameKey] = struct{}{}
		fee := *row.DeliveryFee
		active := true
		if row.Active != nil {
			active = *row.Active
		}
		out = append(out, ZoneRow{
			ID:             id,
			City:           city,
			Name:           name,
			DeliveryFee:    &fee,
			MinOrderAmount: &min,
			Active:         &active,
		})
	}
	return out
}

// ValidateZoneRows reports the first row ReconcileZoneRows would drop,
// for the edit surface's blocking save path.
func ValidateZoneRows(rows []ZoneRow) error {
	for i, row := range rows {
		name := NormalizeText(row.Name)
		if name == "" {
			return fmt.Errorf("row %d: zone name is required", i+1)
		}
		if !validAmount(row.DeliveryFee) {
			return fmt.Errorf("row %d (%s): delivery fee must be a number of at least 0", i+1, name)
		}
		if row.MinOrderAmount != nil && !validAmount(row.MinOrderAmount) {
			return fmt.Errorf("row %d (%s): minimum order amount must be a number of at least 0", i+1, name)
		}
	}
	return nil
}

// PartitionZones splits rows into per-city batches, preserving first-seen
// city order and in-city row order. Invalid rows are dropped on the way
// through, so a city with no valid zones produces no batch (and therefore
// no delete).
func PartitionZones(rows []ZoneRow) []CityBatch {
	batches := make([]CityBatch, 0, 4)
	index := make(map[string]int, 4)
	for _, row := range rows {
		name := NormalizeText(row.Name)
		if name == "" || !validAmount(row.DeliveryFee) {
			continue
		}
		city := NormalizeGroupName(row.City, DefaultCity)
		key := GroupKey(city)
		i, ok := index[key]
		if !ok {
			i = len(batches)
			index[key] = i
			batches = append(batches, CityBatch{City: city})
		}
		min := 0.0
		if row.MinOrderAmount != nil && validAmount(row.MinOrderAmount) {
			min = *row.MinOrderAmount
		}
		active := true
		if row.Active != nil {
			active = *row.Active
		}
		batches[i].Names = append(batches[i].Names, GroupKey(name))
		batches[i].Zones = append(batches[i].Zones, Zone{
			City:           city,
			Name:           name,
			DeliveryFee:    *row.DeliveryFee,
			MinOrderAmount: min,
			Active:         active,
		})
	}
	return batches
}

// SaveZones runs the safe-replace protocol: reconcile, partition by city,
// then replace each city's listed zones through the gateway. Replacement
// is transactional per city, not across cities; a failure stops the loop
// and names the city, so callers know earlier cities were already
// applied. Stored zones whose city or name does not appear in the batch
// are never touched, which makes a partial save an upsert-merge rather
// than a wipe.
func SaveZones(ctx context.Context, gw ZoneGateway, restaurantID string, rows []ZoneRow) ([]ZoneRow, error) {
	rows = ReconcileZoneRows(rows)
	for _, batch := range PartitionZones(rows) {
		if err := gw.ReplaceCityZones(ctx, restaurantID, batch.City, batch.Names, batch.Zones); err != nil {
			return nil, fmt.Errorf("replace zones for city %q: %w", batch.City, err)
		}
	}
	return rows, nil
}

// FlattenZones converts stored zones back into editable rows. Ids are not
// assigned here; callers run the result through ReconcileZoneRows when
// the edit surface needs them.
func FlattenZones(zones []Zone) []ZoneRow {
	rows := make([]ZoneRow, 0, len(zones))
	for _, z := range zones {
		fee := z.DeliveryFee
		min := z.MinOrderAmount
		active := z.Active
		rows = append(rows, ZoneRow{
			City:           z.City,
			Name:           z.Name,
			DeliveryFee:    &fee,
			MinOrderAmount: &min,
			Active:         &active,
		})
	}
	return rows
}
