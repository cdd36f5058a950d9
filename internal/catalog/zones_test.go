package catalog

import (
	"context"
	"errors"
	"testing"
)

func boolp(v bool) *bool {
	return &v
}

// ============================================================================
// Zone Reconciliation Tests
// ============================================================================

func TestReconcileZoneRows_Defaults(t *testing.T) {
	rows := []ZoneRow{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: price(150)},
	}

	got := ReconcileZoneRows(rows)
	if len(got) != 1 {
		t.Fatalf("kept %d rows, want 1", len(got))
	}
	z := got[0]
	if z.ID != "karachi-gulshan-1" {
		t.Errorf("id = %q, want %q", z.ID, "karachi-gulshan-1")
	}
	if z.MinOrderAmount == nil || *z.MinOrderAmount != 0 {
		t.Errorf("missing minimum should default to 0, got %v", z.MinOrderAmount)
	}
	if z.Active == nil || !*z.Active {
		t.Errorf("missing active flag should default to true, got %v", z.Active)
	}
}

func TestReconcileZoneRows_SentinelCity(t *testing.T) {
	got := ReconcileZoneRows([]ZoneRow{
		{Name: "Airport Zone", DeliveryFee: price(200)},
	})
	if len(got) != 1 || got[0].City != DefaultCity {
		t.Errorf("city = %+v, want sentinel %q", got, DefaultCity)
	}
}

func TestReconcileZoneRows_Drops(t *testing.T) {
	tests := []struct {
		name string
		row  ZoneRow
	}{
		{
			name: "empty name",
			row:  ZoneRow{City: "Karachi", Name: " ", DeliveryFee: price(100)},
		},
		{
			name: "nil fee",
			row:  ZoneRow{City: "Karachi", Name: "Gulshan"},
		},
		{
			name: "negative fee",
			row:  ZoneRow{City: "Karachi", Name: "Gulshan", DeliveryFee: price(-1)},
		},
		{
			name: "negative minimum",
			row:  ZoneRow{City: "Karachi", Name: "Gulshan", DeliveryFee: price(100), MinOrderAmount: price(-500)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReconcileZoneRows([]ZoneRow{tt.row}); len(got) != 0 {
				t.Errorf("kept invalid row: %+v", got)
			}
		})
	}
}

func TestReconcileZoneRows_DedupesByCityAndName(t *testing.T) {
	rows := []ZoneRow{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: price(150)},
		{City: " karachi", Name: "GULSHAN ", DeliveryFee: price(999)},
		{City: "Lahore", Name: "Gulshan", DeliveryFee: price(150)},
	}

	got := ReconcileZoneRows(rows)
	if len(got) != 2 {
		t.Fatalf("kept %d rows, want 2 (same name in another city is distinct)", len(got))
	}
	if *got[0].DeliveryFee != 150 {
		t.Error("duplicate should keep the first occurrence")
	}
	if got[1].City != "Lahore" {
		t.Errorf("second kept row city = %q, want Lahore", got[1].City)
	}
}

func TestReconcileZoneRows_Idempotent(t *testing.T) {
	first := ReconcileZoneRows([]ZoneRow{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: price(150)},
		{City: "Karachi", Name: "DHA", DeliveryFee: price(250), Active: boolp(false)},
	})
	second := ReconcileZoneRows(first)

	if len(first) != len(second) {
		t.Fatalf("second pass changed row count: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Name != second[i].Name {
			t.Errorf("row %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

// ============================================================================
// Partition and Safe-Replace Tests
// ============================================================================

func TestPartitionZones(t *testing.T) {
	rows := ReconcileZoneRows([]ZoneRow{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: price(150)},
		{City: "Lahore", Name: "Johar Town", DeliveryFee: price(180)},
		{City: "Karachi", Name: "DHA", DeliveryFee: price(250)},
	})

	batches := PartitionZones(rows)
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	if batches[0].City != "Karachi" || batches[1].City != "Lahore" {
		t.Errorf("batch order = [%s, %s], want first-seen", batches[0].City, batches[1].City)
	}
	wantNames := []string{"gulshan", "dha"}
	if len(batches[0].Names) != 2 || batches[0].Names[0] != wantNames[0] || batches[0].Names[1] != wantNames[1] {
		t.Errorf("Karachi names = %v, want %v", batches[0].Names, wantNames)
	}
	if len(batches[0].Zones) != 2 || batches[0].Zones[1].Name != "DHA" {
		t.Errorf("Karachi zones = %+v", batches[0].Zones)
	}
}

// recordingGateway captures ReplaceCityZones calls and can fail a chosen
// city to exercise the partial-failure contract.
type recordingGateway struct {
	calls    []CityBatch
	failCity string
}

func (g *recordingGateway) ReplaceCityZones(_ context.Context, _ string, city string, names []string, zones []Zone) error {
	if g.failCity != "" && city == g.failCity {
		return errors.New("connection reset")
	}
	g.calls = append(g.calls, CityBatch{City: city, Names: names, Zones: zones})
	return nil
}

func TestSaveZones_GroupIsolation(t *testing.T) {
	// Saving Karachi zones must touch only Karachi, and within Karachi
	// only the names present in the batch.
	gw := &recordingGateway{}
	rows := []ZoneRow{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: price(150)},
		{City: "Karachi", Name: "DHA", DeliveryFee: price(250)},
	}

	saved, err := SaveZones(context.Background(), gw, "rest-1", rows)
	if err != nil {
		t.Fatalf("SaveZones: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("saved %d rows, want 2", len(saved))
	}
	if len(gw.calls) != 1 {
		t.Fatalf("gateway called %d times, want 1 (one city)", len(gw.calls))
	}
	call := gw.calls[0]
	if call.City != "Karachi" {
		t.Errorf("replace city = %q, want Karachi", call.City)
	}
	if len(call.Names) != 2 || call.Names[0] != "gulshan" || call.Names[1] != "dha" {
		t.Errorf("delete scope = %v, want exactly the batch names", call.Names)
	}
}

func TestSaveZones_FailureNamesCity(t *testing.T) {
	gw := &recordingGateway{failCity: "Lahore"}
	rows := []ZoneRow{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: price(150)},
		{City: "Lahore", Name: "Johar Town", DeliveryFee: price(180)},
		{City: "Islamabad", Name: "F-7", DeliveryFee: price(300)},
	}

	_, err := SaveZones(context.Background(), gw, "rest-1", rows)
	if err == nil {
		t.Fatal("expected error from failing city")
	}
	if !contains(err.Error(), `replace zones for city "Lahore"`) {
		t.Errorf("error %q does not name the failed city", err)
	}
	// Earlier cities were applied, later ones never attempted.
	if len(gw.calls) != 1 || gw.calls[0].City != "Karachi" {
		t.Errorf("applied calls = %+v, want only Karachi", gw.calls)
	}
}

func TestFlattenZones(t *testing.T) {
	zones := []Zone{
		{City: "Karachi", Name: "Gulshan", DeliveryFee: 150, MinOrderAmount: 500, Active: true},
	}

	rows := FlattenZones(zones)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.City != "Karachi" || r.Name != "Gulshan" {
		t.Errorf("row = %+v", r)
	}
	if r.DeliveryFee == nil || *r.DeliveryFee != 150 {
		t.Errorf("fee = %v, want 150", r.DeliveryFee)
	}
	if r.MinOrderAmount == nil || *r.MinOrderAmount != 500 {
		t.Errorf("minimum = %v, want 500", r.MinOrderAmount)
	}
	if r.Active == nil || !*r.Active {
		t.Errorf("active = %v, want true", r.Active)
	}
}
