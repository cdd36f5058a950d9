package catalog

import (
	"encoding/json"
	"reflect"
	"testing"
)

func price(v float64) *float64 {
	return &v
}

// ============================================================================
// Row Reconciliation Tests
// ============================================================================

func TestReconcileMenuRows_AssignsIds(t *testing.T) {
	rows := []MenuRow{
		{Category: "Burgers", Name: "Zinger", Price: price(450)},
		{Category: "Burgers", Name: "Tower", Price: price(550)},
		{Category: "Drinks", Name: "Cola", Price: price(120)},
		{Category: "Burgers", Name: "Double Decker", Price: price(650)},
	}

	got := ReconcileMenuRows(rows)
	if len(got) != 4 {
		t.Fatalf("kept %d rows, want 4", len(got))
	}

	wantIDs := []string{
		"burgers-zinger-1",
		"burgers-tower-2",
		"drinks-cola-1",
		"burgers-double-decker-3",
	}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("row %d id = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestReconcileMenuRows_Idempotent(t *testing.T) {
	rows := []MenuRow{
		{Category: "Deals", Name: "Family Deal", Price: price(1999)},
		{Category: "Deals", Name: "Student Deal", Price: price(499)},
		{Category: "", Name: "Loose Item", Price: price(100)},
	}

	first := ReconcileMenuRows(rows)
	second := ReconcileMenuRows(first)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed rows:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestReconcileMenuRows_PreservesExplicitIds(t *testing.T) {
	rows := []MenuRow{
		{ID: "legacy-0042", Category: "Burgers", Name: "Zinger", Price: price(450)},
		{Category: "Burgers", Name: "Tower", Price: price(550)},
	}

	got := ReconcileMenuRows(rows)
	if got[0].ID != "legacy-0042" {
		t.Errorf("explicit id rewritten to %q", got[0].ID)
	}
	// The counter still ticks for identified rows, so the synthesized id
	// reflects position within the group.
	if got[1].ID != "burgers-tower-2" {
		t.Errorf("synthesized id = %q, want %q", got[1].ID, "burgers-tower-2")
	}
}

func TestReconcileMenuRows_DropsInvalid(t *testing.T) {
	tests := []struct {
		name string
		row  MenuRow
	}{
		{
			name: "empty name",
			row:  MenuRow{Category: "Burgers", Name: "   ", Price: price(450)},
		},
		{
			name: "nil price",
			row:  MenuRow{Category: "Burgers", Name: "Zinger", Price: nil},
		},
		{
			name: "negative price",
			row:  MenuRow{Category: "Burgers", Name: "Zinger", Price: price(-5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReconcileMenuRows([]MenuRow{tt.row}); len(got) != 0 {
				t.Errorf("kept invalid row: %+v", got)
			}
		})
	}
}

func TestReconcileMenuRows_DedupesById(t *testing.T) {
	rows := []MenuRow{
		{ID: "dup", Category: "A", Name: "First", Price: price(1)},
		{ID: "dup", Category: "A", Name: "Second", Price: price(2)},
	}

	got := ReconcileMenuRows(rows)
	if len(got) != 1 {
		t.Fatalf("kept %d rows, want 1", len(got))
	}
	if got[0].Name != "First" {
		t.Errorf("kept %q, want first occurrence", got[0].Name)
	}
}

func TestReconcileMenuRows_UnrelatedGroupsUnaffected(t *testing.T) {
	// Adding a row to one category must not renumber another.
	before := ReconcileMenuRows([]MenuRow{
		{Category: "Drinks", Name: "Cola", Price: price(120)},
	})
	after := ReconcileMenuRows([]MenuRow{
		{Category: "Burgers", Name: "Zinger", Price: price(450)},
		{Category: "Drinks", Name: "Cola", Price: price(120)},
	})

	if before[0].ID != "drinks-cola-1" || after[1].ID != "drinks-cola-1" {
		t.Errorf("drinks id changed: before %q, after %q", before[0].ID, after[1].ID)
	}
}

func TestValidateMenuRows(t *testing.T) {
	valid := []MenuRow{{Name: "Zinger", Price: price(450)}}
	if err := ValidateMenuRows(valid); err != nil {
		t.Errorf("valid rows rejected: %v", err)
	}

	missing := []MenuRow{{Name: "Zinger", Price: price(450)}, {Name: "Tower"}}
	err := ValidateMenuRows(missing)
	if err == nil {
		t.Fatal("nil price accepted")
	}
	if !contains(err.Error(), "row 2") {
		t.Errorf("error %q does not name the offending row", err)
	}
}

// ============================================================================
// Projection Tests
// ============================================================================

func TestGroupMenuRows_OrderAndMerge(t *testing.T) {
	rows := []MenuRow{
		{Category: "Burgers", Name: "Zinger", Price: price(450)},
		{Category: "Drinks", Name: "Cola", Price: price(120)},
		{Category: "burgers ", Name: "Tower", Price: price(550)},
	}

	groups := GroupMenuRows(rows)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Burgers" || groups[1].Name != "Drinks" {
		t.Errorf("group order = [%s, %s], want first-seen [Burgers, Drinks]", groups[0].Name, groups[1].Name)
	}
	// Case-insensitive merge keeps the first-seen display form.
	if len(groups[0].Items) != 2 {
		t.Errorf("Burgers has %d items, want 2", len(groups[0].Items))
	}
	if groups[0].Items[0].Name != "Zinger" || groups[0].Items[1].Name != "Tower" {
		t.Error("in-group item order not preserved")
	}
}

func TestGroupMenuRows_EmptyGroupsDisappear(t *testing.T) {
	rows := []MenuRow{
		{Category: "Ghost", Name: "", Price: price(10)},
		{Category: "Ghost", Name: "No Price", Price: nil},
		{Category: "Real", Name: "Item", Price: price(10)},
	}

	groups := GroupMenuRows(rows)
	if len(groups) != 1 || groups[0].Name != "Real" {
		t.Errorf("groups = %+v, want only Real", groups)
	}
}

func TestMenuRoundTrip(t *testing.T) {
	rows := ReconcileMenuRows([]MenuRow{
		{Category: "Burgers", Name: "Zinger", Price: price(450), Description: "Spicy"},
		{Category: "Burgers", Name: "Tower", Price: price(550)},
		{Category: "Drinks", Name: "Cola", Price: price(120)},
	})

	back := FlattenMenu(GroupMenuRows(rows))
	if len(back) != len(rows) {
		t.Fatalf("round trip changed row count: %d -> %d", len(rows), len(back))
	}
	for i := range rows {
		if back[i].Name != rows[i].Name ||
			*back[i].Price != *rows[i].Price ||
			back[i].Description != rows[i].Description ||
			back[i].Category != rows[i].Category {
			t.Errorf("row %d changed: %+v -> %+v", i, rows[i], back[i])
		}
	}
}

func TestFlattenMenu_Defaults(t *testing.T) {
	groups := []MenuCategory{
		{Name: "", Items: []MenuItem{{Name: "Nameless Group Item"}}},
	}

	rows := FlattenMenu(groups)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Category != DefaultCategory {
		t.Errorf("category = %q, want sentinel %q", rows[0].Category, DefaultCategory)
	}
	if rows[0].Price == nil || *rows[0].Price != 0 {
		t.Errorf("absent price should flatten to 0, got %v", rows[0].Price)
	}
}

// ============================================================================
// Stored Document Decoding Tests
// ============================================================================

func TestDecodeStoredMenu_GroupedShape(t *testing.T) {
	data := []byte(`[
		{"name": "Burgers", "items": [{"id": "b-1", "name": "Zinger", "price": 450}]},
		{"name": "Drinks", "items": [{"id": "d-1", "name": "Cola", "price": 120}]}
	]`)

	groups := DecodeStoredMenu(data)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "Burgers" || groups[0].Items[0].Price != 450 {
		t.Errorf("grouped decode mangled data: %+v", groups)
	}
}

func TestDecodeStoredMenu_LegacyFlatShape(t *testing.T) {
	data := []byte(`[
		{"id": "x-1", "name": "Samosa", "price": 50},
		{"id": "x-2", "name": "Pakora", "price": 80}
	]`)

	groups := DecodeStoredMenu(data)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Name != DefaultCategory {
		t.Errorf("flat shape group = %q, want %q", groups[0].Name, DefaultCategory)
	}
	if len(groups[0].Items) != 2 || groups[0].Items[1].Name != "Pakora" {
		t.Errorf("flat items mangled: %+v", groups[0].Items)
	}
}

func TestDecodeStoredMenu_Degrades(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil bytes", data: nil},
		{name: "empty bytes", data: []byte{}},
		{name: "json null", data: []byte(`null`)},
		{name: "empty array", data: []byte(`[]`)},
		{name: "not json", data: []byte(`garbage`)},
		{name: "object not array", data: []byte(`{"name": "x"}`)},
		{name: "scalar elements", data: []byte(`[1, 2, 3]`)},
		{name: "wrong item types", data: []byte(`[{"name": 7, "price": "x"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if groups := DecodeStoredMenu(tt.data); len(groups) != 0 {
				t.Errorf("DecodeStoredMenu(%s) = %+v, want empty catalog", tt.data, groups)
			}
		})
	}
}

func TestEncodeDecodeStoredMenu(t *testing.T) {
	groups := GroupMenuRows(ReconcileMenuRows([]MenuRow{
		{Category: "Burgers", Name: "Zinger", Price: price(450), Description: "Spicy"},
		{Category: "Drinks", Name: "Cola", Price: price(120)},
	}))

	data, err := EncodeMenu(groups)
	if err != nil {
		t.Fatalf("EncodeMenu: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("EncodeMenu produced invalid JSON")
	}

	back := DecodeStoredMenu(data)
	if !reflect.DeepEqual(groups, back) {
		t.Errorf("decode(encode(x)) != x:\nwant %+v\ngot  %+v", groups, back)
	}
}

// contains reports whether substr occurs within s.
func contains(s, substr string) bool {
	if len(substr) == 0 {
		return true
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
