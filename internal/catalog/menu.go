package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MenuItem is one orderable item inside a category.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// MenuCategory groups items under a display label. Categories are derived
// from row grouping on every save and never persisted on their own; a
// category with no valid items simply does not exist.
type MenuCategory struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// MenuRow is the flat editable unit, mapping 1:1 to a spreadsheet or form
// row. Price is a pointer so unparseable input survives as an explicit
// null instead of a fake zero.
type MenuRow struct {
	ID          string   `json:"id,omitempty"`
	Category    string   `json:"category"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description,omitempty"`
}

// ReconcileMenuRows validates, identifies, and deduplicates flat rows.
//
// Rows whose normalized name is empty, or whose price is missing,
// non-finite, or negative, are dropped. Explicit ids are kept verbatim
// (trimmed); missing ids are synthesized as slug(category)-slug(name)-n,
// where n is a 1-based counter scoped to the category and ticked for each
// kept row in row order. Counters live only for this call, so ids stay
// stable across saves exactly as long as row order and grouping do.
// Later rows repeating an id are dropped. Running the output through
// ReconcileMenuRows again returns it unchanged.
func ReconcileMenuRows(rows []MenuRow) []MenuRow {
	out := make([]MenuRow, 0, len(rows))
	counters := make(map[string]int, 8)
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		name := NormalizeText(row.Name)
		if name == "" || !validAmount(row.Price) {
			continue
		}
		category := NormalizeGroupName(row.Category, DefaultCategory)
		key := GroupKey(category)
		counters[key]++
		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = Slug(category) + "-" + Slug(name) + "-" + strconv.Itoa(counters[key])
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		price := *row.Price
		out = append(out, MenuRow{
			ID:          id,
			Category:    category,
			Name:        name,
			Price:       &price,
			Description: NormalizeText(row.Description),
		})
	}
	return out
}

// ValidateMenuRows reports the first row ReconcileMenuRows would drop.
// The edit surface calls it before saving so a bad row blocks the save
// instead of vanishing silently.
func ValidateMenuRows(rows []MenuRow) error {
	for i, row := range rows {
		name := NormalizeText(row.Name)
		if name == "" {
			return fmt.Errorf("row %d: item name is required", i+1)
		}
		if !validAmount(row.Price) {
			return fmt.Errorf("row %d (%s): price must be a number of at least 0", i+1, name)
		}
	}
	return nil
}

// GroupMenuRows projects flat rows into ordered categories. Category
// order is first appearance (compared case-insensitively), item order is
// row order. Invalid rows are dropped on the way through, so an empty
// category never appears in the output.
func GroupMenuRows(rows []MenuRow) []MenuCategory {
	groups := make([]MenuCategory, 0, 8)
	index := make(map[string]int, 8)
	for _, row := range rows {
		name := NormalizeText(row.Name)
		if name == "" || !validAmount(row.Price) {
			continue
		}
		category := NormalizeGroupName(row.Category, DefaultCategory)
		key := GroupKey(category)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MenuCategory{Name: category})
		}
		groups[i].Items = append(groups[i].Items, MenuItem{
			ID:          strings.TrimSpace(row.ID),
			Name:        name,
			Price:       *row.Price,
			Description: NormalizeText(row.Description),
		})
	}
	return groups
}

// FlattenMenu is the inverse projection: every item becomes a row tagged
// with its category name. Fields absent from the stored document come
// back as zero values rather than failing.
func FlattenMenu(groups []MenuCategory) []MenuRow {
	var rows []MenuRow
	for _, g := range groups {
		category := NormalizeGroupName(g.Name, DefaultCategory)
		for _, item := range g.Items {
			price := item.Price
			rows = append(rows, MenuRow{
				ID:          item.ID,
				Category:    category,
				Name:        item.Name,
				Price:       &price,
				Description: item.Description,
			})
		}
	}
	return rows
}

// EncodeMenu renders the canonical grouped document persisted per
// restaurant and handed to the bot.
func EncodeMenu(groups []MenuCategory) ([]byte, error) {
	if groups == nil {
		groups = []MenuCategory{}
	}
	return json.Marshal(groups)
}

// DecodeStoredMenu loads a stored catalog document. Two historical shapes
// are accepted: an array of {name, items} categories, and an older flat
// array of items that loads as a single Uncategorized category. The shape
// is discriminated by probing the first element for an "items" member.
// Null, empty, or malformed input degrades to an empty catalog. There is
// deliberately no error return: a broken stored document reads as "no
// catalog yet" instead of breaking the dashboard.
func DecodeStoredMenu(data []byte) []MenuCategory {
	if len(data) == 0 {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil || len(elems) == 0 {
		return nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(elems[0], &probe); err != nil {
		return nil
	}
	if _, grouped := probe["items"]; grouped {
		var groups []MenuCategory
		if err := json.Unmarshal(data, &groups); err != nil {
			return nil
		}
		return groups
	}
	var items []MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return []MenuCategory{{Name: DefaultCategory, Items: items}}
}
