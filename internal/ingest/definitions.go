package ingest

// Catalog keys and the normalized column names their files use.
const (
	CatalogMenu  = "menu"
	CatalogZones = "zones"

	colID          = "id"
	colItemName    = "item_name"
	colPrice       = "price"
	colCategory    = "category"
	colDescription = "description"

	colZoneName    = "zone_name"
	colCity        = "city"
	colDeliveryFee = "delivery_fee"
	colMinOrder    = "min_order_amount"
	colActive      = "is_active"
)

func init() {
	registerMenu()
	registerZones()
}

func registerMenu() {
	Register(Definition{
		Key:         CatalogMenu,
		Label:       "Menu Items",
		Description: "Menu items with prices, grouped into categories",
		Columns: []ColumnSpec{
			{Key: colItemName, Label: "Item Name", Required: true},
			{Key: colPrice, Label: "Price", Required: true},
			{Key: colCategory, Label: "Category"},
			{Key: colDescription, Label: "Description"},
			{Key: colID, Label: "Id"},
		},
		Example: []string{"Chicken Biryani", "450", "Rice", "Served with raita", ""},
	})
}

func registerZones() {
	Register(Definition{
		Key:         CatalogZones,
		Label:       "Delivery Zones",
		Description: "Delivery areas with fees and minimum order amounts, grouped by city",
		Columns: []ColumnSpec{
			{Key: colZoneName, Label: "Zone Name", Required: true},
			{Key: colDeliveryFee, Label: "Delivery Fee", Required: true},
			{Key: colCity, Label: "City"},
			{Key: colMinOrder, Label: "Min Order Amount"},
			{Key: colActive, Label: "Is Active"},
		},
		Example: []string{"Gulshan-e-Iqbal", "150", "Karachi", "500", "yes"},
	})
}
