package integration

import (
	"github.com/shopspring/decimal"
)

// ProvenanceField is the inventory-side custom field that carries the CRM
// order id. It is written at translation time and read back when a shipping
// webhook needs to locate the originating CRM record.
const ProvenanceField = "custom1"

// FinishedYes is the terminal value of the product finished flag. The flag
// is a free-text custom field upstream, so the empty string means "not
// finished" and anything else is ignored.
const FinishedYes = "Yes"

// Product is a point-in-time snapshot of an inventory product.
type Product struct {
	SKU            string
	ProductID      string
	Name           string
	UnitPrice      string
	Finished       string
	ActiveRevision string
	LastModified   string
}

// ProductIndex maps product SKU to its latest snapshot. It is rebuilt
// wholesale on every refresh; there is no incremental merge. A natural-key
// collision upstream resolves last-write-wins by page order.
type ProductIndex map[string]Product

// CustomerIndex maps customer display name to the inventory customer id.
// The name is the only linkage between the two systems: matching is exact
// and case sensitive, so a customer renamed on one side silently unlinks.
type CustomerIndex map[string]string

// Order is the CRM-side projection of a sales order.
type Order struct {
	ID              string
	AccountID       string
	OrderNumber     string
	Name            string
	ShippingDate    string
	ShippingAddress *Address
	ShipToContactID string
	TotalAmount     decimal.Decimal
}

// Address is a CRM shipping address.
type Address struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

// OrderItem is a CRM order line joined to its product catalog entry,
// keyed by the source product code.
type OrderItem struct {
	ProductCode string
	ProductID   string
	ListPrice   decimal.Decimal
	Quantity    decimal.Decimal
}

// Account is a CRM account (the customer-side counterpart record).
type Account struct {
	ID   string
	Name string
}

// SalesOrder is the authoritative inventory-side order, fetched when a
// webhook names it. ShippedDate is the raw upstream timestamp string and is
// empty until the order ships.
type SalesOrder struct {
	SalesOrderID string
	OrderNumber  string
	IsCompleted  bool
	ShippedDate  string
	CustomFields map[string]string
	ShipLines    []ShipLine
}

// ShipLine is a shipment sub-record of a sales order.
type ShipLine struct {
	ShipLineID     string
	TrackingNumber string
	Carrier        string
}

// CRMOrderID returns the provenance reference embedded at translation time,
// or the empty string when the order did not originate from the CRM.
func (o *SalesOrder) CRMOrderID() string {
	if o.CustomFields == nil {
		return ""
	}
	return o.CustomFields[ProvenanceField]
}

// TrackingNumbers returns the ship-line tracking numbers in ship-line order,
// skipping blanks.
func (o *SalesOrder) TrackingNumbers() []string {
	nums := make([]string, 0, len(o.ShipLines))
	for _, l := range o.ShipLines {
		if l.TrackingNumber != "" {
			nums = append(nums, l.TrackingNumber)
		}
	}
	return nums
}
