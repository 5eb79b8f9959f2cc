package integration

// SourceTag marks records the bridge writes into the inventory system.
const SourceTag = "crm"

// OrderNumberPrefix distinguishes bridged sales orders from natively
// created ones.
const OrderNumberPrefix = "SO-"

// HandCarryRemarks annotates orders translated without a shipping address.
const HandCarryRemarks = "No shipping address on source order; hand carry."

// OrderPayload is the inventory-side create/update body for a sales order.
// The inventory API requires client-supplied UUIDs for idempotent creation,
// so SalesOrderID and every line id are generated fresh at translation time
// and are not derived from the source record. Absent source fields are sent
// as explicit empty strings or nulls rather than omitted.
type OrderPayload struct {
	SalesOrderID      string            `json:"salesOrderId"`
	ContactName       string            `json:"contactName"`
	CustomerID        string            `json:"customerId"`
	CustomFields      map[string]string `json:"customFields"`
	Email             string            `json:"email"`
	InventoryStatus   string            `json:"inventoryStatus"`
	InvoicedDate      *string           `json:"invoicedDate"`
	IsCompleted       bool              `json:"isCompleted"`
	Lines             []OrderLine       `json:"lines"`
	OrderDate         string            `json:"orderDate"`
	OrderNumber       string            `json:"orderNumber"`
	Phone             string            `json:"phone"`
	RequestedShipDate *string           `json:"requestedShipDate"`
	ShippedDate       *string           `json:"shippedDate"`
	ShippingAddress   AddressPayload    `json:"shippingAddress"`
	ShipRemarks       string            `json:"shipRemarks"`
	ShipToCompanyName string            `json:"shipToCompanyName"`
	Source            string            `json:"source"`
	Total             string            `json:"total"`
}

// OrderLine is one destination order line. A single source line may fan out
// into several of these when its product code substring-matches more than
// one destination SKU.
type OrderLine struct {
	ProductID        string   `json:"productId"`
	SalesOrderLineID string   `json:"salesOrderLineId"`
	Quantity         Quantity `json:"quantity"`
	UnitPrice        string   `json:"unitPrice"`
}

// Quantity wraps the unit-of-measure quantity string the inventory API
// expects.
type Quantity struct {
	UOMQuantity string `json:"uomQuantity"`
}

// AddressPayload is the inventory-side shipping address.
type AddressPayload struct {
	Address1   string `json:"address1"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Remarks    string `json:"remarks"`
}

// HandCarryAddress is the sentinel address substituted when the source order
// carries no shipping address. Translation never fails on a missing address.
func HandCarryAddress() AddressPayload {
	return AddressPayload{
		Address1: "HAND CARRY",
		Remarks:  HandCarryRemarks,
	}
}

// CustomerPayload is the inventory-side create body for a customer.
type CustomerPayload struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

// ProductPayload is the CRM-side create body for a product that finished
// production on the inventory side.
type ProductPayload struct {
	Name      string `json:"name"`
	ListPrice string `json:"listPrice"`
	SKU       string `json:"sku"`
}
