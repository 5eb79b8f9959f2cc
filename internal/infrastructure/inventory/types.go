package inventory

// Wire types for the inventory API. Product custom fields are positional on
// the upstream side: custom2 carries the finished flag, custom3 the unit
// price, custom6 the active revision.

type productResource struct {
	SKU                  string               `json:"sku"`
	ProductID            string               `json:"productId"`
	Name                 string               `json:"name"`
	LastModifiedDateTime string               `json:"lastModifiedDateTime"`
	CustomFields         productCustomFields  `json:"customFields"`
}

type productCustomFields struct {
	Custom2 string `json:"custom2"`
	Custom3 string `json:"custom3"`
	Custom6 string `json:"custom6"`
}

type customerResource struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
}

type salesOrderResource struct {
	SalesOrderID string             `json:"salesOrderId"`
	OrderNumber  string             `json:"orderNumber"`
	IsCompleted  bool               `json:"isCompleted"`
	ShippedDate  *string            `json:"shippedDate"`
	CustomFields map[string]string  `json:"customFields"`
	ShipLines    []shipLineResource `json:"shipLines"`
}

type shipLineResource struct {
	ShipLineID     string `json:"shipLineId"`
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

type webhookSubscription struct {
	URL                   string   `json:"url"`
	Events                []string `json:"events"`
	WebhookSubscriptionID string   `json:"webHookSubscriptionId"`
}
