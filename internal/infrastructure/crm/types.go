package crm

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// queryResponse is the envelope of the CRM query endpoint.
type queryResponse struct {
	TotalSize int             `json:"totalSize"`
	Done      bool            `json:"done"`
	Records   json.RawMessage `json:"records"`
}

type orderRecord struct {
	ID              string          `json:"Id"`
	AccountID       string          `json:"AccountId"`
	OrderNumber     string          `json:"OrderNumber"`
	Name            string          `json:"Name"`
	ShippingDate    string          `json:"Shipping_Date__c"`
	ShippingAddress *addressRecord  `json:"ShippingAddress"`
	ShipToContactID string          `json:"ShipToContactId"`
	TotalAmount     decimal.Decimal `json:"TotalAmount"`
}

type addressRecord struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type accountRecord struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type orderItemRecord struct {
	OrderID     string          `json:"OrderId"`
	Product2ID  string          `json:"Product2Id"`
	ProductCode string          `json:"Product_Code__c"`
	ListPrice   decimal.Decimal `json:"ListPrice"`
	Quantity    decimal.Decimal `json:"Quantity"`
}

type productRecord struct {
	ID string `json:"Id"`
}

// orderStatusUpdate is the record-update body for order propagation.
type orderStatusUpdate struct {
	Status          string `json:"Status"`
	TrackingNumbers string `json:"Tracking_Numbers__c,omitempty"`
}

// productCreate is the record-create body for finished products.
type productCreate struct {
	Name      string `json:"Name"`
	ListPrice string `json:"List_Price__c"`
	SKU       string `json:"SKU__c"`
}
