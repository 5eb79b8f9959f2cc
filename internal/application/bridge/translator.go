package bridge

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// Translator converts a source-system record into the counterpart system's
// create payload, resolving foreign keys through the other side's record
// indexes and substituting safe defaults for anything the source did not
// supply. Unmatched cross-references produce empty ids, not failures:
// partial payloads are an accepted outcome.
type Translator struct {
	crm CRMClient
	inv InventoryClient
	now func() time.Time
	log *zap.Logger
}

// NewTranslator creates a translator.
func NewTranslator(crm CRMClient, inv InventoryClient, log *zap.Logger) *Translator {
	return &Translator{crm: crm, inv: inv, now: time.Now, log: log}
}

// TranslateOrder assembles the inventory create payload for a CRM order.
//
// Line matching is deliberately loose: any inventory SKU containing the
// source product code as a substring becomes its own destination line, so a
// single source line can fan out into several lines or into none. The order
// id and every line id are fresh UUIDs because the inventory API requires
// client-supplied ids for idempotent creation; the CRM order id travels in
// the provenance custom field instead.
func (t *Translator) TranslateOrder(ctx context.Context, order integration.Order) *integration.OrderPayload {
	companyName := ""
	if order.AccountID != "" {
		name, err := t.crm.GetAccountName(ctx, order.AccountID)
		if err != nil {
			t.log.Warn("account name lookup failed",
				zap.String("account_id", order.AccountID),
				zap.Error(err),
			)
		} else {
			companyName = name
		}
	}

	customerID := ""
	if companyName != "" {
		customerID = t.inv.ListCustomers(ctx)[companyName]
		if customerID == "" {
			t.log.Warn("no inventory customer matches company name",
				zap.String("company_name", companyName),
			)
		}
	}

	items, err := t.crm.GetOrderProducts(ctx, order.ID)
	if err != nil {
		t.log.Warn("order line lookup failed", zap.String("order_id", order.ID), zap.Error(err))
		items = map[string]integration.OrderItem{}
	}

	products := t.inv.ListProducts(ctx)
	lines := make([]integration.OrderLine, 0, len(items))
	for code, item := range items {
		matched := false
		for sku, product := range products {
			if !strings.Contains(sku, code) {
				continue
			}
			matched = true
			lines = append(lines, integration.OrderLine{
				ProductID:        product.ProductID,
				SalesOrderLineID: uuid.New().String(),
				Quantity:         integration.Quantity{UOMQuantity: item.Quantity.String()},
				UnitPrice:        item.ListPrice.String(),
			})
		}
		if !matched {
			t.log.Warn("no inventory product matches source code", zap.String("product_code", code))
		}
	}

	address := integration.HandCarryAddress()
	shipRemarks := integration.HandCarryRemarks
	if order.ShippingAddress != nil {
		address = integration.AddressPayload{
			Address1:   order.ShippingAddress.Street,
			City:       order.ShippingAddress.City,
			State:      order.ShippingAddress.State,
			Country:    order.ShippingAddress.Country,
			PostalCode: order.ShippingAddress.PostalCode,
		}
		shipRemarks = ""
	}

	return &integration.OrderPayload{
		SalesOrderID:      uuid.New().String(),
		ContactName:       "",
		CustomerID:        customerID,
		CustomFields:      map[string]string{integration.ProvenanceField: order.ID},
		Email:             "",
		InventoryStatus:   "Started",
		InvoicedDate:      nil,
		IsCompleted:       false,
		Lines:             lines,
		OrderDate:         t.now().UTC().Format("2006-01-02"),
		OrderNumber:       integration.OrderNumberPrefix + order.OrderNumber,
		Phone:             "",
		RequestedShipDate: nil,
		ShippedDate:       nil,
		ShippingAddress:   address,
		ShipRemarks:       shipRemarks,
		ShipToCompanyName: companyName,
		Source:            integration.SourceTag,
		Total:             order.TotalAmount.String(),
	}
}

// TranslateCustomer assembles the inventory create payload for a CRM
// account. The inventory API requires a client-supplied customer id.
func (t *Translator) TranslateCustomer(account integration.Account) *integration.CustomerPayload {
	return &integration.CustomerPayload{
		CustomerID: uuid.New().String(),
		Name:       account.Name,
	}
}

// TranslateProduct assembles the CRM create payload for a finished
// inventory product.
func (t *Translator) TranslateProduct(product integration.Product) *integration.ProductPayload {
	return &integration.ProductPayload{
		Name:      product.Name,
		ListPrice: product.UnitPrice,
		SKU:       product.SKU,
	}
}
