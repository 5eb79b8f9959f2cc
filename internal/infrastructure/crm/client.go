package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the CRM API (10MB).
const maxResponseSize = 10 * 1024 * 1024

// soqlTimeLayout is the timestamp literal format the CRM query language
// accepts: millisecond precision, UTC.
const soqlTimeLayout = "2006-01-02T15:04:05.000Z"

// approvedToShip is the order status that makes an order eligible for
// translation to the inventory side.
const approvedToShip = "Approved to Ship"

// Config holds the CRM API connection settings.
type Config struct {
	InstanceURL string
	APIVersion  string
	AccessToken string
	Timeout     time.Duration
}

// Client talks to the CRM system: a query-language read interface plus
// record update/create calls. Read failures surface as errors that the
// detectors downgrade to "no data"; write outcomes are reported as a
// success flag plus the upstream body.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a CRM client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// query runs a query-language statement and unmarshals its records.
func (c *Client) query(ctx context.Context, soql string, records any) error {
	params := url.Values{}
	params.Set("q", soql)
	u := fmt.Sprintf("%s/services/data/%s/query?%s", c.cfg.InstanceURL, c.cfg.APIVersion, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("%w: query returned %d: %s", integration.ErrRequestFailed, resp.StatusCode, body)
	}

	var qr queryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&qr); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}
	if len(qr.Records) == 0 {
		return nil
	}
	if err := json.Unmarshal(qr.Records, records); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}
	return nil
}

// QueryRecentApprovedOrders returns orders whose last-modified timestamp is
// at or after since and whose status is "Approved to Ship".
func (c *Client) QueryRecentApprovedOrders(ctx context.Context, since time.Time) ([]integration.Order, error) {
	soql := fmt.Sprintf(
		"SELECT Id, AccountId, OrderNumber, Name, Shipping_Date__c, ShippingAddress, ShipToContactId, TotalAmount "+
			"FROM Order WHERE LastModifiedDate >= %s AND Status = '%s'",
		since.UTC().Format(soqlTimeLayout), approvedToShip,
	)

	var records []orderRecord
	if err := c.query(ctx, soql, &records); err != nil {
		return nil, err
	}

	orders := make([]integration.Order, 0, len(records))
	for _, r := range records {
		order := integration.Order{
			ID:              r.ID,
			AccountID:       r.AccountID,
			OrderNumber:     r.OrderNumber,
			Name:            r.Name,
			ShippingDate:    r.ShippingDate,
			ShipToContactID: r.ShipToContactID,
			TotalAmount:     r.TotalAmount,
		}
		if r.ShippingAddress != nil {
			order.ShippingAddress = &integration.Address{
				Street:     r.ShippingAddress.Street,
				City:       r.ShippingAddress.City,
				State:      r.ShippingAddress.State,
				Country:    r.ShippingAddress.Country,
				PostalCode: r.ShippingAddress.PostalCode,
			}
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// QueryRecentAccounts returns accounts created at or after since.
func (c *Client) QueryRecentAccounts(ctx context.Context, since time.Time) ([]integration.Account, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Name FROM Account WHERE CreatedDate >= %s",
		since.UTC().Format(soqlTimeLayout),
	)

	var records []accountRecord
	if err := c.query(ctx, soql, &records); err != nil {
		return nil, err
	}

	accounts := make([]integration.Account, 0, len(records))
	for _, r := range records {
		accounts = append(accounts, integration.Account{ID: r.ID, Name: r.Name})
	}
	return accounts, nil
}

// GetAccountName resolves an account id to its display name.
func (c *Client) GetAccountName(ctx context.Context, accountID string) (string, error) {
	soql := fmt.Sprintf("SELECT Name FROM Account WHERE Id = '%s'", accountID)

	var records []accountRecord
	if err := c.query(ctx, soql, &records); err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("%w: account %s has no record", integration.ErrInvalidResponse, accountID)
	}
	return records[0].Name, nil
}

// GetOrderProducts returns the order's line items joined to the product
// catalog, keyed by source product code. Only products flagged for
// inventory sync participate in the join.
func (c *Client) GetOrderProducts(ctx context.Context, orderID string) (map[string]integration.OrderItem, error) {
	itemSOQL := fmt.Sprintf(
		"SELECT ListPrice, Quantity, Product2Id, Product_Code__c, OrderId FROM OrderItem WHERE OrderId = '%s'",
		orderID,
	)
	var items []orderItemRecord
	if err := c.query(ctx, itemSOQL, &items); err != nil {
		return nil, err
	}

	var synced []productRecord
	if err := c.query(ctx, "SELECT Id, Inventory_Sync__c FROM Product2 WHERE Inventory_Sync__c = TRUE", &synced); err != nil {
		return nil, err
	}
	syncedIDs := make(map[string]struct{}, len(synced))
	for _, p := range synced {
		syncedIDs[p.ID] = struct{}{}
	}

	result := make(map[string]integration.OrderItem)
	for _, item := range items {
		if _, ok := syncedIDs[item.Product2ID]; !ok {
			continue
		}
		result[item.ProductCode] = integration.OrderItem{
			ProductCode: item.ProductCode,
			ProductID:   item.Product2ID,
			ListPrice:   item.ListPrice,
			Quantity:    item.Quantity,
		}
	}
	return result, nil
}

// UpdateOrderStatus pushes a status plus tracking-number update onto the CRM
// order named by the provenance reference. The CRM record-update call is a
// POST with a method override header.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status, trackingNumbers string) (bool, []byte) {
	body, err := json.Marshal(orderStatusUpdate{Status: status, TrackingNumbers: trackingNumbers})
	if err != nil {
		c.log.Error("encoding order update failed", zap.Error(err))
		return false, nil
	}

	u := fmt.Sprintf("%s/services/data/%s/sobjects/Order/%s", c.cfg.InstanceURL, c.cfg.APIVersion, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		c.log.Error("building order update request failed", zap.Error(err))
		return false, nil
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-HTTP-Method-Override", "PATCH")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("order update request failed", zap.String("order_id", orderID), zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		c.log.Error("order update rejected",
			zap.String("order_id", orderID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return false, respBody
	}

	c.log.Info("crm order updated", zap.String("order_id", orderID), zap.String("order_status", status))
	return true, respBody
}

// CreateProduct creates a product record on the CRM side.
func (c *Client) CreateProduct(ctx context.Context, payload *integration.ProductPayload) (bool, []byte) {
	body, err := json.Marshal(productCreate{
		Name:      payload.Name,
		ListPrice: payload.ListPrice,
		SKU:       payload.SKU,
	})
	if err != nil {
		c.log.Error("encoding product create failed", zap.Error(err))
		return false, nil
	}

	u := fmt.Sprintf("%s/services/data/%s/sobjects/Product2", c.cfg.InstanceURL, c.cfg.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		c.log.Error("building product create request failed", zap.Error(err))
		return false, nil
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("product create request failed", zap.String("name", payload.Name), zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Error("product create rejected",
			zap.String("name", payload.Name),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return false, respBody
	}

	c.log.Info("crm product created", zap.String("name", payload.Name))
	return true, respBody
}
