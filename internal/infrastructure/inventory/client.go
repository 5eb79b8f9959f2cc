package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// pageSize is the fixed page size for the paginated list endpoints.
const pageSize = 100

// maxResponseSize is the maximum allowed response size from the inventory
// API (10MB).
const maxResponseSize = 10 * 1024 * 1024

// salesOrderUpdatedEvent is the webhook event the bridge subscribes to.
const salesOrderUpdatedEvent = "salesorder.updated"

// Config holds the inventory API connection settings.
type Config struct {
	BaseURL               string
	CompanyID             string
	Token                 string
	APIVersion            string
	WebhookSubscriptionID string
	Timeout               time.Duration
}

// Client talks to the inventory system over authenticated HTTPS. All list
// operations degrade transport and parse failures to an empty result; write
// operations degrade them to a false success flag. Nothing here returns an
// error a pipeline is expected to crash on.
type Client struct {
	cfg        Config
	base       string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates an inventory client scoped to the configured company.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		base:       fmt.Sprintf("%s/%s", cfg.BaseURL, cfg.CompanyID),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json;version="+c.cfg.APIVersion)
	req.Header.Set("Content-Type", "application/json")
}

// listPage fetches one page of a cursor-paginated list endpoint into dst.
func (c *Client) listPage(ctx context.Context, resource, after string, dst any) error {
	params := url.Values{}
	params.Set("count", strconv.Itoa(pageSize))
	params.Set("includeCount", "true")
	if after != "" {
		params.Set("after", after)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+resource+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", integration.ErrRequestFailed, resource, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}
	return nil
}

// ListProducts pages through the product list endpoint and rebuilds the
// product index keyed by SKU. A key collision resolves last-write-wins by
// page order. On any failure the error is logged and an empty index is
// returned: callers must treat empty as "unknown", not "no products exist".
func (c *Client) ListProducts(ctx context.Context) integration.ProductIndex {
	index := make(integration.ProductIndex)
	after := ""
	for {
		var page []productResource
		if err := c.listPage(ctx, "products", after, &page); err != nil {
			c.log.Error("listing inventory products failed", zap.Error(err))
			return integration.ProductIndex{}
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			index[r.SKU] = integration.Product{
				SKU:            r.SKU,
				ProductID:      r.ProductID,
				Name:           r.Name,
				UnitPrice:      r.CustomFields.Custom3,
				Finished:       r.CustomFields.Custom2,
				ActiveRevision: r.CustomFields.Custom6,
				LastModified:   r.LastModifiedDateTime,
			}
		}
		if len(page) < pageSize {
			break
		}
		after = page[len(page)-1].ProductID
	}
	return index
}

// ListCustomers pages through the customer list endpoint and rebuilds the
// customer index keyed by display name. Same failure policy as ListProducts.
func (c *Client) ListCustomers(ctx context.Context) integration.CustomerIndex {
	index := make(integration.CustomerIndex)
	after := ""
	for {
		var page []customerResource
		if err := c.listPage(ctx, "customers", after, &page); err != nil {
			c.log.Error("listing inventory customers failed", zap.Error(err))
			return integration.CustomerIndex{}
		}
		if len(page) == 0 {
			break
		}
		for _, r := range page {
			index[r.Name] = r.CustomerID
		}
		if len(page) < pageSize {
			break
		}
		after = page[len(page)-1].CustomerID
	}
	return index
}

// GetOrder fetches the authoritative sales order, including its ship lines.
func (c *Client) GetOrder(ctx context.Context, salesOrderID string) (*integration.SalesOrder, error) {
	u := fmt.Sprintf("%s/sales-orders/%s?include=shipLines", c.base, url.PathEscape(salesOrderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", integration.ErrOrderNotFound, salesOrderID)
	default:
		return nil, fmt.Errorf("%w: get order returned %d", integration.ErrRequestFailed, resp.StatusCode)
	}

	var r salesOrderResource
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrInvalidResponse, err)
	}

	order := &integration.SalesOrder{
		SalesOrderID: r.SalesOrderID,
		OrderNumber:  r.OrderNumber,
		IsCompleted:  r.IsCompleted,
		CustomFields: r.CustomFields,
	}
	if r.ShippedDate != nil {
		order.ShippedDate = *r.ShippedDate
	}
	for _, l := range r.ShipLines {
		order.ShipLines = append(order.ShipLines, integration.ShipLine{
			ShipLineID:     l.ShipLineID,
			TrackingNumber: l.TrackingNumber,
			Carrier:        l.Carrier,
		})
	}
	return order, nil
}

// put issues an idempotent PUT create and reports (ok, response body).
func (c *Client) put(ctx context.Context, resource string, body any) (bool, []byte) {
	payload, err := json.Marshal(body)
	if err != nil {
		c.log.Error("encoding inventory payload failed", zap.String("resource", resource), zap.Error(err))
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+"/"+resource, bytes.NewReader(payload))
	if err != nil {
		c.log.Error("building inventory request failed", zap.String("resource", resource), zap.Error(err))
		return false, nil
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("inventory request failed", zap.String("resource", resource), zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if resp.StatusCode != http.StatusOK {
		c.log.Error("inventory write rejected",
			zap.String("resource", resource),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		return false, respBody
	}
	return true, respBody
}

// PutOrder creates a sales order. The payload carries a client-supplied
// UUID, so replaying the same payload is idempotent upstream.
func (c *Client) PutOrder(ctx context.Context, payload *integration.OrderPayload) (bool, []byte) {
	ok, body := c.put(ctx, "sales-orders", payload)
	if ok {
		c.log.Info("inventory order created", zap.String("order_number", payload.OrderNumber))
	}
	return ok, body
}

// PutCustomer creates a customer.
func (c *Client) PutCustomer(ctx context.Context, payload *integration.CustomerPayload) (bool, []byte) {
	ok, body := c.put(ctx, "customers", payload)
	if ok {
		c.log.Info("inventory customer created", zap.String("name", payload.Name))
	}
	return ok, body
}

// SubscribeWebhook registers (or re-registers) the sales-order-updated
// webhook subscription pointing at this process.
func (c *Client) SubscribeWebhook(ctx context.Context, serverURL string) error {
	sub := webhookSubscription{
		URL:                   serverURL + "/webhook",
		Events:                []string{salesOrderUpdatedEvent},
		WebhookSubscriptionID: c.cfg.WebhookSubscriptionID,
	}
	ok, body := c.put(ctx, "webhooks", sub)
	if !ok {
		return fmt.Errorf("%w: webhook subscription rejected: %s", integration.ErrRequestFailed, body)
	}
	c.log.Info("subscribed to sales order webhook", zap.String("url", sub.URL))
	return nil
}
