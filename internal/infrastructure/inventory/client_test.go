package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:               srv.URL,
		CompanyID:             "acme",
		Token:                 "test-token",
		APIVersion:            "2024-03-12",
		WebhookSubscriptionID: "sub-1",
		Timeout:               2 * time.Second,
	}, zap.NewNop())
	return client, srv
}

func productPage(start, n int) []map[string]any {
	page := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		id := start + i
		page = append(page, map[string]any{
			"sku":                  fmt.Sprintf("SKU-%03d", id),
			"productId":            fmt.Sprintf("prod-%03d", id),
			"name":                 fmt.Sprintf("Product %d", id),
			"lastModifiedDateTime": "2024-03-12T10:00:00.000000-05:00",
			"customFields": map[string]string{
				"custom2": "",
				"custom3": "19.99",
				"custom6": "A",
			},
		})
	}
	return page
}

func TestListProducts(t *testing.T) {
	t.Run("walks cursor pages until a short page", func(t *testing.T) {
		var afters []string
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/acme/products", r.URL.Path)
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			require.Equal(t, "application/json;version=2024-03-12", r.Header.Get("Accept"))

			after := r.URL.Query().Get("after")
			afters = append(afters, after)
			if after == "" {
				_ = json.NewEncoder(w).Encode(productPage(0, 100))
				return
			}
			_ = json.NewEncoder(w).Encode(productPage(100, 3))
		}))

		index := client.ListProducts(context.Background())
		assert.Len(t, index, 103)
		assert.Equal(t, []string{"", "prod-099"}, afters, "second page must resume after the last seen id")

		p := index["SKU-101"]
		assert.Equal(t, "prod-101", p.ProductID)
		assert.Equal(t, "19.99", p.UnitPrice)
		assert.Equal(t, "A", p.ActiveRevision)
	})

	t.Run("transport failure yields an empty index", func(t *testing.T) {
		client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		index := client.ListProducts(context.Background())
		assert.Empty(t, index)
	})

	t.Run("server error yields an empty index", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		index := client.ListProducts(context.Background())
		assert.Empty(t, index)
	})

	t.Run("duplicate natural keys resolve last-write-wins", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"sku": "DUP", "productId": "first", "name": "First"},
				{"sku": "DUP", "productId": "second", "name": "Second"},
			})
		}))

		index := client.ListProducts(context.Background())
		require.Len(t, index, 1)
		assert.Equal(t, "second", index["DUP"].ProductID)
	})
}

func TestListCustomers(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/acme/customers", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"customerId": "cust-1", "name": "Acme Corp"},
			{"customerId": "cust-2", "name": "Globex"},
		})
	}))

	index := client.ListCustomers(context.Background())
	assert.Equal(t, integration.CustomerIndex{
		"Acme Corp": "cust-1",
		"Globex":    "cust-2",
	}, index)
}

func TestGetOrder(t *testing.T) {
	t.Run("parses order with ship lines", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/acme/sales-orders/so-1", r.URL.Path)
			require.Equal(t, "shipLines", r.URL.Query().Get("include"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"salesOrderId": "so-1",
				"orderNumber":  "SO-1001",
				"isCompleted":  true,
				"shippedDate":  "2024-03-12T10:00:00-05:00",
				"customFields": map[string]string{"custom1": "801xx0000000001"},
				"shipLines": []map[string]string{
					{"shipLineId": "sl-1", "trackingNumber": "TRACK-1"},
				},
			})
		}))

		order, err := client.GetOrder(context.Background(), "so-1")
		require.NoError(t, err)
		assert.Equal(t, "SO-1001", order.OrderNumber)
		assert.True(t, order.IsCompleted)
		assert.Equal(t, "801xx0000000001", order.CRMOrderID())
		assert.Equal(t, []string{"TRACK-1"}, order.TrackingNumbers())
	})

	t.Run("404 maps to ErrOrderNotFound", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := client.GetOrder(context.Background(), "missing")
		assert.ErrorIs(t, err, integration.ErrOrderNotFound)
	})
}

func TestPutOrder(t *testing.T) {
	t.Run("success returns true", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/acme/sales-orders", r.URL.Path)

			var payload integration.OrderPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "SO-1001", payload.OrderNumber)
			w.Write([]byte(`{"salesOrderId":"so-1"}`))
		}))

		ok, body := client.PutOrder(context.Background(), &integration.OrderPayload{OrderNumber: "SO-1001"})
		assert.True(t, ok)
		assert.JSONEq(t, `{"salesOrderId":"so-1"}`, string(body))
	})

	t.Run("rejection returns false with the upstream body", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":"duplicate order number"}`))
		}))

		ok, body := client.PutOrder(context.Background(), &integration.OrderPayload{OrderNumber: "SO-1001"})
		assert.False(t, ok)
		assert.Contains(t, string(body), "duplicate order number")
	})
}

func TestSubscribeWebhook(t *testing.T) {
	t.Run("registers the salesorder.updated subscription", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/acme/webhooks", r.URL.Path)

			var sub map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
			assert.Equal(t, "https://bridge.example.com/webhook", sub["url"])
			assert.Equal(t, []any{"salesorder.updated"}, sub["events"])
			assert.Equal(t, "sub-1", sub["webHookSubscriptionId"])
			w.Write([]byte(`{}`))
		}))

		err := client.SubscribeWebhook(context.Background(), "https://bridge.example.com")
		assert.NoError(t, err)
	})

	t.Run("rejection surfaces as an error", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		err := client.SubscribeWebhook(context.Background(), "https://bridge.example.com")
		assert.ErrorIs(t, err, integration.ErrRequestFailed)
	})
}
