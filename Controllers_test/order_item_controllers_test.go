package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateOrderAndAddItems(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	code, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{
		"table_id": 1,
	})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Order created", resp.Message)

	order := asMap(t, resp.Data)
	orderID := int(order["id"].(float64))
	assert.Equal(t, "open", order["status"])
	assert.Equal(t, "dine_in", order["order_type"])

	code, resp = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id":     orderID,
		"menu_item_id": 1,
		"quantity":     1,
		"price":        8.50,
	})
	assert.Equal(t, http.StatusCreated, code)
	item := asMap(t, resp.Data)
	assert.Equal(t, "draft", item["status"])

	// price is captured at add time, not recomputed from the catalog
	code, resp = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id":     orderID,
		"menu_item_id": 2,
		"quantity":     2,
		"price":        9.50,
	})
	assert.Equal(t, http.StatusCreated, code)
	item = asMap(t, resp.Data)
	assert.InDelta(t, 9.50, item["price"].(float64), 0.001)
}

func TestSendOrderReturnsWindowExpiry(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 5.00,
	})

	code, resp := doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)
	assert.Equal(t, http.StatusOK, code)

	data := asMap(t, resp.Data)
	assert.NotNil(t, data["delay_expires_at"])

	items := asList(t, data["items"])
	assert.Len(t, items, 1)
	assert.Equal(t, "limbo", asMap(t, items[0])["status"])
}

func TestSendNowFlow(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 5.00,
	})
	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)

	code, resp := doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send-now", orderID), nil)
	assert.Equal(t, http.StatusOK, code)

	items := asList(t, resp.Data)
	assert.Len(t, items, 1)
	itemID := int(asMap(t, items[0])["id"].(float64))
	assert.Equal(t, "pending", asMap(t, items[0])["status"])

	// prep station takes over
	code, resp = doRequest(t, r, "PUT", fmt.Sprintf("/api/order-items/%d/start", itemID), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "fired", asMap(t, resp.Data)["status"])

	code, resp = doRequest(t, r, "PUT", fmt.Sprintf("/api/order-items/%d/complete", itemID), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "completed", asMap(t, resp.Data)["status"])
}

func TestSendNowWithoutWindowRejected(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	code, _ := doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send-now", orderID), nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestRemoveItemAfterWindowRejected(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	_, resp = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 5.00,
	})
	itemID := int(asMap(t, resp.Data)["id"].(float64))

	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)

	// inside the window the item is still revocable
	code, _ := doRequest(t, r, "DELETE", fmt.Sprintf("/api/order-items/%d", itemID), nil)
	assert.Equal(t, http.StatusOK, code)

	// a second item, sent and force-expired, is not
	_, resp = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 5.00,
	})
	itemID = int(asMap(t, resp.Data)["id"].(float64))

	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)
	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send-now", orderID), nil)

	code, _ = doRequest(t, r, "DELETE", fmt.Sprintf("/api/order-items/%d", itemID), nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestItemsByOrderStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 5.00,
	})
	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)
	doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 2, "quantity": 1, "price": 4.75,
	})

	code, resp := doRequest(t, r, "GET", fmt.Sprintf("/api/order-items/order/%d", orderID), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, asList(t, resp.Data), 2)

	code, resp = doRequest(t, r, "GET", fmt.Sprintf("/api/order-items/order/%d?status=draft", orderID), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, asList(t, resp.Data), 1)
}

func TestUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	code, _ := doRequest(t, r, "GET", "/api/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 999})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": 999, "menu_item_id": 1, "quantity": 1, "price": 5.00,
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, r, "PUT", "/api/order-items/999/start", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
