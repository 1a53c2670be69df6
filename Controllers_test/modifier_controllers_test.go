package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModifierCatalogEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	code, resp := doRequest(t, r, "GET", "/api/modifier-groups", nil)
	assert.Equal(t, http.StatusOK, code)

	groups := asList(t, resp.Data)
	assert.Len(t, groups, 1)
	group := asMap(t, groups[0])
	assert.Equal(t, "Toppings", group["name"])
	assert.Len(t, asList(t, group["modifiers"]), 2)
}

func TestAttachAndDetachModifier(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	_, resp = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 8.50,
	})
	itemID := int(asMap(t, resp.Data)["id"].(float64))

	code, resp := doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/%d/modifiers", itemID), map[string]interface{}{
		"modifier_id": 1,
	})
	assert.Equal(t, http.StatusCreated, code)
	attached := asMap(t, resp.Data)
	assert.Equal(t, "Whipped Cream", attached["name"])
	attachedID := int(attached["id"].(float64))

	// the surcharge lands in the order rollup
	code, resp = doRequest(t, r, "GET", fmt.Sprintf("/api/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusOK, code)
	order := asMap(t, resp.Data)
	assert.InDelta(t, 9.50, order["subtotal"].(float64), 0.001)

	// single-select group: a second pick is rejected
	code, _ = doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/%d/modifiers", itemID), map[string]interface{}{
		"modifier_id": 2,
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = doRequest(t, r, "DELETE", fmt.Sprintf("/api/order-item-modifiers/%d", attachedID), nil)
	assert.Equal(t, http.StatusOK, code)

	code, resp = doRequest(t, r, "GET", fmt.Sprintf("/api/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 8.50, asMap(t, resp.Data)["subtotal"].(float64), 0.001)
}

func TestAttachModifierRejectedAfterWindow(t *testing.T) {
	db := setupTestDB(t)
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))

	_, resp = doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 8.50,
	})
	itemID := int(asMap(t, resp.Data)["id"].(float64))

	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)
	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send-now", orderID), nil)

	code, _ := doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/%d/modifiers", itemID), map[string]interface{}{
		"modifier_id": 1,
	})
	assert.Equal(t, http.StatusConflict, code)

	// unknown modifier and unknown item
	code, _ = doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/%d/modifiers", itemID), map[string]interface{}{
		"modifier_id": 99,
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, r, "POST", "/api/order-items/999/modifiers", map[string]interface{}{
		"modifier_id": 1,
	})
	assert.Equal(t, http.StatusNotFound, code)
}
