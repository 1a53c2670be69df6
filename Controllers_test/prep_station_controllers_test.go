package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cjmrtn/tableflow/models"
)

func TestPrepStationEndpoints(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.PrepStation{Name: "Sweet Griddle", Category: "Sweet", IsActive: true})
	db.Create(&models.PrepStation{Name: "Coffee Bar", Category: "Coffee", IsActive: true})
	r := setupAppRouter(t, db, time.Hour)

	_, resp := doRequest(t, r, "POST", "/api/orders", map[string]interface{}{"table_id": 1})
	orderID := int(asMap(t, resp.Data)["id"].(float64))
	doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 1, "quantity": 1, "price": 8.50,
	})
	doRequest(t, r, "POST", "/api/order-items", map[string]interface{}{
		"order_id": orderID, "menu_item_id": 2, "quantity": 1, "price": 4.75,
	})
	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send", orderID), nil)
	doRequest(t, r, "POST", fmt.Sprintf("/api/order-items/order/%d/send-now", orderID), nil)

	code, resp := doRequest(t, r, "GET", "/api/prep-stations", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, asList(t, resp.Data), 2)

	// each station queue carries only its own category
	code, resp = doRequest(t, r, "GET", "/api/prep-stations/1/items", nil)
	assert.Equal(t, http.StatusOK, code)
	queue := asList(t, resp.Data)
	assert.Len(t, queue, 1)
	item := asMap(t, queue[0])
	assert.Equal(t, "pending", item["status"])
	assert.Equal(t, "Nutella Crepe", asMap(t, item["menu_item"])["name"])

	// deactivating a station hides its category from the kitchen view
	code, _ = doRequest(t, r, "PUT", "/api/prep-stations/2", map[string]interface{}{"is_active": false})
	assert.Equal(t, http.StatusOK, code)

	code, resp = doRequest(t, r, "GET", "/api/snapshot/prep_station", nil)
	assert.Equal(t, http.StatusOK, code)
	snap := asMap(t, resp.Data)
	assert.Len(t, asList(t, snap["items"]), 1)

	code, _ = doRequest(t, r, "GET", "/api/prep-stations/99/items", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
