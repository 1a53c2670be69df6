package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

type OrderItemController struct {
	DB        *gorm.DB
	Lifecycle *services.LifecycleService
}

func NewOrderItemController(db *gorm.DB, lifecycle *services.LifecycleService) *OrderItemController {
	return &OrderItemController{DB: db, Lifecycle: lifecycle}
}

// GetAllOrderItems -> every item, optionally filtered by ?status=.
func (ic *OrderItemController) GetAllOrderItems(c *gin.Context) {
	query := ic.DB.Preload("MenuItem").Preload("Modifiers").Order("created_at asc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var items []models.OrderItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order items", items)
}

// GetItemsByOrder -> all items of one order, optionally filtered by ?status=.
func (ic *OrderItemController) GetItemsByOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := ic.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	query := ic.DB.Preload("MenuItem").Preload("Modifiers").
		Where("order_id = ?", order.ID).
		Order("created_at asc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var items []models.OrderItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order items", items)
}

// CreateOrderItem -> add a draft item to an order. No kitchen effect until
// the order is sent.
func (ic *OrderItemController) CreateOrderItem(c *gin.Context) {
	var body struct {
		OrderID    uint    `json:"order_id" binding:"required"`
		MenuItemID uint    `json:"menu_item_id" binding:"required"`
		Quantity   int     `json:"quantity"`
		Price      float64 `json:"price"`
		Notes      string  `json:"notes"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	item, err := ic.Lifecycle.AddDraftItem(body.OrderID, body.MenuItemID, body.Quantity, body.Price, body.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order item created (draft)", item)
}

// DeleteOrderItem -> remove an item still in its editable states.
func (ic *OrderItemController) DeleteOrderItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ic.Lifecycle.RemoveItem(uint(itemID)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order item removed", gin.H{"item_id": itemID})
}

// SendOrder -> dispatch every draft item of the order into its edit window.
// The response carries the absolute window expiry.
func (ic *OrderItemController) SendOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, expiresAt, err := ic.Lifecycle.Dispatch(uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order sent", gin.H{
		"items":            items,
		"delay_expires_at": expiresAt,
	})
}

// SendOrderNow -> close the edit window early and hand the items to the
// kitchen immediately.
func (ic *OrderItemController) SendOrderNow(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := ic.Lifecycle.SendNow(uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order sent now", items)
}

// StartItem -> prep station starts cooking: pending -> fired.
func (ic *OrderItemController) StartItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := ic.Lifecycle.StartPrep(uint(itemID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item fired", item)
}

// CompleteItem -> prep station finishes an item: fired -> completed.
func (ic *OrderItemController) CompleteItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := ic.Lifecycle.CompleteItem(uint(itemID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item completed", item)
}

// LockExpired -> recovery sweep for limbo items orphaned by a lost timer.
func (ic *OrderItemController) LockExpired(c *gin.Context) {
	locked, err := ic.Lifecycle.LockExpiredItems()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Expired items locked", locked)
}
