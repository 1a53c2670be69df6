package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

type OrderController struct {
	DB        *gorm.DB
	Lifecycle *services.LifecycleService
}

func NewOrderController(db *gorm.DB, lifecycle *services.LifecycleService) *OrderController {
	return &OrderController{DB: db, Lifecycle: lifecycle}
}

// GetAllOrders -> list orders, optionally scoped to one table (?tableId=).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Order("created_at asc")
	if tableID := c.Query("tableId"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> open a new order on a table (status='open').
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableID   uint   `json:"table_id" binding:"required"`
		OrderType string `json:"order_type"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Lifecycle.CreateOrder(body.TableID, body.OrderType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d opened on table %d", order.ID, order.TableID)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail of one order with its items
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Modifiers").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}
