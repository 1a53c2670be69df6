package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenuItems -> the catalog the order-entry screen reads from,
// optionally filtered by ?category=.
func (mc *MenuController) GetAllMenuItems(c *gin.Context) {
	query := mc.DB.Where("is_active = ?", true).Order("category asc, name asc")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetMenuItemByID -> detail of one catalog entry
func (mc *MenuController) GetMenuItemByID(c *gin.Context) {
	menuItemID := c.Param("menu_item_id")
	var item models.MenuItem
	if err := mc.DB.First(&item, menuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}
