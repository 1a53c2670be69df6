package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

type PrepStationController struct {
	DB *gorm.DB
}

func NewPrepStationController(db *gorm.DB) *PrepStationController {
	return &PrepStationController{DB: db}
}

// GetAllStations -> every registered kitchen station
func (pc *PrepStationController) GetAllStations(c *gin.Context) {
	var stations []models.PrepStation
	if err := pc.DB.Order("name asc").Find(&stations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of prep stations", stations)
}

// UpdateStation -> staff toggle of a station's active flag. Items of an
// inactive station's category disappear from the kitchen view.
func (pc *PrepStationController) UpdateStation(c *gin.Context) {
	stationID := c.Param("station_id")
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var station models.PrepStation
	if err := pc.DB.First(&station, stationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.IsActive != nil {
		station.IsActive = *body.IsActive
	}
	if err := pc.DB.Save(&station).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Prep station %d (%s) active=%t", station.ID, station.Name, station.IsActive)
	utils.RespondJSON(c, http.StatusOK, "Prep station updated", station)
}

// GetStationQueue -> the station's cooking queue: kitchen-owned items whose
// menu category the station cooks, oldest first.
func (pc *PrepStationController) GetStationQueue(c *gin.Context) {
	stationID := c.Param("station_id")
	var station models.PrepStation
	if err := pc.DB.First(&station, stationID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var items []models.OrderItem
	if err := pc.DB.Preload("MenuItem").Preload("Modifiers").
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("order_items.status IN ? AND menu_items.category = ?", services.PrepStationStatuses, station.Category).
		Order("order_items.created_at asc").
		Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Station queue", items)
}
