package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/events"
	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

type TableController struct {
	DB        *gorm.DB
	Snapshots *services.SnapshotService
}

func NewTableController(db *gorm.DB, snapshots *services.SnapshotService) *TableController {
	return &TableController{DB: db, Snapshots: snapshots}
}

// GetAllTables -> every table, with occupancy derived from open orders. An
// optional ?status= filter applies to the derived status.
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for i := range tables {
		status, err := tc.deriveStatus(tables[i].ID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		tables[i].Status = status
	}

	if want := c.Query("status"); want != "" {
		filtered := make([]models.Table, 0, len(tables))
		for _, table := range tables {
			if table.Status == want {
				filtered = append(filtered, table)
			}
		}
		tables = filtered
	}

	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail of one table
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	status, err := tc.deriveStatus(table.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	table.Status = status

	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> staff update of the stored table record. The stored status
// is kept as a hint; reads keep reporting the derived occupancy.
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		Status     *string `json:"status"`
		ServerName *string `json:"server_name"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	previous := table.Status
	if body.Status != nil {
		table.Status = *body.Status
	}
	if body.ServerName != nil {
		table.ServerName = *body.ServerName
	}
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if body.Status != nil && *body.Status != previous {
		entry := models.TableStatusLog{
			TableID:    table.ID,
			FromStatus: previous,
			ToStatus:   table.Status,
			ChangedBy:  table.ServerName,
			CreatedAt:  time.Now(),
		}
		if err := tc.DB.Create(&entry).Error; err != nil {
			utils.ErrorLogger.Errorf("Failed to record status change for table %d: %v", table.ID, err)
		}
	}

	events.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("Table %d updated (status=%s)", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// GetStatusLog -> audit trail of staff status changes on one table, newest
// first.
func (tc *TableController) GetStatusLog(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var entries []models.TableStatusLog
	if err := tc.DB.Where("table_id = ?", table.ID).Order("id desc").Find(&entries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status log", entries)
}

// GetTableSummaries -> aggregator rollup for the table map and table list.
func (tc *TableController) GetTableSummaries(c *gin.Context) {
	summaries, err := tc.Snapshots.TableSummaries()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table summaries", summaries)
}

// deriveStatus recomputes occupancy from the table's open orders.
func (tc *TableController) deriveStatus(tableID uint) (string, error) {
	var orders []models.Order
	if err := tc.DB.Where("table_id = ? AND status = ?", tableID, models.OrderStatusOpen).
		Find(&orders).Error; err != nil {
		return "", err
	}
	if len(orders) == 0 {
		return models.TableStatusAvailable, nil
	}

	ids := make([]uint, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	var items []models.OrderItem
	if err := tc.DB.Where("order_id IN ?", ids).Find(&items).Error; err != nil {
		return "", err
	}

	return services.EffectiveTableStatus(orders, items), nil
}
