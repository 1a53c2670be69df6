package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

type SnapshotController struct {
	Snapshots *services.SnapshotService
}

func NewSnapshotController(snapshots *services.SnapshotService) *SnapshotController {
	return &SnapshotController{Snapshots: snapshots}
}

// GetSnapshot -> one consistent read for a polling viewer. The order-entry
// view requires ?tableId=.
func (sc *SnapshotController) GetSnapshot(c *gin.Context) {
	view := c.Param("view")
	switch view {
	case services.ViewOrderEntry, services.ViewPrepStation, services.ViewTableMap, services.ViewTableList:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown view kind %q", view))
		return
	}

	var tableID uint
	if raw := c.Query("tableId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		tableID = uint(parsed)
	}

	snap, err := sc.Snapshots.Take(view, tableID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Snapshot", snap)
}
