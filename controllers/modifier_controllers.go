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

type ModifierController struct {
	DB        *gorm.DB
	Lifecycle *services.LifecycleService
}

func NewModifierController(db *gorm.DB, lifecycle *services.LifecycleService) *ModifierController {
	return &ModifierController{DB: db, Lifecycle: lifecycle}
}

// GetAllModifierGroups -> the add-on catalog: active groups with their
// active modifiers.
func (mc *ModifierController) GetAllModifierGroups(c *gin.Context) {
	var groups []models.ModifierGroup
	if err := mc.DB.Where("is_active = ?", true).
		Preload("Modifiers", "is_active = ?", true).
		Order("name asc").
		Find(&groups).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of modifier groups", groups)
}

// AttachModifier -> add a catalog modifier to an item still in its editable
// states.
func (mc *ModifierController) AttachModifier(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		ModifierID uint `json:"modifier_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	attached, err := mc.Lifecycle.AddItemModifier(uint(itemID), body.ModifierID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier attached", attached)
}

// DetachModifier -> remove an attached modifier while its item is editable.
func (mc *ModifierController) DetachModifier(c *gin.Context) {
	attachedID, err := strconv.Atoi(c.Param("modifier_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.Lifecycle.RemoveItemModifier(uint(attachedID)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Modifier removed", gin.H{"modifier_id": attachedID})
}
