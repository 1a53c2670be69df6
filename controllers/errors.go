package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Nothing is swallowed: every failed mutation reaches the caller.
func respondServiceError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	var invalidState *services.InvalidStateError
	var dispatchFailed *services.DispatchFailed

	switch {
	case errors.As(err, &notFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &invalidState):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.As(err, &dispatchFailed):
		utils.RespondError(c, http.StatusBadGateway, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
