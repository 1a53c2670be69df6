package Controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cjmrtn/tableflow/middlewares"
	"github.com/cjmrtn/tableflow/router"
	"github.com/cjmrtn/tableflow/services"
)

// The limiter is part of the router's middleware stack, so it has to bite on
// registered API routes, not only on requests with no matching route.
func TestRateLimiterThrottlesApiBursts(t *testing.T) {
	db := setupTestDB(t)
	lifecycle := services.NewLifecycleService(db)
	lifecycle.EditWindow = time.Hour
	r := router.SetupRouter(db, lifecycle, middlewares.NewRateLimiter(1, 2))

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		code, _ := doRequest(t, r, "GET", "/api/tables", nil)
		codes = append(codes, code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
