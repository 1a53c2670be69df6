package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/controllers"
	"github.com/cjmrtn/tableflow/middlewares"
	"github.com/cjmrtn/tableflow/services"
)

// SetupRouter wires the middleware stack and every route. The rate limiter
// must be registered here, before the routes: gin captures each route's
// handler chain at registration time, so middleware added afterwards never
// runs for already-registered routes.
func SetupRouter(db *gorm.DB, lifecycle *services.LifecycleService, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(limiter.RateLimit())

	snapshots := services.NewSnapshotService(db)

	tableCtrl := controllers.NewTableController(db, snapshots)
	orderCtrl := controllers.NewOrderController(db, lifecycle)
	itemCtrl := controllers.NewOrderItemController(db, lifecycle)
	menuCtrl := controllers.NewMenuController(db)
	modifierCtrl := controllers.NewModifierController(db, lifecycle)
	stationCtrl := controllers.NewPrepStationController(db)
	snapCtrl := controllers.NewSnapshotController(snapshots)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Event-bus websocket for push subscribers
	r.GET("/ws", controllers.EventsHandler)

	api := r.Group("/api")
	{
		// TABLES
		api.GET("/tables", tableCtrl.GetAllTables)
		api.GET("/tables/summary", tableCtrl.GetTableSummaries)
		api.GET("/tables/:table_id", tableCtrl.GetTableByID)
		api.PUT("/tables/:table_id", tableCtrl.UpdateTable)
		api.GET("/tables/:table_id/status-log", tableCtrl.GetStatusLog)

		// MENU CATALOG (read-only toward the ordering screen)
		api.GET("/menu-items", menuCtrl.GetAllMenuItems)
		api.GET("/menu-items/:menu_item_id", menuCtrl.GetMenuItemByID)
		api.GET("/modifier-groups", modifierCtrl.GetAllModifierGroups)

		// ORDERS
		api.GET("/orders", orderCtrl.GetAllOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)

		// ORDER ITEMS
		api.GET("/order-items", itemCtrl.GetAllOrderItems)
		api.POST("/order-items", itemCtrl.CreateOrderItem)
		api.DELETE("/order-items/:item_id", itemCtrl.DeleteOrderItem)
		api.GET("/order-items/order/:order_id", itemCtrl.GetItemsByOrder)

		// Item modifiers (detach addresses the attachment row)
		api.POST("/order-items/:item_id/modifiers", modifierCtrl.AttachModifier)
		api.DELETE("/order-item-modifiers/:modifier_id", modifierCtrl.DetachModifier)

		// Dispatch and the edit window
		api.POST("/order-items/order/:order_id/send", itemCtrl.SendOrder)
		api.POST("/order-items/order/:order_id/send-now", itemCtrl.SendOrderNow)
		api.POST("/order-items/lock-expired", itemCtrl.LockExpired)

		// Prep station transitions
		api.PUT("/order-items/:item_id/start", itemCtrl.StartItem)
		api.PUT("/order-items/:item_id/complete", itemCtrl.CompleteItem)

		// Prep station registry
		api.GET("/prep-stations", stationCtrl.GetAllStations)
		api.PUT("/prep-stations/:station_id", stationCtrl.UpdateStation)
		api.GET("/prep-stations/:station_id/items", stationCtrl.GetStationQueue)

		// Viewer snapshots
		api.GET("/snapshot/:view", snapCtrl.GetSnapshot)
	}

	return r
}
