package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/config"
	"github.com/cjmrtn/tableflow/middlewares"
	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/router"
	"github.com/cjmrtn/tableflow/services"
	"github.com/cjmrtn/tableflow/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedFloor(db)

	lifecycle := services.NewLifecycleService(db)
	lifecycle.EditWindow = config.EditWindow()

	// Re-arm edit windows that were open when the process last stopped.
	if err := lifecycle.RestoreTimers(); err != nil {
		utils.ErrorLogger.Errorf("Failed to restore edit-window timers: %v", err)
	}

	rateLimiter := middlewares.NewRateLimiter(50, 100)
	r := router.SetupRouter(db, lifecycle, rateLimiter)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Table{},
		&models.MenuItem{},
		&models.ModifierGroup{},
		&models.Modifier{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemModifier{},
		&models.PrepStation{},
		&models.TableStatusLog{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedFloor provisions tables and a starter catalog on an empty database.
// Tables are pre-provisioned; the lifecycle service never creates them.
func seedFloor(db *gorm.DB) {
	var tableCount int64
	db.Model(&models.Table{}).Count(&tableCount)
	if tableCount == 0 {
		tables := []models.Table{
			{TableNumber: "F1", Section: "Front", SeatCount: 4},
			{TableNumber: "F2", Section: "Front", SeatCount: 4},
			{TableNumber: "F3", Section: "Front", SeatCount: 2},
			{TableNumber: "B1", Section: "Bar", SeatCount: 2},
			{TableNumber: "B2", Section: "Bar", SeatCount: 2},
			{TableNumber: "P1", Section: "Patio", SeatCount: 6},
		}
		for i := range tables {
			tables[i].Status = models.TableStatusAvailable
			db.Create(&tables[i])
		}
		utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	}

	var menuCount int64
	db.Model(&models.MenuItem{}).Count(&menuCount)
	if menuCount == 0 {
		menu := []models.MenuItem{
			{Name: "Ham & Cheese Crepe", Category: "Savory", Price: 11.50},
			{Name: "Spinach Feta Crepe", Category: "Savory", Price: 10.75},
			{Name: "Nutella Crepe", Category: "Sweet", Price: 8.50},
			{Name: "Lemon Sugar Crepe", Category: "Sweet", Price: 7.25},
			{Name: "Side Salad", Category: "Snacks & Sides", Price: 5.00},
			{Name: "Fries", Category: "Snacks & Sides", Price: 4.50},
			{Name: "Latte", Category: "Coffee", Price: 4.75},
			{Name: "Espresso", Category: "Coffee", Price: 3.00},
			{Name: "Lemonade", Category: "Beverages", Price: 3.50},
		}
		for i := range menu {
			menu[i].IsActive = true
			db.Create(&menu[i])
		}
		utils.InfoLogger.Printf("Seeded %d menu items", len(menu))
	}

	var groupCount int64
	db.Model(&models.ModifierGroup{}).Count(&groupCount)
	if groupCount == 0 {
		groups := []struct {
			group     models.ModifierGroup
			modifiers []models.Modifier
		}{
			{
				group: models.ModifierGroup{Name: "Toppings", MaxSelect: 0},
				modifiers: []models.Modifier{
					{Name: "Whipped Cream", Price: 1.00},
					{Name: "Strawberries", Price: 1.50},
					{Name: "Extra Nutella", Price: 1.25},
				},
			},
			{
				group: models.ModifierGroup{Name: "Milk", MaxSelect: 1},
				modifiers: []models.Modifier{
					{Name: "Oat Milk", Price: 0.75},
					{Name: "Almond Milk", Price: 0.75},
				},
			},
		}
		for _, seed := range groups {
			seed.group.IsActive = true
			db.Create(&seed.group)
			for i := range seed.modifiers {
				seed.modifiers[i].GroupID = seed.group.ID
				seed.modifiers[i].IsActive = true
				db.Create(&seed.modifiers[i])
			}
		}
		utils.InfoLogger.Printf("Seeded %d modifier groups", len(groups))
	}

	var stationCount int64
	db.Model(&models.PrepStation{}).Count(&stationCount)
	if stationCount == 0 {
		stations := []models.PrepStation{
			{Name: "Savory Griddle", Category: "Savory"},
			{Name: "Sweet Griddle", Category: "Sweet"},
			{Name: "Fry Station", Category: "Snacks & Sides"},
			{Name: "Coffee Bar", Category: "Coffee"},
			{Name: "Cold Bar", Category: "Beverages"},
		}
		for i := range stations {
			stations[i].IsActive = true
			db.Create(&stations[i])
		}
		utils.InfoLogger.Printf("Seeded %d prep stations", len(stations))
	}
}
