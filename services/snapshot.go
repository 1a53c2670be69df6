package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/models"
)

// View kinds. Each polling viewer re-reads its snapshot on a fixed cadence
// and replaces its local copy wholesale; no diffing contract is offered.
const (
	ViewOrderEntry  = "order_entry"
	ViewPrepStation = "prep_station"
	ViewTableMap    = "table_map"
	ViewTableList   = "table_list"
)

// PrepStationStatuses is what the kitchen is allowed to see.
var PrepStationStatuses = []string{
	models.ItemStatusPending,
	models.ItemStatusFired,
	models.ItemStatusCompleted,
}

// Snapshot is one consistent read of the floor, filtered for a view kind.
type Snapshot struct {
	View      string             `json:"view"`
	TakenAt   time.Time          `json:"taken_at"`
	Tables    []models.Table     `json:"tables,omitempty"`
	Orders    []models.Order     `json:"orders,omitempty"`
	Items     []models.OrderItem `json:"items,omitempty"`
	Summaries []TableSummary     `json:"summaries,omitempty"`
}

// SnapshotService is the read side of the viewer contract. Every snapshot
// runs in a single transaction so a viewer never observes a half-applied
// cross-entity write.
type SnapshotService struct {
	db *gorm.DB
}

func NewSnapshotService(db *gorm.DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// Take produces the snapshot for one view kind. tableID scopes the
// order-entry view to its table and is ignored by the others.
func (s *SnapshotService) Take(view string, tableID uint) (*Snapshot, error) {
	snap := &Snapshot{View: view, TakenAt: time.Now()}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		switch view {
		case ViewOrderEntry:
			return s.orderEntry(tx, snap, tableID)
		case ViewPrepStation:
			return s.prepStation(tx, snap)
		case ViewTableMap, ViewTableList:
			return s.tableBoard(tx, snap)
		default:
			return fmt.Errorf("unknown view kind %q", view)
		}
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// orderEntry sees every non-deleted item of the table's open orders.
func (s *SnapshotService) orderEntry(tx *gorm.DB, snap *Snapshot, tableID uint) error {
	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		return &NotFoundError{Entity: "table", ID: tableID}
	}

	var orders []models.Order
	if err := tx.Where("table_id = ? AND status = ?", tableID, models.OrderStatusOpen).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return err
	}

	var items []models.OrderItem
	if len(orders) > 0 {
		ids := make([]uint, len(orders))
		for i, order := range orders {
			ids[i] = order.ID
		}
		if err := tx.Preload("MenuItem").Preload("Modifiers").
			Where("order_id IN ?", ids).
			Order("created_at asc").
			Find(&items).Error; err != nil {
			return err
		}
	}

	snap.Tables = []models.Table{table}
	snap.Orders = orders
	snap.Items = items
	return nil
}

// prepStation sees only items the kitchen owns: pending, fired, completed.
// When prep stations are registered, items route by the menu categories of
// the active stations; a floor without stations runs as one kitchen.
func (s *SnapshotService) prepStation(tx *gorm.DB, snap *Snapshot) error {
	query := tx.Preload("MenuItem").Preload("Modifiers").
		Where("order_items.status IN ?", PrepStationStatuses).
		Order("order_items.created_at asc")

	var stationCount int64
	if err := tx.Model(&models.PrepStation{}).Count(&stationCount).Error; err != nil {
		return err
	}
	if stationCount > 0 {
		categories, err := activeStationCategories(tx)
		if err != nil {
			return err
		}
		query = query.Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
			Where("menu_items.category IN ?", categories)
	}

	var items []models.OrderItem
	if err := query.Find(&items).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := tx.Where("status = ?", models.OrderStatusOpen).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return err
	}

	snap.Orders = orders
	snap.Items = items
	return nil
}

// tableBoard feeds the table map and table list: every table plus a summary
// for each one with open orders.
func (s *SnapshotService) tableBoard(tx *gorm.DB, snap *Snapshot) error {
	var tables []models.Table
	if err := tx.Order("table_number asc").Find(&tables).Error; err != nil {
		return err
	}

	summaries, err := summarizeTables(tx, tables)
	if err != nil {
		return err
	}

	snap.Tables = tables
	snap.Summaries = summaries
	return nil
}

// TableSummaries is the aggregator output for every occupied table, exposed
// directly for the table map/list endpoints.
func (s *SnapshotService) TableSummaries() ([]TableSummary, error) {
	var summaries []TableSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tables []models.Table
		if err := tx.Order("table_number asc").Find(&tables).Error; err != nil {
			return err
		}
		var innerErr error
		summaries, innerErr = summarizeTables(tx, tables)
		return innerErr
	})
	return summaries, err
}

func summarizeTables(tx *gorm.DB, tables []models.Table) ([]TableSummary, error) {
	now := time.Now()
	summaries := make([]TableSummary, 0, len(tables))

	for _, table := range tables {
		var orders []models.Order
		if err := tx.Where("table_id = ? AND status = ?", table.ID, models.OrderStatusOpen).
			Find(&orders).Error; err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			continue
		}

		ids := make([]uint, len(orders))
		for i, order := range orders {
			ids[i] = order.ID
		}
		var items []models.OrderItem
		if err := tx.Preload("Modifiers").Where("order_id IN ?", ids).Find(&items).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, Summarize(table, orders, items, now))
	}
	return summaries, nil
}

// activeStationCategories lists the menu categories covered by the active
// prep stations. Items outside the result stay invisible to the kitchen.
func activeStationCategories(tx *gorm.DB) ([]string, error) {
	var stations []models.PrepStation
	if err := tx.Where("is_active = ?", true).Find(&stations).Error; err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(stations))
	for _, station := range stations {
		categories = append(categories, station.Category)
	}
	return categories, nil
}
