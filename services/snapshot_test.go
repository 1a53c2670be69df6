package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cjmrtn/tableflow/models"
)

func TestSnapshotUnknownView(t *testing.T) {
	db := setupLifecycleDB(t)
	snapshots := NewSnapshotService(db)

	_, err := snapshots.Take("floorplan", 0)
	assert.Error(t, err)
}

func TestPrepStationViewHidesEditableItems(t *testing.T) {
	db := setupLifecycleDB(t)
	svc := NewLifecycleService(db)
	svc.EditWindow = time.Hour
	snapshots := NewSnapshotService(db)

	order, _ := svc.CreateOrder(1, "")
	svc.AddDraftItem(order.ID, 1, 1, 5.00, "")
	svc.AddDraftItem(order.ID, 1, 1, 7.00, "")
	svc.Dispatch(order.ID) // both limbo now

	snap, err := snapshots.Take(ViewPrepStation, 0)
	assert.NoError(t, err)
	assert.Empty(t, snap.Items, "kitchen must not see items inside the edit window")

	svc.SendNow(order.ID)

	snap, err = snapshots.Take(ViewPrepStation, 0)
	assert.NoError(t, err)
	assert.Len(t, snap.Items, 2)
	for _, item := range snap.Items {
		assert.Equal(t, models.ItemStatusPending, item.Status)
	}
}

func TestPrepStationViewRoutesByActiveStations(t *testing.T) {
	db := setupLifecycleDB(t)
	db.Create(&models.MenuItem{Name: "Latte", Category: "Coffee", Price: 4.75, IsActive: true})
	db.Create(&models.PrepStation{Name: "Sweet Griddle", Category: "Sweet", IsActive: true})
	db.Create(&models.PrepStation{Name: "Coffee Bar", Category: "Coffee", IsActive: false})

	svc := NewLifecycleService(db)
	svc.EditWindow = time.Hour
	snapshots := NewSnapshotService(db)

	order, _ := svc.CreateOrder(1, "")
	svc.AddDraftItem(order.ID, 1, 1, 8.50, "")
	svc.AddDraftItem(order.ID, 2, 1, 4.75, "")
	svc.Dispatch(order.ID)
	svc.SendNow(order.ID)

	// only the active station's category reaches the kitchen view
	snap, err := snapshots.Take(ViewPrepStation, 0)
	assert.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "Nutella Crepe", snap.Items[0].MenuItem.Name)
}

func TestOrderEntryViewSeesWholeTable(t *testing.T) {
	db := setupLifecycleDB(t)
	svc := NewLifecycleService(db)
	svc.EditWindow = time.Hour
	snapshots := NewSnapshotService(db)

	order, _ := svc.CreateOrder(1, "")
	svc.AddDraftItem(order.ID, 1, 1, 5.00, "")
	svc.AddDraftItem(order.ID, 1, 1, 7.00, "")
	svc.Dispatch(order.ID)
	svc.AddDraftItem(order.ID, 1, 1, 3.00, "") // late draft

	snap, err := snapshots.Take(ViewOrderEntry, 1)
	assert.NoError(t, err)
	assert.Len(t, snap.Orders, 1)
	assert.Len(t, snap.Items, 3)
}

func TestOrderEntryViewUnknownTable(t *testing.T) {
	db := setupLifecycleDB(t)
	snapshots := NewSnapshotService(db)

	_, err := snapshots.Take(ViewOrderEntry, 42)
	assert.Error(t, err)
}

func TestTableBoardSummaries(t *testing.T) {
	db := setupLifecycleDB(t)
	db.Create(&models.Table{TableNumber: "F2", Status: models.TableStatusAvailable, Section: "Front", SeatCount: 2})

	svc := NewLifecycleService(db)
	svc.EditWindow = time.Hour
	snapshots := NewSnapshotService(db)

	order, _ := svc.CreateOrder(1, "")
	svc.AddDraftItem(order.ID, 1, 1, 5.00, "")
	svc.Dispatch(order.ID)

	snap, err := snapshots.Take(ViewTableMap, 0)
	assert.NoError(t, err)
	assert.Len(t, snap.Tables, 2)

	// only the table with open orders gets a summary card
	assert.Len(t, snap.Summaries, 1)
	assert.EqualValues(t, 1, snap.Summaries[0].TableID)
	assert.Equal(t, UrgencyPurple, snap.Summaries[0].Urgency)
	assert.Equal(t, models.TableStatusOccupied, snap.Summaries[0].Status)
}
