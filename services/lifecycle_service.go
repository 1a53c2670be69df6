package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/cjmrtn/tableflow/events"
	"github.com/cjmrtn/tableflow/models"
	"github.com/cjmrtn/tableflow/utils"
)

// DefaultEditWindow is the grace period between a server sending an order and
// the prep station seeing it. Every edit inside the window restarts it.
const DefaultEditWindow = 15 * time.Second

// LifecycleService owns every order and order-item mutation, including the
// per-order edit-window timers. Views never write entity state directly.
type LifecycleService struct {
	db         *gorm.DB
	EditWindow time.Duration

	mu     sync.Mutex // guards timers and locks
	timers map[uint]*windowTimer
	locks  map[uint]*sync.Mutex // serializes dispatch/send-now/expiry per order
}

// windowTimer is one armed edit-window deadline. The absolute expiry is kept
// alongside the handle so a late callback can tell whether it was superseded.
type windowTimer struct {
	handle    *time.Timer
	expiresAt time.Time
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{
		db:         db,
		EditWindow: DefaultEditWindow,
		timers:     make(map[uint]*windowTimer),
		locks:      make(map[uint]*sync.Mutex),
	}
}

// orderLock returns the mutex serializing window work for one order.
func (s *LifecycleService) orderLock(orderID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[orderID] = l
	}
	return l
}

/*
========================================
 ORDERS
========================================
*/

// CreateOrder opens a new order on a table.
func (s *LifecycleService) CreateOrder(tableID uint, orderType string) (*models.Order, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		return nil, &NotFoundError{Entity: "table", ID: tableID}
	}

	if orderType == "" {
		orderType = models.OrderTypeDineIn
	}

	order := models.Order{
		TableID:   tableID,
		OrderType: orderType,
		Status:    models.OrderStatusOpen,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	events.BroadcastOrderUpdate(order)
	return &order, nil
}

/*
========================================
 ITEM EDITING (draft / limbo)
========================================
*/

// AddDraftItem appends a draft item to an order. Price is captured as given
// and never recomputed from the catalog afterwards. Adding while the order's
// edit window is open restarts the window.
func (s *LifecycleService) AddDraftItem(orderID, menuItemID uint, quantity int, price float64, notes string) (*models.OrderItem, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, &NotFoundError{Entity: "order", ID: orderID}
	}
	if order.Status != models.OrderStatusOpen {
		return nil, &InvalidStateError{Entity: "order", ID: orderID, From: order.Status, Action: "add item"}
	}

	var menuItem models.MenuItem
	if err := s.db.First(&menuItem, menuItemID).Error; err != nil {
		return nil, &NotFoundError{Entity: "menu item", ID: menuItemID}
	}

	item := models.OrderItem{
		OrderID:    orderID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
		Price:      price,
		Notes:      notes,
		Status:     models.ItemStatusDraft,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}

	s.extendWindow(orderID)
	s.refreshTotals(orderID)

	events.BroadcastItemUpdate(item)
	return &item, nil
}

// RemoveItem deletes an item that has not yet reached the prep station.
// Removing while the edit window is open restarts the window.
func (s *LifecycleService) RemoveItem(itemID uint) error {
	var item models.OrderItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return &NotFoundError{Entity: "order item", ID: itemID}
	}

	if err := s.removeItemLocked(&item); err != nil {
		return err
	}

	s.extendWindow(item.OrderID)
	s.refreshTotals(item.OrderID)

	events.BroadcastItemUpdate(item)
	return nil
}

// removeItemLocked re-checks and deletes the item under its order's lock so
// the delete cannot interleave with the window expiry promoting the item to
// pending. The item's modifiers go with it.
func (s *LifecycleService) removeItemLocked(item *models.OrderItem) error {
	lock := s.orderLock(item.OrderID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.db.First(item, item.ID).Error; err != nil {
		return &NotFoundError{Entity: "order item", ID: item.ID}
	}
	if !item.Editable() {
		return &InvalidStateError{Entity: "order item", ID: item.ID, From: item.Status, Action: "remove"}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_item_id = ?", item.ID).Delete(&models.OrderItemModifier{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OrderItem{}, item.ID).Error
	})
}

// AddItemModifier attaches a catalog modifier to an item still in its
// editable states. Name and price are captured at attach time, like the item
// price itself. Attaching inside the order's edit window restarts the window.
func (s *LifecycleService) AddItemModifier(itemID, modifierID uint) (*models.OrderItemModifier, error) {
	var item models.OrderItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return nil, &NotFoundError{Entity: "order item", ID: itemID}
	}

	var modifier models.Modifier
	if err := s.db.First(&modifier, modifierID).Error; err != nil {
		return nil, &NotFoundError{Entity: "modifier", ID: modifierID}
	}
	if !modifier.IsActive {
		return nil, &InvalidStateError{Entity: "modifier", ID: modifierID, From: "inactive", Action: "attach"}
	}

	var group models.ModifierGroup
	if err := s.db.First(&group, modifier.GroupID).Error; err != nil {
		return nil, &NotFoundError{Entity: "modifier group", ID: modifier.GroupID}
	}

	attached := models.OrderItemModifier{
		OrderItemID: itemID,
		ModifierID:  modifierID,
		Name:        modifier.Name,
		Price:       modifier.Price,
		CreatedAt:   time.Now(),
	}
	if err := s.attachModifierLocked(&item, group, &attached); err != nil {
		return nil, err
	}

	s.extendWindow(item.OrderID)
	s.refreshTotals(item.OrderID)

	events.BroadcastItemUpdate(item)
	return &attached, nil
}

// attachModifierLocked re-checks the item and the group cap under the order
// lock, then records the attachment.
func (s *LifecycleService) attachModifierLocked(item *models.OrderItem, group models.ModifierGroup, attached *models.OrderItemModifier) error {
	lock := s.orderLock(item.OrderID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.db.First(item, item.ID).Error; err != nil {
		return &NotFoundError{Entity: "order item", ID: item.ID}
	}
	if !item.Editable() {
		return &InvalidStateError{Entity: "order item", ID: item.ID, From: item.Status, Action: "add modifier"}
	}

	if group.MaxSelect > 0 {
		var count int64
		if err := s.db.Model(&models.OrderItemModifier{}).
			Joins("JOIN modifiers ON modifiers.id = order_item_modifiers.modifier_id").
			Where("order_item_modifiers.order_item_id = ? AND modifiers.group_id = ?", item.ID, group.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(group.MaxSelect) {
			return &InvalidStateError{Entity: "modifier group", ID: group.ID, From: "at selection limit", Action: "attach"}
		}
	}

	return s.db.Create(attached).Error
}

// RemoveItemModifier detaches a previously attached modifier while its item
// is still editable. Detaching inside the edit window restarts the window.
func (s *LifecycleService) RemoveItemModifier(attachedID uint) error {
	var attached models.OrderItemModifier
	if err := s.db.First(&attached, attachedID).Error; err != nil {
		return &NotFoundError{Entity: "order item modifier", ID: attachedID}
	}
	var item models.OrderItem
	if err := s.db.First(&item, attached.OrderItemID).Error; err != nil {
		return &NotFoundError{Entity: "order item", ID: attached.OrderItemID}
	}

	if err := s.detachModifierLocked(&item, attachedID); err != nil {
		return err
	}

	s.extendWindow(item.OrderID)
	s.refreshTotals(item.OrderID)

	events.BroadcastItemUpdate(item)
	return nil
}

func (s *LifecycleService) detachModifierLocked(item *models.OrderItem, attachedID uint) error {
	lock := s.orderLock(item.OrderID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.db.First(item, item.ID).Error; err != nil {
		return &NotFoundError{Entity: "order item", ID: item.ID}
	}
	if !item.Editable() {
		return &InvalidStateError{Entity: "order item", ID: item.ID, From: item.Status, Action: "remove modifier"}
	}
	return s.db.Delete(&models.OrderItemModifier{}, attachedID).Error
}

/*
========================================
 DISPATCH AND THE EDIT WINDOW
========================================
*/

// Dispatch sends every draft item of an order to the kitchen behind the edit
// window: drafts become limbo and the window timer is armed. Items already
// past draft are skipped, so retrying a partially failed dispatch never
// promotes anything twice. Dispatch with nothing to send and no armed timer
// is a no-op and never resurrects a cleared window.
func (s *LifecycleService) Dispatch(orderID uint) ([]models.OrderItem, *time.Time, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, nil, &NotFoundError{Entity: "order", ID: orderID}
	}
	if order.Status != models.OrderStatusOpen {
		return nil, nil, &InvalidStateError{Entity: "order", ID: orderID, From: order.Status, Action: "dispatch"}
	}

	var drafts []models.OrderItem
	if err := s.db.Where("order_id = ? AND status = ?", orderID, models.ItemStatusDraft).
		Order("created_at asc").
		Find(&drafts).Error; err != nil {
		return nil, nil, &DispatchFailed{OrderID: orderID, Err: err}
	}

	if len(drafts) == 0 {
		// Nothing new. Report the window that is already running, if any.
		if expiry, armed := s.windowExpiry(orderID); armed {
			items, err := s.itemsInWindow(orderID)
			if err != nil {
				return nil, nil, &DispatchFailed{OrderID: orderID, Err: err}
			}
			return items, &expiry, nil
		}
		return nil, nil, nil
	}

	now := time.Now()
	expiresAt := now.Add(s.EditWindow)

	// Promote all drafts in one transaction: a failure leaves every one of
	// them draft so the caller can safely retry.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range drafts {
			drafts[i].Status = models.ItemStatusLimbo
			drafts[i].UpdatedAt = now
			if err := tx.Save(&drafts[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{"delay_expires_at": expiresAt, "updated_at": now}).Error
	})
	if err != nil {
		return nil, nil, &DispatchFailed{OrderID: orderID, Err: err}
	}

	s.armTimer(orderID, expiresAt)
	s.refreshTotals(orderID)

	utils.InfoLogger.Printf("Order %d dispatched: %d item(s) in edit window until %s",
		orderID, len(drafts), expiresAt.Format(time.RFC3339))
	events.BroadcastItemsSent(orderID, drafts)

	return drafts, &expiresAt, nil
}

// SendNow closes the edit window early. Only valid while the timer is armed;
// the transition is exactly the one natural expiry would perform.
func (s *LifecycleService) SendNow(orderID uint) ([]models.OrderItem, error) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	if !s.cancelTimer(orderID) {
		return nil, &InvalidStateError{Entity: "order", ID: orderID, From: "no edit window", Action: "send now"}
	}

	items, err := s.closeWindow(orderID)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d sent now: %d item(s) pending", orderID, len(items))
	return items, nil
}

// expire is the timer callback for natural edit-window expiry.
func (s *LifecycleService) expire(orderID uint) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	// The handle that scheduled this callback may have been cancelled by
	// SendNow or superseded by a window extension while we waited for the
	// order lock. The registry entry is the truth: fire only if it is still
	// present and actually overdue by wall clock.
	s.mu.Lock()
	entry, ok := s.timers[orderID]
	if !ok || time.Now().Before(entry.expiresAt) {
		s.mu.Unlock()
		return
	}
	delete(s.timers, orderID)
	s.mu.Unlock()

	items, err := s.closeWindow(orderID)
	if err != nil {
		utils.ErrorLogger.Errorf("Edit window expiry for order %d failed: %v", orderID, err)
		return
	}

	utils.InfoLogger.Printf("Edit window expired for order %d: %d item(s) pending", orderID, len(items))
}

// closeWindow promotes every limbo item of the order to pending and clears
// the stored expiry. Callers must hold the order lock and have already
// removed the timer entry.
func (s *LifecycleService) closeWindow(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := s.db.Where("order_id = ? AND status = ?", orderID, models.ItemStatusLimbo).
		Find(&items).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range items {
			items[i].Status = models.ItemStatusPending
			items[i].UpdatedAt = now
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{"delay_expires_at": nil, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	events.BroadcastWindowExpired(orderID, items)
	return items, nil
}

// extendWindow restarts an order's edit window if one is open. Called on
// every add/remove so the kitchen never sees an order edited within the last
// window duration.
func (s *LifecycleService) extendWindow(orderID uint) {
	lock := s.orderLock(orderID)
	lock.Lock()
	defer lock.Unlock()

	if _, armed := s.windowExpiry(orderID); !armed {
		return
	}

	expiresAt := time.Now().Add(s.EditWindow)
	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("delay_expires_at", expiresAt).Error; err != nil {
		utils.ErrorLogger.Errorf("Failed to extend edit window for order %d: %v", orderID, err)
		return
	}
	s.armTimer(orderID, expiresAt)
}

/*
========================================
 PREP STATION
========================================
*/

// StartPrep moves a pending item onto the grill: pending -> fired.
func (s *LifecycleService) StartPrep(itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return nil, &NotFoundError{Entity: "order item", ID: itemID}
	}

	if item.Status != models.ItemStatusPending {
		return nil, &InvalidStateError{Entity: "order item", ID: itemID, From: item.Status, Action: "start"}
	}

	now := time.Now()
	item.Status = models.ItemStatusFired
	item.FiredAt = &now
	item.UpdatedAt = now
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	events.BroadcastItemUpdate(item)
	return &item, nil
}

// CompleteItem finishes a fired item: fired -> completed.
func (s *LifecycleService) CompleteItem(itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		return nil, &NotFoundError{Entity: "order item", ID: itemID}
	}

	if item.Status != models.ItemStatusFired {
		return nil, &InvalidStateError{Entity: "order item", ID: itemID, From: item.Status, Action: "complete"}
	}

	now := time.Now()
	item.Status = models.ItemStatusCompleted
	item.CompletedAt = &now
	item.UpdatedAt = now
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}

	events.BroadcastItemUpdate(item)
	return &item, nil
}

/*
========================================
 RECOVERY
========================================
*/

// LockExpiredItems sweeps limbo items whose stored expiry passed but whose
// timer handle is gone, e.g. after a restart that lost in-memory timers
// before RestoreTimers could run. Such orphans become terminal locked.
func (s *LifecycleService) LockExpiredItems() ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.status = ? AND orders.delay_expires_at IS NOT NULL AND orders.delay_expires_at < ?",
			models.ItemStatusLimbo, time.Now()).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var locked []models.OrderItem
	for i := range items {
		// A live timer means natural expiry is still coming; leave those.
		if _, armed := s.windowExpiry(items[i].OrderID); armed {
			continue
		}
		items[i].Status = models.ItemStatusLocked
		items[i].IsLocked = true
		items[i].UpdatedAt = now
		if err := s.db.Save(&items[i]).Error; err != nil {
			return locked, err
		}
		locked = append(locked, items[i])
		events.BroadcastItemUpdate(items[i])
	}

	if len(locked) > 0 {
		utils.InfoLogger.Printf("Locked %d expired item(s)", len(locked))
	}
	return locked, nil
}

// RestoreTimers re-arms edit windows from their stored absolute expiries
// after a restart. Overdue windows fire once, immediately.
func (s *LifecycleService) RestoreTimers() error {
	var orders []models.Order
	if err := s.db.Where("delay_expires_at IS NOT NULL AND status = ?", models.OrderStatusOpen).
		Find(&orders).Error; err != nil {
		return err
	}

	for _, order := range orders {
		s.armTimer(order.ID, *order.DelayExpiresAt)
	}
	if len(orders) > 0 {
		utils.InfoLogger.Printf("Restored %d edit-window timer(s)", len(orders))
	}
	return nil
}

/*
========================================
 TIMER REGISTRY
========================================
*/

// armTimer schedules (or reschedules) the deadline timer for one order.
// There is never more than one live handle per order.
func (s *LifecycleService) armTimer(orderID uint, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.timers[orderID]; ok {
		entry.handle.Stop()
	}
	s.timers[orderID] = &windowTimer{
		expiresAt: expiresAt,
		handle: time.AfterFunc(time.Until(expiresAt), func() {
			s.expire(orderID)
		}),
	}
}

// cancelTimer stops and removes an order's timer. Cancelling a timer that
// already fired or never existed is a no-op; the return value reports
// whether a live timer was actually cancelled.
func (s *LifecycleService) cancelTimer(orderID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.timers[orderID]
	if !ok {
		return false
	}
	entry.handle.Stop()
	delete(s.timers, orderID)
	return true
}

// windowExpiry reports the armed expiry for an order, if any.
func (s *LifecycleService) windowExpiry(orderID uint) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.timers[orderID]
	if !ok {
		return time.Time{}, false
	}
	return entry.expiresAt, true
}

/*
========================================
 INTERNAL HELPERS
========================================
*/

// itemsInWindow returns the limbo items of an order, oldest first.
func (s *LifecycleService) itemsInWindow(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.Where("order_id = ? AND status = ?", orderID, models.ItemStatusLimbo).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

// refreshTotals recomputes the order money rollup from its items. Recorded
// item prices already include quantity.
func (s *LifecycleService) refreshTotals(orderID uint) {
	var items []models.OrderItem
	if err := s.db.Preload("Modifiers").Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		utils.ErrorLogger.Errorf("Failed to load items for order %d totals: %v", orderID, err)
		return
	}

	subtotal := Total(items)
	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"subtotal": subtotal,
			"tax":      Tax(subtotal),
			"total":    GrandTotal(subtotal),
		}).Error; err != nil {
		utils.ErrorLogger.Errorf("Failed to update totals for order %d: %v", orderID, err)
	}
}
