package services

import (
	"fmt"
	"time"

	"github.com/cjmrtn/tableflow/models"
)

// Taxes are a flat 3% on the recorded item prices.
const TaxRate = 0.03

// Urgency classes drive the border color of a table card. Precedence:
// green beats everything, purple beats yellow.
const (
	UrgencyGreen   = "green"
	UrgencyPurple  = "purple"
	UrgencyYellow  = "yellow"
	UrgencyDefault = "default"
)

// StatusCounts is the per-status item tally shown on a table card.
type StatusCounts struct {
	Draft     int `json:"draft"`
	Limbo     int `json:"limbo"`
	Pending   int `json:"pending"`
	Fired     int `json:"fired"`
	Completed int `json:"completed"`
	Locked    int `json:"locked"`
}

// TableSummary is the read-only rollup one occupied table presents to the
// table map and table list viewers. Computed on demand, never stored.
type TableSummary struct {
	TableID     uint         `json:"table_id"`
	TableNumber string       `json:"table_number"`
	Section     string       `json:"section"`
	SeatCount   int          `json:"seat_count"`
	ServerName  string       `json:"server_name"`
	Status      string       `json:"status"`
	ItemCount   int          `json:"item_count"`
	Counts      StatusCounts `json:"counts"`
	Subtotal    float64      `json:"subtotal"`
	Tax         float64      `json:"tax"`
	Total       float64      `json:"total"`
	Urgency     string       `json:"urgency"`
	ElapsedTime string       `json:"elapsed_time"`
}

// Total sums recorded item prices plus their modifier surcharges, regardless
// of status. Quantity is already baked into each recorded price.
func Total(items []models.OrderItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price
		for _, modifier := range item.Modifiers {
			sum += modifier.Price
		}
	}
	return sum
}

// Tax returns the tax on a subtotal.
func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

// GrandTotal returns subtotal plus tax.
func GrandTotal(subtotal float64) float64 {
	return subtotal * (1 + TaxRate)
}

// CountByStatus tallies items into status buckets.
func CountByStatus(items []models.OrderItem) StatusCounts {
	var counts StatusCounts
	for _, item := range items {
		switch item.Status {
		case models.ItemStatusDraft:
			counts.Draft++
		case models.ItemStatusLimbo:
			counts.Limbo++
		case models.ItemStatusPending:
			counts.Pending++
		case models.ItemStatusFired:
			counts.Fired++
		case models.ItemStatusCompleted:
			counts.Completed++
		case models.ItemStatusLocked:
			counts.Locked++
		}
	}
	return counts
}

// UrgencyClass classifies a table's item set. Green when every item is
// completed, otherwise purple when anything is still revocable (limbo),
// otherwise yellow when the kitchen holds anything, otherwise default.
func UrgencyClass(items []models.OrderItem) string {
	if len(items) == 0 {
		return UrgencyDefault
	}

	counts := CountByStatus(items)
	switch {
	case counts.Completed == len(items):
		return UrgencyGreen
	case counts.Limbo > 0:
		return UrgencyPurple
	case counts.Pending > 0 || counts.Fired > 0:
		return UrgencyYellow
	default:
		return UrgencyDefault
	}
}

// ElapsedLabel formats minutes since the oldest open order on a table:
// "42m ago" under an hour, "1h 5m ago" above.
func ElapsedLabel(oldest time.Time, now time.Time) string {
	minutes := int(now.Sub(oldest).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return fmt.Sprintf("%dh %dm ago", minutes/60, minutes%60)
}

// Unresolved reports whether any item still needs attention, i.e. the table
// cannot be considered free.
func Unresolved(items []models.OrderItem) bool {
	for _, item := range items {
		switch item.Status {
		case models.ItemStatusCompleted, models.ItemStatusLocked:
		default:
			return true
		}
	}
	return false
}

// EffectiveTableStatus derives occupancy from the table's open orders: a
// table is occupied iff it has at least one open order with unresolved
// items. The stored status is never consulted.
func EffectiveTableStatus(openOrders []models.Order, items []models.OrderItem) string {
	if len(openOrders) > 0 && Unresolved(items) {
		return models.TableStatusOccupied
	}
	return models.TableStatusAvailable
}

// Summarize builds the table-card rollup for one table from its open orders
// and their items. Items from every open order count; the elapsed label uses
// the earliest order.
func Summarize(table models.Table, openOrders []models.Order, items []models.OrderItem, now time.Time) TableSummary {
	subtotal := Total(items)

	summary := TableSummary{
		TableID:     table.ID,
		TableNumber: table.TableNumber,
		Section:     table.Section,
		SeatCount:   table.SeatCount,
		ServerName:  table.ServerName,
		Status:      EffectiveTableStatus(openOrders, items),
		ItemCount:   len(items),
		Counts:      CountByStatus(items),
		Subtotal:    subtotal,
		Tax:         Tax(subtotal),
		Total:       GrandTotal(subtotal),
		Urgency:     UrgencyClass(items),
	}

	if len(openOrders) > 0 {
		oldest := openOrders[0].CreatedAt
		for _, order := range openOrders[1:] {
			if order.CreatedAt.Before(oldest) {
				oldest = order.CreatedAt
			}
		}
		summary.ElapsedTime = ElapsedLabel(oldest, now)
	}

	return summary
}
