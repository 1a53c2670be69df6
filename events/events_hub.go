package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cjmrtn/tableflow/models"
)

// Event types pushed to floor and prep-station viewers. Polling snapshots
// remain the baseline contract; these let a viewer refresh early.
const (
	EventOrderUpdate   = "order_update"
	EventItemUpdate    = "item_update"
	EventItemsSent     = "items_sent"
	EventWindowExpired = "window_expired"
	EventTableUpdate   = "table_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every subscribed viewer connection and its view kind.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> view kind
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection to the subscriber set.
func RegisterClient(conn *websocket.Conn, view string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = view
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate pushes a changed order to every subscriber.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastItemUpdate pushes a single changed item.
func BroadcastItemUpdate(item models.OrderItem) {
	broadcast(Message{
		Event: EventItemUpdate,
		Data:  item,
	})
}

// BroadcastItemsSent announces that an order entered its edit window.
func BroadcastItemsSent(orderID uint, items []models.OrderItem) {
	broadcast(Message{
		Event: EventItemsSent,
		Data: map[string]interface{}{
			"order_id": orderID,
			"items":    items,
		},
	})
}

// BroadcastWindowExpired announces that an order's edit window closed.
func BroadcastWindowExpired(orderID uint, items []models.OrderItem) {
	broadcast(Message{
		Event: EventWindowExpired,
		Data: map[string]interface{}{
			"order_id": orderID,
			"items":    items,
		},
	})
}

// BroadcastTableUpdate pushes a changed table.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	// A failed write means the peer is gone; drop the connection so later
	// broadcasts stop re-failing on it.
	var dead []*websocket.Conn
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		delete(hub.clients, conn)
		conn.Close()
	}
}
