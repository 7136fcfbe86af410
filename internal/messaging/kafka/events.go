package kafka

import "time"

// EventType определяет тип события заказа.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
)

// TopicOrderEvents — топик уведомлений о заказах для внешних систем
// (оповещения персонала, аналитика).
const TopicOrderEvents = "intake.order.events"

// OrderEvent представляет публикуемое событие заказа.
type OrderEvent struct {
	EventType EventType `json:"event_type"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Urgency   string    `json:"urgency,omitempty"`
	// Total — расчётная стоимость, отформатированная до двух знаков; пустая,
	// если стоимость неизвестна.
	Total     string    `json:"total,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent создает событие заказа с текущей меткой времени.
func NewOrderEvent(eventType EventType, orderID, status string) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}
