package kafka

import (
	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

// OrderEventPublisher адаптирует Producer к доменному порту публикации
// событий заказов.
type OrderEventPublisher struct {
	producer *Producer
}

// NewOrderEventPublisher оборачивает producer доменным портом.
func NewOrderEventPublisher(producer *Producer) *OrderEventPublisher {
	return &OrderEventPublisher{producer: producer}
}

func (p *OrderEventPublisher) OrderCreated(order domain.Order) error {
	event := NewOrderEvent(EventTypeOrderCreated, order.ID, string(order.Status))
	event.Urgency = string(order.Urgency)
	if order.TotalEstimatedCost.Valid {
		event.Total = order.TotalEstimatedCost.Decimal.StringFixed(2)
	}
	return p.producer.PublishEvent(TopicOrderEvents, order.ID, event)
}

func (p *OrderEventPublisher) OrderStatusChanged(orderID string, status domain.OrderStatus) error {
	event := NewOrderEvent(EventTypeOrderStatusChanged, orderID, string(status))
	return p.producer.PublishEvent(TopicOrderEvents, orderID, event)
}

var _ domain.OrderEventPublisher = (*OrderEventPublisher)(nil)
