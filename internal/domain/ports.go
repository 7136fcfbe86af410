package domain

import "time"

// ListingCache — порт быстрого доступа к списку заказов админки.
// Запись об отправке заявки или смене статуса инвалидирует кэш,
// чтобы следующий запрос списка увидел свежие данные.
//
// Get возвращает поколение кэша; Set обязан передать поколение,
// увиденное на промахе. Если между чтением из хранилища и Set кэш
// был инвалидирован, поколение сместилось и устаревший снапшот
// отбрасывается — иначе параллельный Set мог бы затереть инвалидацию.
type ListingCache interface {
	Get() (orders []Order, generation uint64, ok bool)
	Set(orders []Order, generation uint64)
	Invalidate()
}

// Session — выданная админ-гейтом сессия персонала.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionStore хранит активные админ-сессии.
type SessionStore interface {
	Put(session Session) error
	Get(token string) (Session, error)
	Delete(token string) error
	// DeleteExpired удаляет сессии с ExpiresAt <= before, не больше limit за вызов.
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OrderEventPublisher уведомляет внешние системы о событиях заказа.
// Публикация best-effort: ошибки логируются, но не влияют на результат операции.
type OrderEventPublisher interface {
	OrderCreated(order Order) error
	OrderStatusChanged(orderID string, status OrderStatus) error
}
