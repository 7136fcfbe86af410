package domain

import "context"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create атомарно сохраняет заказ вместе с позициями.
	// Сбой на любой позиции не оставляет в хранилище строку заказа.
	Create(order Order) error
	// Get возвращает заказ с позициями или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает все заказы с позициями, новые первыми (created_at DESC).
	List() ([]Order, error)
	// UpdateStatus выставляет статус одной строкой; повторное применение
	// того же статуса допустимо и успешно.
	UpdateStatus(id string, status OrderStatus) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
