package memory

import (
	"context"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

func makeOrder(id string, createdAt time.Time) domain.Order {
	return domain.Order{
		ID:              id,
		CustomerName:    "customer",
		Phone:           "+7 700 123 45 67",
		District:        "Almaly",
		DeliveryAddress: "Abay ave 1",
		Urgency:         domain.UrgencyStandard,
		Status:          domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ID: id + "-item-1", ProductName: "sneakers", Quantity: 2, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()

	order := makeOrder("order-1", now)
	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != order.CustomerName {
		t.Errorf("expected customer %q, got %q", order.CustomerName, got.CustomerName)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
}

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()

	if err := repo.Create(makeOrder("order-1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(makeOrder("order-1", now)); err != domain.ErrOrderAlreadyExists {
		t.Errorf("expected ErrOrderAlreadyExists, got %v", err)
	}
}

func TestOrderRepository_GetMissing(t *testing.T) {
	repo := NewOrderRepository()
	if _, err := repo.Get("ghost"); err != domain.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	repo := NewOrderRepository()
	base := time.Now().UTC()

	// Вставляем в произвольном порядке, ожидаем created_at DESC.
	for i, id := range []string{"order-b", "order-c", "order-a"} {
		order := makeOrder(id, base.Add(time.Duration(i)*time.Second))
		if err := repo.Create(order); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	orders, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}

	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Errorf("orders out of order at %d: %s after %s", i, orders[i].ID, orders[i-1].ID)
		}
	}
	if orders[0].ID != "order-a" {
		t.Errorf("expected most recent order-a first, got %s", orders[0].ID)
	}
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()

	if err := repo.Create(makeOrder("order-1", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateStatus("order-1", domain.OrderStatusShipped); err != nil {
		t.Fatalf("update status: %v", err)
	}

	// Идемпотентность: повторное применение того же статуса успешно.
	if err := repo.UpdateStatus("order-1", domain.OrderStatusShipped); err != nil {
		t.Fatalf("repeat update status: %v", err)
	}

	got, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.OrderStatusShipped {
		t.Errorf("expected status shipped, got %s", got.Status)
	}
}

func TestOrderRepository_UpdateStatusMissing(t *testing.T) {
	repo := NewOrderRepository()
	if err := repo.UpdateStatus("ghost", domain.OrderStatusCancelled); err != domain.ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_CloneIsolation(t *testing.T) {
	repo := NewOrderRepository()
	now := time.Now().UTC()
	order := makeOrder("order-1", now)

	if err := repo.Create(order); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Мутация исходного слайса не должна менять сохранённый заказ.
	order.Items[0].ProductName = "mutated"

	got, err := repo.Get("order-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Items[0].ProductName != "sneakers" {
		t.Errorf("repository leaked external mutation: %q", got.Items[0].ProductName)
	}
}

func TestOrderRepository_Ping(t *testing.T) {
	repo := NewOrderRepository()
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}
