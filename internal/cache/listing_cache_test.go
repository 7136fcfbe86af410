package cache

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

func TestListingCache_MissUntilSet(t *testing.T) {
	c := NewListingCache()

	_, gen, ok := c.Get()
	if ok {
		t.Fatal("fresh cache must report a miss")
	}

	orders := []domain.Order{{ID: "order-1", CreatedAt: time.Now().UTC()}}
	c.Set(orders, gen)

	got, _, ok := c.Get()
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if len(got) != 1 || got[0].ID != "order-1" {
		t.Errorf("unexpected cached content: %+v", got)
	}
}

func TestListingCache_Invalidate(t *testing.T) {
	c := NewListingCache()
	_, gen, _ := c.Get()
	c.Set([]domain.Order{{ID: "order-1"}}, gen)

	c.Invalidate()

	if _, _, ok := c.Get(); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestListingCache_EmptyListIsHit(t *testing.T) {
	// Пустой список заказов — валидное состояние, не промах.
	c := NewListingCache()
	_, gen, _ := c.Get()
	c.Set(nil, gen)

	got, _, ok := c.Get()
	if !ok {
		t.Fatal("expected hit for cached empty list")
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %d orders", len(got))
	}
}

func TestListingCache_StaleSetIsDiscarded(t *testing.T) {
	// Снапшот, прочитанный до инвалидации, приходит со старым поколением:
	// принять его значило бы навсегда затереть инвалидацию.
	c := NewListingCache()
	_, gen, ok := c.Get()
	if ok {
		t.Fatal("fresh cache must report a miss")
	}

	// Между чтением из хранилища и Set появился новый заказ.
	c.Invalidate()

	c.Set([]domain.Order{{ID: "stale-order"}}, gen)

	if _, _, ok := c.Get(); ok {
		t.Fatal("stale snapshot must not revive the cache")
	}

	// Снапшот, прочитанный уже после инвалидации, принимается.
	_, gen, _ = c.Get()
	c.Set([]domain.Order{{ID: "fresh-order"}}, gen)

	got, _, ok := c.Get()
	if !ok {
		t.Fatal("expected hit for current-generation Set")
	}
	if len(got) != 1 || got[0].ID != "fresh-order" {
		t.Errorf("unexpected cached content: %+v", got)
	}
}

func TestListingCache_SnapshotIsolation(t *testing.T) {
	c := NewListingCache()
	orders := []domain.Order{{ID: "order-1"}}
	_, gen, _ := c.Get()
	c.Set(orders, gen)

	// Мутация исходного слайса не должна протекать в кэш.
	orders[0].ID = "mutated"

	got, _, _ := c.Get()
	if got[0].ID != "order-1" {
		t.Errorf("cache leaked external mutation: %q", got[0].ID)
	}

	// И наоборот: мутация выданного снапшота не меняет кэш.
	got[0].ID = "mutated-too"
	again, _, _ := c.Get()
	if again[0].ID != "order-1" {
		t.Errorf("cache leaked snapshot mutation: %q", again[0].ID)
	}
}
