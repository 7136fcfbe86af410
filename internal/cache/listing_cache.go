package cache

import (
	"sync"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
)

// ListingCache — in-memory кэш свежего списка заказов для админки.
// Отправка заявки и смена статуса инвалидируют кэш, поэтому между записью
// и следующим чтением список не успевает устареть дольше одного запроса.
//
// Кэш версионируется счётчиком поколений: Invalidate сдвигает поколение,
// а Set принимает поколение, увиденное вызывающим на промахе. Снапшот,
// прочитанный из хранилища до инвалидации, приходит со старым поколением
// и отбрасывается — иначе он затёр бы инвалидацию и список навсегда
// остался бы устаревшим.
type ListingCache struct {
	mu     sync.RWMutex
	orders []domain.Order
	gen    uint64
	valid  bool
}

// NewListingCache создаёт пустой (инвалидированный) кэш.
func NewListingCache() *ListingCache {
	return &ListingCache{}
}

// Get возвращает закэшированный список, текущее поколение кэша и признак
// актуальности. Поколение передаётся в Set после чтения из хранилища.
func (c *ListingCache) Get() ([]domain.Order, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return nil, c.gen, false
	}
	out := make([]domain.Order, len(c.orders))
	copy(out, c.orders)
	return out, c.gen, true
}

// Set запоминает список заказов, прочитанный при поколении generation.
// Если кэш с тех пор инвалидировали, снапшот устарел и игнорируется.
func (c *ListingCache) Set(orders []domain.Order, generation uint64) {
	snapshot := make([]domain.Order, len(orders))
	copy(snapshot, orders)

	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.gen {
		return
	}
	c.orders = snapshot
	c.valid = true
}

// Invalidate сбрасывает кэш и сдвигает поколение; следующий Get вернёт промах.
func (c *ListingCache) Invalidate() {
	c.mu.Lock()
	c.orders = nil
	c.valid = false
	c.gen++
	c.mu.Unlock()
}

var _ domain.ListingCache = (*ListingCache)(nil)
