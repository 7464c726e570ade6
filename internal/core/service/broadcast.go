package service

import (
	"context"
	"sync"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

// broadcaster fans snapshots out to subscribers. Each subscriber has a buffer
// of one; an undelivered snapshot is replaced by the newer one, so publish
// never blocks on a slow reader.
type broadcaster struct {
	mu     sync.Mutex
	latest []domain.Product
	has    bool
	subs   map[uint64]chan []domain.Product
	nextID uint64
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[uint64]chan []domain.Product)}
}

func (b *broadcaster) publish(products []domain.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = products
	b.has = true
	for _, ch := range b.subs {
		offer(ch, domain.CloneProducts(products))
	}
}

func offer(ch chan []domain.Product, products []domain.Product) {
	select {
	case ch <- products:
		return
	default:
	}
	// drop the stale pending value
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- products:
	default:
	}
}

func (b *broadcaster) subscribe(ctx context.Context) (<-chan []domain.Product, func()) {
	ch := make(chan []domain.Product, 1)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.has {
		ch <- domain.CloneProducts(b.latest)
	}
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)

	return ch, func() {
		stop()
		unsubscribe()
	}
}

func (b *broadcaster) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
