package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/port"
)

// InventoryCache owns the in-process product snapshot. In remote mode it
// sources the snapshot from the product API and reconciles server responses
// into it; in local mode it reads and writes the persisted snapshot directly.
// Every change is published to subscribers.
//
// Stock mutations in remote mode that fail with a transport error are applied
// to the local snapshot and persisted, and the remote error is still returned
// wrapped in domain.ErrLocalFallback. The success path takes the server's
// product as-is, so the two paths may disagree when the server does not move
// stock by exactly one.
type InventoryCache struct {
	remote port.RemoteStore
	local  port.SnapshotStore
	log    *logrus.Logger
	hub    *broadcaster

	mu       sync.Mutex
	mode     domain.BackendMode
	snapshot []domain.Product
	loaded   bool
}

func NewInventoryCache(remote port.RemoteStore, local port.SnapshotStore, mode domain.BackendMode, logger *logrus.Logger) *InventoryCache {
	if mode != domain.BackendLocal {
		mode = domain.BackendRemote
	}
	return &InventoryCache{
		remote:   remote,
		local:    local,
		log:      logger,
		hub:      newBroadcaster(),
		mode:     mode,
		snapshot: []domain.Product{},
	}
}

func (c *InventoryCache) Mode() domain.BackendMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Ready reports whether a snapshot has been loaded and published.
func (c *InventoryCache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Products returns a copy of the current snapshot.
func (c *InventoryCache) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CloneProducts(c.snapshot)
}

func (c *InventoryCache) Product(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := domain.IndexOf(c.snapshot, id); i >= 0 {
		return c.snapshot[i], true
	}
	return domain.Product{}, false
}

// Subscribe returns a channel that first receives the latest published
// snapshot, if any, and then every later one. The channel is closed when ctx
// is done or cancel is called.
func (c *InventoryCache) Subscribe(ctx context.Context) (<-chan []domain.Product, func()) {
	return c.hub.subscribe(ctx)
}

// Load replaces the snapshot from the configured backend. A failed remote
// fetch falls back to the persisted snapshot without failing the call.
func (c *InventoryCache) Load(ctx context.Context) {
	if c.Mode() == domain.BackendLocal {
		c.loadLocal(ctx)
		return
	}

	products, err := c.remote.FetchAll(ctx)
	if err != nil {
		c.log.WithError(err).Warn("InventoryCache: remote load failed, falling back to local snapshot")
		c.loadLocal(ctx)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked(ctx, domain.CloneProducts(products), false)
	c.log.Infof("InventoryCache: loaded %d products from remote store", len(products))
}

func (c *InventoryCache) loadLocal(ctx context.Context) {
	products := c.readPersisted(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked(ctx, products, false)
	c.log.Infof("InventoryCache: loaded %d products from local snapshot", len(products))
}

func (c *InventoryCache) readPersisted(ctx context.Context) []domain.Product {
	products, ok, err := c.local.ReadSnapshot(ctx)
	if err != nil {
		c.log.WithError(err).Warn("InventoryCache: reading local snapshot failed, using default catalog")
		return domain.DefaultProducts()
	}
	if !ok {
		c.log.Info("InventoryCache: no usable local snapshot, using default catalog")
		return domain.DefaultProducts()
	}
	return domain.CloneProducts(products)
}

func (c *InventoryCache) Increment(ctx context.Context, id string) (*domain.Product, error) {
	return c.adjust(ctx, id, domain.Increment())
}

// Decrement lowers the stock of a product by one, never below zero.
func (c *InventoryCache) Decrement(ctx context.Context, id string) (*domain.Product, error) {
	return c.adjust(ctx, id, domain.Decrement())
}

func (c *InventoryCache) SetQuantity(ctx context.Context, id string, n int) (*domain.Product, error) {
	return c.adjust(ctx, id, domain.SetTo(n))
}

// adjust returns the product as it stands after the change, or nil when the
// id is not in the snapshot and the change was a no-op.
func (c *InventoryCache) adjust(ctx context.Context, id string, adj domain.StockAdjustment) (*domain.Product, error) {
	if c.Mode() == domain.BackendLocal {
		return c.applyLocal(ctx, id, adj)
	}

	updated, err := c.remote.AdjustStock(ctx, id, adj)
	if err == nil {
		c.patch(ctx, *updated)
		return updated, nil
	}
	if !errors.Is(err, domain.ErrTransport) {
		c.log.WithError(err).WithField("product_id", id).Warnf("InventoryCache: %s rejected by remote store", adj)
		return nil, err
	}

	c.log.WithError(err).WithField("product_id", id).Warnf("InventoryCache: %s failed remotely, applying to local snapshot", adj)
	product, lerr := c.applyLocal(ctx, id, adj)
	if lerr != nil {
		return product, errors.Join(fmt.Errorf("%w: %w", domain.ErrLocalFallback, err), lerr)
	}
	return product, fmt.Errorf("%w: %w", domain.ErrLocalFallback, err)
}

func (c *InventoryCache) applyLocal(ctx context.Context, id string, adj domain.StockAdjustment) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := domain.IndexOf(c.snapshot, id)
	if i < 0 {
		c.log.WithField("product_id", id).Debugf("InventoryCache: %s on unknown product ignored", adj)
		return nil, nil
	}

	next := domain.CloneProducts(c.snapshot)
	next[i].Quantity = adj.Apply(next[i].Quantity)
	product := next[i]

	if err := c.commitLocked(ctx, next, true); err != nil {
		return &product, err
	}
	return &product, nil
}

// patch replaces the snapshot entry that has the same id as product. Unknown
// ids leave the snapshot untouched.
func (c *InventoryCache) patch(ctx context.Context, product domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := domain.IndexOf(c.snapshot, product.ID)
	if i < 0 {
		c.log.WithField("product_id", product.ID).Debug("InventoryCache: server returned a product missing from the snapshot")
		return
	}

	next := domain.CloneProducts(c.snapshot)
	next[i] = product
	c.commitLocked(ctx, next, c.mode == domain.BackendLocal)
}

// Create always goes through the remote store; there is no local-only
// creation path and no field validation on this side.
func (c *InventoryCache) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	created, err := c.remote.Create(ctx, product)
	if err != nil {
		c.log.WithError(err).WithField("product_id", product.ID).Warn("InventoryCache: create failed")
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := append(domain.CloneProducts(c.snapshot), *created)
	c.commitLocked(ctx, next, c.mode == domain.BackendLocal)
	c.log.WithField("product_id", created.ID).Info("InventoryCache: product created")
	return created, nil
}

// Update sends a partial update to the remote store and patches the snapshot
// from its response.
func (c *InventoryCache) Update(ctx context.Context, id string, p domain.ProductPatch) (*domain.Product, error) {
	updated, err := c.remote.Update(ctx, id, p)
	if err != nil {
		c.log.WithError(err).WithField("product_id", id).Warn("InventoryCache: update failed")
		return nil, err
	}
	c.patch(ctx, *updated)
	return updated, nil
}

func (c *InventoryCache) Delete(ctx context.Context, id string) error {
	if err := c.remote.Delete(ctx, id); err != nil {
		c.log.WithError(err).WithField("product_id", id).Warn("InventoryCache: delete failed")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]domain.Product, 0, len(c.snapshot))
	for _, p := range c.snapshot {
		if p.ID != id {
			next = append(next, p)
		}
	}
	c.commitLocked(ctx, next, c.mode == domain.BackendLocal)
	c.log.WithField("product_id", id).Info("InventoryCache: product deleted")
	return nil
}

// StockHistory lists stock movements recorded by the remote store, newest
// first. There is no local history.
func (c *InventoryCache) StockHistory(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	return c.remote.StockHistory(ctx, productID, limit)
}

// Reset reloads from the remote store in remote mode. In local mode it
// restores the default catalog and persists it.
func (c *InventoryCache) Reset(ctx context.Context) error {
	if c.Mode() == domain.BackendRemote {
		c.Load(ctx)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Info("InventoryCache: restoring default catalog")
	return c.commitLocked(ctx, domain.DefaultProducts(), true)
}

// SetBackendMode switches the backend and reloads the snapshot from it.
func (c *InventoryCache) SetBackendMode(ctx context.Context, mode domain.BackendMode) error {
	if mode != domain.BackendRemote && mode != domain.BackendLocal {
		return fmt.Errorf("%w: %q", domain.ErrInvalidBackendMode, mode)
	}

	c.mu.Lock()
	prev := c.mode
	c.mode = mode
	c.mu.Unlock()

	c.log.Infof("InventoryCache: backend mode %s -> %s", prev, mode)
	c.Load(ctx)
	return nil
}

// commitLocked swaps in next as the snapshot, publishes it and optionally
// persists it. c.mu must be held so publishes keep commit order.
func (c *InventoryCache) commitLocked(ctx context.Context, next []domain.Product, persist bool) error {
	c.snapshot = next
	c.loaded = true
	c.hub.publish(next)

	if !persist {
		return nil
	}
	if err := c.local.WriteSnapshot(ctx, next); err != nil {
		c.log.WithError(err).Error("InventoryCache: persisting local snapshot failed")
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}
