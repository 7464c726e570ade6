package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func transportErr(op string) error {
	return &domain.RemoteError{Op: op, Kind: domain.ErrTransport, Message: "connection refused"}
}

// Mock RemoteStore
type mockRemoteStore struct {
	mu        sync.Mutex
	products  []domain.Product
	err       error
	stockStep int
	token     string
	calls     int
}

func newMockRemoteStore(products []domain.Product) *mockRemoteStore {
	return &mockRemoteStore{products: domain.CloneProducts(products), stockStep: 1}
}

func (m *mockRemoteStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockRemoteStore) FetchAll(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return domain.CloneProducts(m.products), nil
}

func (m *mockRemoteStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if i := domain.IndexOf(m.products, id); i >= 0 {
		p := m.products[i]
		return &p, nil
	}
	return nil, &domain.RemoteError{Op: "get product", StatusCode: 404, Kind: domain.ErrNotFound}
}

func (m *mockRemoteStore) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if product.ID == "" || product.Name == "" {
		return nil, &domain.RemoteError{Op: "create product", StatusCode: 400, Kind: domain.ErrValidation, Message: "id e nome são obrigatórios"}
	}
	product.CreatedAt = "2026-01-01T00:00:00Z"
	m.products = append(m.products, product)
	return &product, nil
}

func (m *mockRemoteStore) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	i := domain.IndexOf(m.products, id)
	if i < 0 {
		return nil, &domain.RemoteError{Op: "update product", StatusCode: 404, Kind: domain.ErrNotFound}
	}
	if patch.Name != nil {
		m.products[i].Name = *patch.Name
	}
	if patch.Price != nil {
		m.products[i].Price = *patch.Price
	}
	p := m.products[i]
	return &p, nil
}

func (m *mockRemoteStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	if i := domain.IndexOf(m.products, id); i >= 0 {
		m.products = append(m.products[:i], m.products[i+1:]...)
	}
	return nil
}

// AdjustStock moves stock by stockStep rather than one so tests can tell the
// server-reconciled path apart from the locally computed one.
func (m *mockRemoteStore) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	i := domain.IndexOf(m.products, id)
	if i < 0 {
		return nil, &domain.RemoteError{Op: "adjust stock", StatusCode: 404, Kind: domain.ErrNotFound}
	}
	switch adj.Action {
	case domain.StockIncrement:
		m.products[i].Quantity += m.stockStep
	case domain.StockDecrement:
		m.products[i].Quantity = max(0, m.products[i].Quantity-m.stockStep)
	case domain.StockSet:
		m.products[i].Quantity = max(0, adj.Quantity)
	}
	p := m.products[i]
	return &p, nil
}

func (m *mockRemoteStore) StockHistory(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	return nil, nil
}

func (m *mockRemoteStore) Authenticate(ctx context.Context, username, password string) (domain.Credential, error) {
	if username == "admin" && password == "secret" {
		return domain.Credential{Token: "tok-123", Username: username}, nil
	}
	return domain.Credential{}, &domain.RemoteError{Op: "login", StatusCode: 401, Kind: domain.ErrUnauthorized, Message: "Credenciais inválidas"}
}

func (m *mockRemoteStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *mockRemoteStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *mockRemoteStore) ClearToken() { m.SetToken("") }

// Mock LocalStore
type memLocalStore struct {
	mu       sync.Mutex
	products []domain.Product
	has      bool
	token    string
	writes   int
	readErr  error
	writeErr error
}

func (m *memLocalStore) ReadSnapshot(ctx context.Context) ([]domain.Product, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	if !m.has {
		return nil, false, nil
	}
	return domain.CloneProducts(m.products), true, nil
}

func (m *memLocalStore) WriteSnapshot(ctx context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.products = domain.CloneProducts(products)
	m.has = true
	m.writes++
	return nil
}

func (m *memLocalStore) persisted() ([]domain.Product, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneProducts(m.products), m.writes
}

func (m *memLocalStore) LoadToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memLocalStore) SaveToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memLocalStore) ClearToken(ctx context.Context) error {
	return m.SaveToken(ctx, "")
}

func (m *memLocalStore) Close() error { return nil }

func quantityOf(t *testing.T, products []domain.Product, id string) int {
	t.Helper()
	i := domain.IndexOf(products, id)
	if i < 0 {
		t.Fatalf("product %q not in snapshot", id)
	}
	return products[i].Quantity
}
