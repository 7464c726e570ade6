package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeRemote stands in for the product API.
type fakeRemote struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	token    string
}

func (f *fakeRemote) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeRemote) FetchAll(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return domain.CloneProducts(f.products), nil
}

func (f *fakeRemote) Get(ctx context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := domain.IndexOf(f.products, id); i >= 0 {
		p := f.products[i]
		return &p, nil
	}
	return nil, &domain.RemoteError{Op: "get product", StatusCode: 404, Kind: domain.ErrNotFound}
}

func (f *fakeRemote) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if product.Name == "" {
		return nil, &domain.RemoteError{Op: "create product", StatusCode: 400, Kind: domain.ErrValidation, Message: "Campos obrigatórios: id, nome"}
	}
	f.products = append(f.products, product)
	return &product, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	i := domain.IndexOf(f.products, id)
	if i < 0 {
		return nil, &domain.RemoteError{Op: "update product", StatusCode: 404, Kind: domain.ErrNotFound}
	}
	if patch.Name != nil {
		f.products[i].Name = *patch.Name
	}
	p := f.products[i]
	return &p, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if i := domain.IndexOf(f.products, id); i >= 0 {
		f.products = append(f.products[:i], f.products[i+1:]...)
	}
	return nil
}

func (f *fakeRemote) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	i := domain.IndexOf(f.products, id)
	if i < 0 {
		return nil, &domain.RemoteError{Op: "adjust stock", StatusCode: 404, Kind: domain.ErrNotFound}
	}
	f.products[i].Quantity = adj.Apply(f.products[i].Quantity)
	p := f.products[i]
	return &p, nil
}

func (f *fakeRemote) StockHistory(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return []domain.StockMovement{
		{ID: "1", ProductID: productID, Action: "increment", QuantityBefore: 2, QuantityAfter: 3, Username: "admin"},
	}, nil
}

func (f *fakeRemote) Authenticate(ctx context.Context, username, password string) (domain.Credential, error) {
	if username == "admin" && password == "secret" {
		return domain.Credential{Token: "tok-123", Username: username}, nil
	}
	return domain.Credential{}, &domain.RemoteError{Op: "login", StatusCode: 401, Kind: domain.ErrUnauthorized, Message: "Credenciais inválidas"}
}

func (f *fakeRemote) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeRemote) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeRemote) ClearToken() { f.SetToken("") }

type memStore struct {
	mu       sync.Mutex
	products []domain.Product
	has      bool
	token    string
}

func (m *memStore) ReadSnapshot(ctx context.Context) ([]domain.Product, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneProducts(m.products), m.has, nil
}

func (m *memStore) WriteSnapshot(ctx context.Context, products []domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products, m.has = domain.CloneProducts(products), true
	return nil
}

func (m *memStore) LoadToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStore) SaveToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memStore) ClearToken(ctx context.Context) error { return m.SaveToken(ctx, "") }

func (m *memStore) Close() error { return nil }

type testEnv struct {
	remote  *fakeRemote
	store   *memStore
	cache   *service.InventoryCache
	session *service.SessionService
	router  *gin.Engine
}

// newTestEnv wires a loaded cache in the given mode behind the gin router.
func newTestEnv(t *testing.T, mode domain.BackendMode) *testEnv {
	t.Helper()
	logger := newTestLogger()
	env := &testEnv{
		remote: &fakeRemote{products: domain.DefaultProducts()},
		store:  &memStore{},
	}
	env.cache = service.NewInventoryCache(env.remote, env.store, mode, logger)
	env.cache.Load(context.Background())
	env.session = service.NewSessionService(env.remote, env.store, logger)

	h := NewHTTPHandler(env.cache, env.session, service.NewCheckout("5561992830960"), 0, logger)
	env.router = h.Router()
	return env
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	w := e.do("POST", "/admin/login", `{"username":"admin","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func transportErr() error {
	return &domain.RemoteError{Op: "adjust stock", Kind: domain.ErrTransport, Message: "connection refused"}
}
