package port

import (
	"context"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

// RemoteStore is the product API the storefront is a client of. Failures are
// reported as *domain.RemoteError values.
type RemoteStore interface {
	// FetchAll lists every product.
	FetchAll(ctx context.Context) ([]domain.Product, error)

	// Get retrieves one product by id.
	Get(ctx context.Context, id string) (*domain.Product, error)

	// Create persists a new product and returns it as stored by the server.
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)

	// Update applies a partial update and returns the resulting product.
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// AdjustStock increments, decrements or sets the stock of a product and
	// returns the product as the server sees it afterwards.
	AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (*domain.Product, error)

	// StockHistory lists recent stock movements, optionally for one product.
	StockHistory(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error)
}

// Authenticator exchanges admin credentials for a bearer token and holds the
// token attached to protected calls.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Credential, error)
	SetToken(token string)
	Token() string
	ClearToken()
}
