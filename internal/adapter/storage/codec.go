package storage

import (
	"encoding/json"
	"fmt"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

// Keys under which every backend keeps its two values.
const (
	productsKey = "products"
	tokenKey    = "auth_token"
)

// decodeSnapshot turns a stored value into a product list. Anything that is
// not a JSON array of products reports ok=false so callers fall back to the
// built-in catalogue.
func decodeSnapshot(raw []byte) ([]domain.Product, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil || products == nil {
		return nil, false
	}
	return products, true
}

func encodeSnapshot(products []domain.Product) ([]byte, error) {
	data, err := json.Marshal(domain.CloneProducts(products))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
