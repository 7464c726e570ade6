package domain

import "github.com/google/uuid"

// Product is a catalog entry. Price is kept as the display string the
// storefront shows; use ParsePrice before doing arithmetic on it.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Quantity  int    `json:"qtd"`
	Price     string `json:"preco"`
	ImageRef  string `json:"imagem"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ProductPatch carries the fields of a partial product update. Nil fields are
// left untouched.
type ProductPatch struct {
	Name     *string `json:"nome,omitempty"`
	Quantity *int    `json:"qtd,omitempty"`
	Price    *string `json:"preco,omitempty"`
	ImageRef *string `json:"imagem,omitempty"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Quantity == nil && p.Price == nil && p.ImageRef == nil
}

type Credential struct {
	Token    string
	Username string
}

type StockMovement struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	Action         string `json:"action"`
	QuantityBefore int    `json:"quantity_before"`
	QuantityAfter  int    `json:"quantity_after"`
	Username       string `json:"username,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

func NewProductID() string {
	return uuid.NewString()
}

// CloneProducts returns a copy of products that shares no backing array with
// the input.
func CloneProducts(products []Product) []Product {
	if products == nil {
		return []Product{}
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// IndexOf returns the position of the product with the given id, or -1.
func IndexOf(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
