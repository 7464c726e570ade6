package domain

import "github.com/shopspring/decimal"

type OrderChannel string

const OrderChannelWhatsApp OrderChannel = "whatsapp"

// Order is a purchase request handed off to the shop owner. The storefront
// never reserves stock for it; the owner adjusts stock after confirming.
type Order struct {
	ProductID   string           `json:"product_id"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	UnitPrice   string           `json:"unit_price"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Channel     OrderChannel     `json:"channel"`
	Message     string           `json:"message"`
	URL         string           `json:"url"`
}
