package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const whatsAppBaseURL = "https://wa.me/"

// Checkout turns a purchase intent into a WhatsApp conversation with the
// shop owner. It does not touch stock.
type Checkout struct {
	Number string
}

func NewCheckout(number string) Checkout {
	return Checkout{Number: number}
}

func (c Checkout) Order(product domain.Product, qty int) (domain.Order, error) {
	if product.Quantity <= 0 {
		return domain.Order{}, domain.ErrOutOfStock
	}
	if qty < 1 {
		return domain.Order{}, fmt.Errorf("%w: must be at least 1", domain.ErrInvalidQuantity)
	}
	if qty > product.Quantity {
		return domain.Order{}, fmt.Errorf("%w: only %d available", domain.ErrInsufficientStock, product.Quantity)
	}

	order := domain.Order{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    qty,
		UnitPrice:   product.Price,
		Channel:     domain.OrderChannelWhatsApp,
	}
	if unit, err := domain.ParsePrice(product.Price); err == nil {
		total := unit.Mul(decimal.NewFromInt(int64(qty)))
		order.Total = &total
	}

	order.Message = buildMessage(order)
	order.URL = whatsAppBaseURL + c.Number + "?text=" + encodeText(order.Message)
	return order, nil
}

func buildMessage(o domain.Order) string {
	plural := ""
	if o.Quantity > 1 {
		plural = "s"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá! 👋\n\nGostaria de comprar %d %s%s\n\n", o.Quantity, o.ProductName, plural)
	fmt.Fprintf(&b, "Preço unitário: %s\n\n", o.UnitPrice)
	if o.Total != nil && o.Quantity > 1 {
		fmt.Fprintf(&b, "Total: %s\n\n", domain.FormatPrice(*o.Total))
	}
	b.WriteString("Poderia me ajudar com essa compra? 😊")
	return b.String()
}

// encodeText escapes like encodeURIComponent: spaces become %20, not +.
func encodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
