package service

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const (
	SortName         = "name"
	SortNameDesc     = "-name"
	SortPrice        = "price"
	SortPriceDesc    = "-price"
	SortQuantity     = "quantity"
	SortQuantityDesc = "-quantity"

	DefaultCatalogPageSize = 12
)

type CatalogQuery struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

type CatalogPage struct {
	Items      []domain.Product `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// QueryCatalog filters, sorts and paginates products without modifying the
// input slice. An empty Sort keeps the snapshot order.
func QueryCatalog(products []domain.Product, q CatalogQuery) CatalogPage {
	needle := fold(q.Search)
	items := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(fold(p.Name), needle) || strings.Contains(fold(p.ID), needle) {
			items = append(items, p)
		}
	}

	sortProducts(items, q.Sort)

	size := q.PageSize
	if size <= 0 {
		size = DefaultCatalogPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := min(start+size, total)

	return CatalogPage{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: pages,
	}
}

func sortProducts(items []domain.Product, key string) {
	desc := strings.HasPrefix(key, "-")
	var less func(a, b domain.Product) bool

	switch strings.TrimPrefix(key, "-") {
	case SortName:
		less = func(a, b domain.Product) bool { return fold(a.Name) < fold(b.Name) }
	case SortQuantity:
		less = func(a, b domain.Product) bool { return a.Quantity < b.Quantity }
	case SortPrice:
		// unparsable prices always go last, whatever the direction
		sort.SliceStable(items, func(i, j int) bool {
			pi, erri := domain.ParsePrice(items[i].Price)
			pj, errj := domain.ParsePrice(items[j].Price)
			switch {
			case erri != nil || errj != nil:
				return erri == nil && errj != nil
			case desc:
				return pi.GreaterThan(pj)
			default:
				return pi.LessThan(pj)
			}
		})
		return
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// fold lowercases s and strips diacritics so "acucar" matches "Açúcar".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
