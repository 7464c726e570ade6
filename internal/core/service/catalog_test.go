package service

import (
	"testing"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryCatalog_SearchIgnoresAccentsAndCase(t *testing.T) {
	page := QueryCatalog(domain.DefaultProducts(), CatalogQuery{Search: "ACUCAR"})
	if page.Total != 1 || page.Items[0].ID != "acucar" {
		t.Errorf("expected acucar, got %v", ids(page.Items))
	}

	page = QueryCatalog(domain.DefaultProducts(), CatalogQuery{Search: "feijão"})
	if page.Total != 1 || page.Items[0].ID != "feijao" {
		t.Errorf("expected feijao, got %v", ids(page.Items))
	}
}

func TestQueryCatalog_Sort(t *testing.T) {
	products := []domain.Product{
		{ID: "b", Name: "Banana", Quantity: 5, Price: "R$ 10,00"},
		{ID: "c", Name: "Caqui", Quantity: 1, Price: "sob consulta"},
		{ID: "a", Name: "Abacate", Quantity: 9, Price: "R$ 1.200,00"},
	}

	cases := map[string][]string{
		"":               {"b", "c", "a"},
		SortName:         {"a", "b", "c"},
		SortNameDesc:     {"c", "b", "a"},
		SortQuantity:     {"c", "b", "a"},
		SortQuantityDesc: {"a", "b", "c"},
		SortPrice:        {"b", "a", "c"},
		SortPriceDesc:    {"a", "b", "c"},
	}

	for key, want := range cases {
		got := ids(QueryCatalog(products, CatalogQuery{Sort: key}).Items)
		if !equalIDs(got, want) {
			t.Errorf("sort %q: expected %v, got %v", key, want, got)
		}
	}

	if products[0].ID != "b" {
		t.Error("QueryCatalog must not reorder its input")
	}
}

func TestQueryCatalog_Pagination(t *testing.T) {
	products := domain.DefaultProducts()

	page := QueryCatalog(products, CatalogQuery{Page: 2, PageSize: 4})
	if page.TotalPages != 3 || page.Total != 11 {
		t.Fatalf("expected 3 pages of 11 items, got %+v", page)
	}
	if !equalIDs(ids(page.Items), []string{"refrigerante", "cerveja", "arroz", "feijao"}) {
		t.Errorf("unexpected page 2: %v", ids(page.Items))
	}

	last := QueryCatalog(products, CatalogQuery{Page: 99, PageSize: 4})
	if last.Page != 3 || len(last.Items) != 3 {
		t.Errorf("expected clamped last page with 3 items, got page %d with %d", last.Page, len(last.Items))
	}

	empty := QueryCatalog(products, CatalogQuery{Search: "nada disso"})
	if empty.Total != 0 || empty.Page != 1 || empty.TotalPages != 1 || len(empty.Items) != 0 {
		t.Errorf("unexpected empty page: %+v", empty)
	}

	def := QueryCatalog(products, CatalogQuery{})
	if def.PageSize != DefaultCatalogPageSize || len(def.Items) != 11 {
		t.Errorf("expected default page size, got %+v", def)
	}
}
