package domain

var defaultProducts = []Product{
	{ID: "gas", Name: "Botijão de Gás P13", Quantity: 2, Price: "R$ 120,00", ImageRef: "assets/images/gas.jpg"},
	{ID: "agua", Name: "Galão de Água 20L", Quantity: 10, Price: "R$ 15,00", ImageRef: "assets/images/agua.jpg"},
	{ID: "carvao", Name: "Carvão 3kg", Quantity: 8, Price: "R$ 22,90", ImageRef: "assets/images/carvao.jpg"},
	{ID: "gelo", Name: "Saco de Gelo 5kg", Quantity: 15, Price: "R$ 12,00", ImageRef: "assets/images/gelo.jpg"},
	{ID: "refrigerante", Name: "Refrigerante 2L", Quantity: 24, Price: "R$ 9,50", ImageRef: "assets/images/refrigerante.jpg"},
	{ID: "cerveja", Name: "Cerveja Lata 350ml", Quantity: 48, Price: "R$ 4,50", ImageRef: "assets/images/cerveja.jpg"},
	{ID: "arroz", Name: "Arroz 5kg", Quantity: 6, Price: "R$ 27,90", ImageRef: "assets/images/arroz.jpg"},
	{ID: "feijao", Name: "Feijão Carioca 1kg", Quantity: 12, Price: "R$ 8,99", ImageRef: "assets/images/feijao.jpg"},
	{ID: "oleo", Name: "Óleo de Soja 900ml", Quantity: 9, Price: "R$ 7,49", ImageRef: "assets/images/oleo.jpg"},
	{ID: "acucar", Name: "Açúcar Cristal 1kg", Quantity: 0, Price: "R$ 5,29", ImageRef: "assets/images/acucar.jpg"},
	{ID: "cafe", Name: "Café Torrado 500g", Quantity: 5, Price: "R$ 18,90", ImageRef: "assets/images/cafe.jpg"},
}

// DefaultProducts returns a fresh copy of the built-in catalog used when no
// persisted snapshot exists.
func DefaultProducts() []Product {
	return CloneProducts(defaultProducts)
}
