package fakestore

import (
	"github.com/shopspring/decimal"

	"github.com/five82/shelf/internal/catalog"
)

// FixtureProducts returns a small catalog shaped like the public store API.
func FixtureProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID:          1,
			Title:       "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
			Price:       decimal.RequireFromString("109.95"),
			Description: "Your perfect pack for everyday use and walks in the forest.",
			Image:       "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
			Category:    "men's clothing",
		},
		{
			ID:          2,
			Title:       "Mens Casual Premium Slim Fit T-Shirts",
			Price:       decimal.RequireFromString("22.3"),
			Description: "Slim-fitting style, contrast raglan long sleeve.",
			Image:       "https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg",
			Category:    "men's clothing",
		},
		{
			ID:          5,
			Title:       "John Hardy Women's Legends Naga Gold & Silver Dragon Station Chain Bracelet",
			Price:       decimal.RequireFromString("695"),
			Description: "From our Legends Collection, the Naga was inspired by the mythical water dragon.",
			Image:       "https://fakestoreapi.com/img/71pWzhdJNwL._AC_UL640_QL65_ML3_.jpg",
			Category:    "jewelery",
		},
		{
			ID:          9,
			Title:       "WD 2TB Elements Portable External Hard Drive - USB 3.0",
			Price:       decimal.RequireFromString("64"),
			Description: "USB 3.0 and USB 2.0 compatibility, fast data transfers.",
			Image:       "https://fakestoreapi.com/img/61IBBVJvSDL._AC_SY879_.jpg",
			Category:    "electronics",
		},
		{
			ID:          14,
			Title:       "Samsung 49-Inch CHG90 144Hz Curved Gaming Monitor",
			Price:       decimal.RequireFromString("999.99"),
			Description: "49 inch super ultrawide 32:9 curved gaming monitor.",
			Image:       "https://fakestoreapi.com/img/81Zt42ioCgL._AC_SX679_.jpg",
			Category:    "electronics",
		},
		{
			ID:          18,
			Title:       "MBJ Women's Solid Short Sleeve Boat Neck V",
			Price:       decimal.RequireFromString("9.85"),
			Description: "95% rayon, 5% spandex, made in USA or imported.",
			Image:       "https://fakestoreapi.com/img/71z3kpMAYsL._AC_UY879_.jpg",
			Category:    "women's clothing",
		},
	}
}

// FixtureCategories returns the category names the API lists.
func FixtureCategories() []string {
	return []string{"electronics", "jewelery", "men's clothing", "women's clothing"}
}
