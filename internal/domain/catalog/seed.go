package catalog

const unsplashParams = "?ixlib=rb-4.0.3&ixid=MnwxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8&auto=format&fit=crop&w=400&h=300"

func strPtr(s string) *string { return &s }

func unsplash(photo string) string {
	return "https://images.unsplash.com/" + photo + unsplashParams
}

// SeedProducts returns the initial storefront catalog. Every call returns a
// fresh slice.
func SeedProducts() []Product {
	return []Product{
		{
			ID:            1,
			Name:          "Premium Wireless Headphones",
			Description:   "High-quality wireless headphones with advanced noise cancellation and premium sound quality.",
			Price:         "299.99",
			OriginalPrice: strPtr("399.99"),
			Category:      "electronics",
			Rating:        strPtr("4.8"),
			Image:         unsplash("photo-1505740420928-5e560c06d30e"),
			InStock:       true,
			Featured:      true,
		},
		{
			ID:          2,
			Name:        "Latest Smartphone",
			Description: "Cutting-edge smartphone with advanced camera system and all-day battery life.",
			Price:       "899.99",
			Category:    "electronics",
			Rating:      strPtr("4.6"),
			Image:       unsplash("photo-1511707171634-5f897ff02aa9"),
			InStock:     true,
			Featured:    true,
		},
		{
			ID:          3,
			Name:        `MacBook Pro 16"`,
			Description: "Professional laptop with M2 chip, perfect for creative work and programming.",
			Price:       "2499.99",
			Category:    "electronics",
			Rating:      strPtr("4.9"),
			Image:       unsplash("photo-1496181133206-80ce9b88a853"),
			InStock:     true,
			Featured:    true,
		},
		{
			ID:            4,
			Name:          "Classic Watch",
			Description:   "Elegant timepiece with premium materials and precise movement.",
			Price:         "199.99",
			OriginalPrice: strPtr("299.99"),
			Category:      "accessories",
			Rating:        strPtr("4.2"),
			Image:         unsplash("photo-1523275335684-37898b6baf30"),
			InStock:       true,
		},
		{
			ID:          5,
			Name:        "Professional Camera",
			Description: "High-resolution camera with advanced features for professional photography.",
			Price:       "1299.99",
			Category:    "electronics",
			Rating:      strPtr("4.7"),
			Image:       unsplash("photo-1606983340126-99ab4feaa64a"),
			InStock:     true,
		},
		{
			ID:          6,
			Name:        "Gaming Keyboard",
			Description: "Mechanical keyboard with RGB lighting and premium switches for gaming.",
			Price:       "149.99",
			Category:    "electronics",
			Rating:      strPtr("4.5"),
			Image:       unsplash("photo-1541140532154-b024d705b90a"),
			InStock:     true,
		},
		{
			ID:            7,
			Name:          "Ergonomic Chair",
			Description:   "Comfortable office chair with lumbar support and adjustable height.",
			Price:         "399.99",
			OriginalPrice: strPtr("499.99"),
			Category:      "furniture",
			Rating:        strPtr("4.3"),
			Image:         unsplash("photo-1586023492125-27b2c045efd7"),
			InStock:       true,
		},
		{
			ID:          8,
			Name:        "Wireless Speaker",
			Description: "High-quality wireless speaker with excellent sound and long battery life.",
			Price:       "99.99",
			Category:    "electronics",
			Rating:      strPtr("4.8"),
			Image:       unsplash("photo-1608043152269-423dbba4e7e1"),
			InStock:     true,
		},
	}
}
