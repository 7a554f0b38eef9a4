package domain

// Brand as served by /brands/.
type Brand struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"website_url"`
	LogoImage   string `json:"logo_image"`
}

// Category as served by /categories/.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ItemImage is an additional product photo.
type ItemImage struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
	Order int    `json:"order"`
}

// ItemSummary is the lightweight row served by /items/.
// Decimal fields arrive as strings ("12800.00") per the backend serializers.
type ItemSummary struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	BrandName          string  `json:"brand_name"`
	CategoryName       string  `json:"category_name"`
	Price              string  `json:"price"`
	OriginalPrice      string  `json:"original_price"`
	Condition          string  `json:"condition"`
	Size               string  `json:"size"`
	Color              string  `json:"color"`
	ImageURL           string  `json:"image_url"`
	IsAvailable        bool    `json:"is_available"`
	IsFeatured         bool    `json:"is_featured"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// Item is the full product record served by /items/{id}/.
type Item struct {
	ID                 int         `json:"id"`
	Name               string      `json:"name"`
	Brand              Brand       `json:"brand"`
	Category           Category    `json:"category"`
	Price              string      `json:"price"`
	OriginalPrice      string      `json:"original_price"`
	Description        string      `json:"description"`
	Condition          string      `json:"condition"`
	Size               string      `json:"size"`
	Color              string      `json:"color"`
	Material           string      `json:"material"`
	ImageURL           string      `json:"image_url"`
	AdditionalImages   []ItemImage `json:"additional_images"`
	IsAvailable        bool        `json:"is_available"`
	IsFeatured         bool        `json:"is_featured"`
	DiscountPercentage float64     `json:"discount_percentage"`
	CreatedAt          string      `json:"created_at"`
	UpdatedAt          string      `json:"updated_at"`
}

// Style is a curated style entry from /styles/.
type Style struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}
