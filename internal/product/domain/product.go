package domain

// Dimensions holds the physical size of a product
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Review is a single customer review attached to a product
type Review struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
}

// Product represents a catalog product. The catalog is owned by the remote
// API; products are always re-fetched for display and never stored locally.
type Product struct {
	ID                 int         `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Price              float64     `json:"price"`
	DiscountPercentage float64     `json:"discountPercentage"`
	Rating             float64     `json:"rating"`
	Stock              int         `json:"stock"`
	Brand              string      `json:"brand"`
	Category           string      `json:"category"`
	Thumbnail          string      `json:"thumbnail"`
	Images             []string    `json:"images"`
	SKU                string      `json:"sku,omitempty"`
	Weight             float64     `json:"weight,omitempty"`
	Dimensions         *Dimensions `json:"dimensions,omitempty"`
	WarrantyInfo       string      `json:"warrantyInformation,omitempty"`
	ShippingInfo       string      `json:"shippingInformation,omitempty"`
	AvailabilityStatus string      `json:"availabilityStatus,omitempty"`
	ReturnPolicy       string      `json:"returnPolicy,omitempty"`
	Reviews            []Review    `json:"reviews,omitempty"`
}

// ProductsResponse is the remote listing envelope
type ProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// CreateProductInput is the payload for creating a catalog product
type CreateProductInput struct {
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Rating             float64  `json:"rating,omitempty"`
	Stock              int      `json:"stock,omitempty"`
	Brand              string   `json:"brand,omitempty"`
	Category           string   `json:"category,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	Images             []string `json:"images,omitempty"`
}

// UpdateProductInput is the payload for updating a catalog product; nil
// fields are left untouched by the remote API
type UpdateProductInput struct {
	Title              *string  `json:"title,omitempty"`
	Description        *string  `json:"description,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Stock              *int     `json:"stock,omitempty"`
	Brand              *string  `json:"brand,omitempty"`
	Category           *string  `json:"category,omitempty"`
}

// DeleteProductResult is the remote response to a product deletion. Per the
// remote service's semantics the deletion is simulated, not persisted.
type DeleteProductResult struct {
	ID        int  `json:"id"`
	IsDeleted bool `json:"isDeleted"`
}

// Category is a catalog category with its listing slug
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}
