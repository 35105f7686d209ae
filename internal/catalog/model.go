package catalog

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Price       float64   `json:"price"`
	SalePrice   *float64  `json:"salePrice,omitempty"`
	IsOnSale    bool      `json:"isOnSale"`
	IsFeatured  bool      `json:"isFeatured"`
	Stock       int       `json:"stock"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	VendorID    *string   `json:"vendorId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Only set on single-product reads.
	CategoryName string  `json:"categoryName,omitempty"`
	Vendor       *Vendor `json:"vendor,omitempty"`
}

// EffectivePrice is the unit price a customer pays for p.
func (p Product) EffectivePrice() float64 {
	return EffectivePrice(p.Price, p.SalePrice, p.IsOnSale)
}

func (p Product) InStock() bool { return p.Stock > 0 }

// EffectivePrice applies the storefront pricing rule: the sale price wins only when the
// product is flagged on sale and a sale price is present.
func EffectivePrice(price float64, salePrice *float64, onSale bool) float64 {
	if onSale && salePrice != nil {
		return *salePrice
	}
	return price
}

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Vendor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logoUrl"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
}
