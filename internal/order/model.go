package order

import "time"

type Item struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

func (it Item) LineTotal() float64 {
	return it.Price * float64(it.Quantity)
}

type Order struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	UserEmail       string    `json:"userEmail"`
	TotalPrice      float64   `json:"totalPrice"`
	DeliveryAddress string    `json:"deliveryAddress"`
	ContactNumber   string    `json:"contactNumber"`
	Status          Status    `json:"status"`
	OrderDate       time.Time `json:"orderDate"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Items           []Item    `json:"items,omitempty"`
}

// Stats feeds the admin dashboard.
type Stats struct {
	Products   int     `json:"totalProducts"`
	Orders     int     `json:"totalOrders"`
	Categories int     `json:"totalCategories"`
	Revenue    float64 `json:"totalRevenue"`
}
