package cart

import (
	"time"

	"github.com/s2311-del/shopease-india-connect/internal/catalog"
)

// Line is one cart row joined with the product it refers to.
type Line struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`

	Name      string   `json:"name"`
	ImageURL  string   `json:"imageUrl"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	IsOnSale  bool     `json:"isOnSale"`
	Stock     int      `json:"stock"`
}

func (l Line) UnitPrice() float64 {
	return catalog.EffectivePrice(l.Price, l.SalePrice, l.IsOnSale)
}

func (l Line) LineTotal() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}

// Total sums the line totals with the same pricing rule checkout uses.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}

type View struct {
	Lines []LineView `json:"items"`
	Total float64    `json:"total"`
	Count int        `json:"count"`
}

type LineView struct {
	Line
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

func NewView(lines []Line) View {
	v := View{Lines: make([]LineView, 0, len(lines)), Total: Total(lines), Count: len(lines)}
	for _, l := range lines {
		v.Lines = append(v.Lines, LineView{Line: l, UnitPrice: l.UnitPrice(), LineTotal: l.LineTotal()})
	}
	return v
}
