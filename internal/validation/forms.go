package validation

import "strings"

type ContactForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"min=10,max=1000"`
}

func (f *ContactForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)
}

type CheckoutForm struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"required,max=500"`
	ContactNumber   string `json:"contactNumber" validate:"required,max=20"`
}

func (f *CheckoutForm) trim() {
	f.DeliveryAddress = strings.TrimSpace(f.DeliveryAddress)
	f.ContactNumber = strings.TrimSpace(f.ContactNumber)
}

type SignUpForm struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

func (f *SignUpForm) trim() {
	f.Email = strings.TrimSpace(f.Email)
}

type SignInForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f *SignInForm) trim() {
	f.Email = strings.TrimSpace(f.Email)
}

// AddToCartForm treats an omitted quantity as one unit.
type AddToCartForm struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

func (f *AddToCartForm) trim() {
	f.ProductID = strings.TrimSpace(f.ProductID)
	if f.Quantity == 0 {
		f.Quantity = 1
	}
}

type QuantityForm struct {
	Quantity int `json:"quantity"`
}

type ProductForm struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Price       float64  `json:"price" validate:"gt=0"`
	SalePrice   *float64 `json:"salePrice" validate:"omitempty,gt=0"`
	IsOnSale    bool     `json:"isOnSale"`
	IsFeatured  bool     `json:"isFeatured"`
	Stock       int      `json:"stock" validate:"gte=0"`
	CategoryID  *string  `json:"categoryId" validate:"omitempty,uuid"`
	VendorID    *string  `json:"vendorId" validate:"omitempty,uuid"`
}

func (f *ProductForm) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.CategoryID = blankToNil(f.CategoryID)
	f.VendorID = blankToNil(f.VendorID)
}

type StatusForm struct {
	Status string `json:"status" validate:"required,oneof=Confirmed Processing Shipped Delivered Cancelled"`
}

func (f *StatusForm) trim() {
	f.Status = strings.TrimSpace(f.Status)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
