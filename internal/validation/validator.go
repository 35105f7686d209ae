package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

var ErrMalformedBody = errors.New("malformed request body")

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// messages are keyed by "<json field>.<tag>".
var messages = map[string]string{
	"name.required":            "Name is required",
	"email.required":           "Email is required",
	"email.email":              "Invalid email address",
	"subject.required":         "Subject is required",
	"message.min":              "Message must be at least 10 characters",
	"deliveryAddress.required": "Delivery address is required",
	"contactNumber.required":   "Contact number is required",
	"password.min":             "Password must be at least 6 characters",
	"password.required":        "Password is required",
	"confirmPassword.eqfield":  "Passwords do not match",
	"productId.required":       "Product is required",
	"productId.uuid":           "Invalid product id",
	"quantity.min":             "Quantity must be at least 1",
	"price.gt":                 "Price must be greater than 0",
	"salePrice.gt":             "Sale price must be greater than 0",
	"salePrice.ltfield":        "Sale price must be lower than the price",
	"stock.gte":                "Stock cannot be negative",
	"status.oneof":             "Status must be one of Confirmed, Processing, Shipped, Delivered, Cancelled",
}

type trimmer interface {
	trim()
}

type Validator struct {
	v *validatorv10.Validate
}

// New returns a validator that reports fields by their JSON names.
func New() *Validator {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(productStructValidation, ProductForm{})
	return &Validator{v: v}
}

// sale price, when given, has to undercut the regular price
func productStructValidation(sl validatorv10.StructLevel) {
	f := sl.Current().Interface().(ProductForm)
	if f.SalePrice != nil && *f.SalePrice > 0 && *f.SalePrice >= f.Price {
		sl.ReportError(f.SalePrice, "salePrice", "SalePrice", "ltfield", "price")
	}
}

// Check trims form when it supports it and validates it. A failure is always FieldErrors.
func (v *Validator) Check(form any) error {
	if t, ok := form.(trimmer); ok {
		t.trim()
	}

	err := v.v.Struct(form)
	if err == nil {
		return nil
	}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := FieldErrors{}
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe)
	}
	return out
}

// Decode reads a JSON body into form and validates it.
func (v *Validator) Decode(r io.Reader, form any) error {
	if err := json.NewDecoder(r).Decode(form); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return v.Check(form)
}

func message(fe validatorv10.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "uuid":
		return fe.Field() + " must be a valid id"
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
