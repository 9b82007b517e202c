package product

import (
	"reflect"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError lists every rule an admin input violated.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// CreateInput holds the fields accepted when creating a product.
type CreateInput struct {
	Name        string          `validate:"notblank"`
	Description string          `validate:"notblank"`
	Price       decimal.Decimal `validate:"gt=0"`
	CategoryID  int64           `validate:"gt=0"`
	Stock       int             `validate:"gte=0"`
	ImageURL    string
}

// UpdateInput holds a partial product update. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string          `validate:"omitnil,notblank"`
	Description *string          `validate:"omitnil,notblank"`
	Price       *decimal.Decimal `validate:"omitnil,gt=0"`
	CategoryID  *int64           `validate:"omitnil,gt=0"`
	Stock       *int             `validate:"omitnil,gte=0"`
	ImageURL    *string
}

// Apply copies the provided fields onto p.
func (in UpdateInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.ImageURL != nil && *in.ImageURL != "" {
		p.ImageURL = *in.ImageURL
	}
}

// CreateCategoryInput holds the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string `validate:"notblank"`
	Description string
}

// fieldMessages maps struct fields to the message reported when they fail.
var fieldMessages = map[string]string{
	"CreateInput.Name":         "Product name is required",
	"CreateInput.Description":  "Product description is required",
	"CreateInput.Price":        "Valid product price is required (must be greater than 0)",
	"CreateInput.CategoryID":   "Product category is required",
	"CreateInput.Stock":        "Valid stock quantity is required (must be 0 or greater)",
	"UpdateInput.Name":         "Product name is required",
	"UpdateInput.Description":  "Product description is required",
	"UpdateInput.Price":        "Valid product price is required (must be greater than 0)",
	"UpdateInput.CategoryID":   "Product category is required",
	"UpdateInput.Stock":        "Valid stock quantity is required (must be 0 or greater)",
	"CreateCategoryInput.Name": "Category name is required",
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
}

// validateNotBlank rejects empty and whitespace-only strings.
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// decimalValue lets numeric tags such as gt=0 compare decimal fields.
func decimalValue(v reflect.Value) any {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.InexactFloat64()
}

// Validate checks in against the admin input rules. It returns a
// *ValidationError when any rule fails.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate")
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.StructNamespace()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		verr.Messages = append(verr.Messages, msg)
	}
	return verr
}
