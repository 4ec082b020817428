package internal

import (
	"github.com/go-playground/validator/v10"
)

var (
	sortFields    = map[string]bool{"submittedAt": true, "overallRating": true, "createdAt": true}
	sortOrders    = map[string]bool{"asc": true, "desc": true}
	exportFormats = map[string]bool{"csv": true, "json": true, "xlsx": true}
)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("sort_field", func(fl validator.FieldLevel) bool {
		return sortFields[fl.Field().String()]
	})

	_ = v.RegisterValidation("sort_order", func(fl validator.FieldLevel) bool {
		return sortOrders[fl.Field().String()]
	})

	_ = v.RegisterValidation("export_format", func(fl validator.FieldLevel) bool {
		return exportFormats[fl.Field().String()]
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
