package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator with the custom rules
// registered
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("riskfraction", validateRiskFraction)
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// validateRiskFraction accepts a fraction in (0, 1] with at most four
// decimal places. Decimal arithmetic avoids float noise on values like
// 0.0001.
func validateRiskFraction(fl validator.FieldLevel) bool {
	value := fl.Field().Float()
	d := decimal.NewFromFloat(value)

	if d.LessThanOrEqual(decimal.Zero) || d.GreaterThan(decimal.NewFromInt(1)) {
		return false
	}
	return d.Round(4).Equal(d)
}
