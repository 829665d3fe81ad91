// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spendpal/internal/models"
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "BDT": true, "BGN": true, "BRL": true,
	"CAD": true, "CHF": true, "CLP": true, "CNY": true, "COP": true,
	"CZK": true, "DKK": true, "EGP": true, "EUR": true, "GBP": true,
	"HKD": true, "HUF": true, "IDR": true, "ILS": true, "INR": true,
	"JPY": true, "KES": true, "KRW": true, "LKR": true, "MAD": true,
	"MXN": true, "MYR": true, "NGN": true, "NOK": true, "NZD": true,
	"PEN": true, "PHP": true, "PKR": true, "PLN": true, "QAR": true,
	"RON": true, "RSD": true, "SAR": true, "SEK": true, "SGD": true,
	"THB": true, "TRY": true, "TWD": true, "UAH": true, "USD": true,
	"VND": true, "ZAR": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("share_direction", validateShareDirection)
		_ = v.RegisterValidation("cadence_months", validateCadenceMonths)
	}
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.IsValidCategory(models.ExpenseCategory(fl.Field().String()))
}

func validateShareDirection(fl validator.FieldLevel) bool {
	switch models.ShareDirection(fl.Field().String()) {
	case models.ShareOwedByMe, models.ShareOwedToMe:
		return true
	}
	return false
}

func validateCadenceMonths(fl validator.FieldLevel) bool {
	n := fl.Field().Int()
	return n >= models.MinCadenceMonths && n <= models.MaxCadenceMonths
}
