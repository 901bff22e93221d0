package handlers

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits an amount may carry.
const moneyScale = 2

// registerValidators teaches gin's validator about decimal amounts. Decimals are
// validated through their string form, so tags like `money` see "12.50".
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	v.RegisterCustomTypeFunc(decimalAsString, decimal.Decimal{})
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return fmt.Errorf("failed to register money validator: %w", err)
	}
	return nil
}

func decimalAsString(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateMoney accepts non-negative amounts with at most moneyScale significant decimals;
// trailing zeros such as "10.500" are fine.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Equal(d.Round(moneyScale))
}
