package viewmodel

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"toolrental-console/internal/gateway"
)

// Messages shown for client-side validation failures
const (
	MsgNameRequired         = "name is required"
	MsgCategoryRequired     = "category is required"
	MsgIdentifierRequired   = "tool identifier is required"
	MsgReplacementCost      = "replacement cost must be a number greater than 0"
	MsgPrice                = "price must be a valid number greater than 0"
	MsgStock                = "stock must be an integer greater than or equal to 0"
	MsgClientRequired       = "client is required"
	MsgToolRequired         = "tool is required"
	MsgDeliveryDateRequired = "delivery date is required"
	MsgDeliveryDateInvalid  = "delivery date must be a valid date"
	MsgReturnDateRequired   = "return date is required"
	MsgReturnDateInvalid    = "return date must be a valid date"
	MsgReturnBeforeDelivery = "return date cannot be before delivery date"
	MsgDailyFineRate        = "daily fine rate must be a number greater than 0"
	MsgLoanCannotBeReturned = "this loan can no longer be returned"
)

func invalid(msg string) error {
	return gateway.NewValidationError(msg)
}

func requiredText(v string) bool {
	return strings.TrimSpace(v) != ""
}

// positiveNumber parses v as a decimal strictly greater than zero
func positiveNumber(v string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// nonNegativeInt accepts whole numbers >= 0; "2.0" counts as 2, "2.5" does not
func nonNegativeInt(v string) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, false
	}
	return int(d.IntPart()), true
}
