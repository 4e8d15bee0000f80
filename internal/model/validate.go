package model

import (
	"errors"
	"strings"
)

// Kinds of ValidationError, matched with errors.Is.
var (
	// ErrMissingFields means name or category is blank.
	ErrMissingFields = errors.New("missing required fields")
	// ErrPriceNotPositive means price is zero or negative.
	ErrPriceNotPositive = errors.New("price not positive")
	// ErrQuantityNegative means quantity is below zero.
	ErrQuantityNegative = errors.New("quantity negative")
	// ErrQuantityNotWhole means quantity has a fractional part.
	ErrQuantityNotWhole = errors.New("quantity not a whole number")
	// ErrQuantityTooLarge means quantity does not fit the stock counter.
	ErrQuantityTooLarge = errors.New("quantity too large")
	// ErrDemandNotPositive means monthly demand is zero or negative.
	ErrDemandNotPositive = errors.New("monthly demand not positive")
	// ErrRestockNegative means restock time is below zero.
	ErrRestockNegative = errors.New("restock time negative")
	// ErrNotANumber means a numeric field held text that does not parse.
	ErrNotANumber = errors.New("not a number")
)

// ValidationError rejects an input before any item is created. Reason is the
// message shown to the user; Kind is one of the Err* sentinels above.
type ValidationError struct {
	Field  string
	Reason string
	Kind   error
}

func (e *ValidationError) Error() string { return e.Reason }

// Unwrap lets errors.Is match the sentinel kind.
func (e *ValidationError) Unwrap() error { return e.Kind }

// AdvisoryDemand is the non-blocking warning for demand far above stock.
const AdvisoryDemand = "Warning: Monthly demand is unusually high compared to stock"

// Validate applies the creation rules in order and returns the first failure.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "Please fill all required fields", Kind: ErrMissingFields}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Reason: "Please fill all required fields", Kind: ErrMissingFields}
	}
	// negated comparisons so NaN is rejected as well
	if !(in.Price > 0) {
		return &ValidationError{Field: "price", Reason: "Price must be greater than 0", Kind: ErrPriceNotPositive}
	}
	if in.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "Quantity cannot be negative", Kind: ErrQuantityNegative}
	}
	if !(in.MonthlyDemand > 0) {
		return &ValidationError{Field: "monthlyDemand", Reason: "Monthly demand must be greater than 0", Kind: ErrDemandNotPositive}
	}
	if !(in.RestockTime >= 0) {
		return &ValidationError{Field: "restockTime", Reason: "Restock time cannot be negative", Kind: ErrRestockNegative}
	}
	return nil
}

// Advisories returns the non-blocking warnings for an otherwise valid input.
func (in Input) Advisories() []string {
	if in.MonthlyDemand > float64(in.Quantity)*10 {
		return []string{AdvisoryDemand}
	}
	return nil
}
