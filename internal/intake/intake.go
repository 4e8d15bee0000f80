// Package intake turns raw form values into a validated model.Input.
package intake

import (
	"math"
	"strconv"
	"strings"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
)

// RawInput carries form values exactly as the user typed them.
type RawInput struct {
	Name          string
	Category      string
	Price         string
	Quantity      string
	MonthlyDemand string
	RestockTime   string
}

// Parse converts raw into a typed input, validates it and collects advisory
// warnings. A blank numeric field reads as zero and is then judged by the
// validation rules.
func Parse(raw RawInput) (model.Input, []string, error) {
	in := model.Input{
		Name:     strings.TrimSpace(raw.Name),
		Category: strings.TrimSpace(raw.Category),
	}
	// required text fields are checked before any number is parsed
	if in.Name == "" || in.Category == "" {
		return model.Input{}, nil, in.Validate()
	}
	var err error
	if in.Price, err = number("price", "Price", raw.Price); err != nil {
		return model.Input{}, nil, err
	}
	if in.Quantity, err = whole("quantity", "Quantity", raw.Quantity); err != nil {
		return model.Input{}, nil, err
	}
	if in.MonthlyDemand, err = number("monthlyDemand", "Monthly demand", raw.MonthlyDemand); err != nil {
		return model.Input{}, nil, err
	}
	if in.RestockTime, err = number("restockTime", "Restock time", raw.RestockTime); err != nil {
		return model.Input{}, nil, err
	}
	if err := in.Validate(); err != nil {
		return model.Input{}, nil, err
	}
	return in, in.Advisories(), nil
}

func number(field, label, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &model.ValidationError{Field: field, Reason: label + " must be a number", Kind: model.ErrNotANumber}
	}
	return v, nil
}

func whole(field, label, s string) (int, error) {
	v, err := number(field, label, s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &model.ValidationError{Field: field, Reason: label + " must be a whole number", Kind: model.ErrQuantityNotWhole}
	}
	if v > math.MaxInt32 {
		return 0, &model.ValidationError{Field: field, Reason: label + " is too large", Kind: model.ErrQuantityTooLarge}
	}
	if v < math.MinInt32 {
		// still negative; let Validate report it
		return -1, nil
	}
	return int(v), nil
}
