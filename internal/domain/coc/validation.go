package coc

import (
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// Shortage describes a material whose pool stock does not cover a requirement
type Shortage struct {
	Material  string
	Required  decimal.Decimal
	Available decimal.Decimal
	Shortage  decimal.Decimal
}

// ValidationResult is the outcome of checking requirements against the pool
type ValidationResult struct {
	Valid        bool
	Insufficient []Shortage
}

// EvaluateRequirements checks each requirement against available pool stock.
// Materials missing from available count as zero stock. Shortages keep the
// order of reqs.
func EvaluateRequirements(reqs []MaterialRequirement, available map[string]decimal.Decimal) (*ValidationResult, error) {
	result := &ValidationResult{Insufficient: make([]Shortage, 0)}
	for _, req := range reqs {
		if req.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "required quantity for "+req.Material+" cannot be negative")
		}
		if err := CheckQuantityScale("required quantity for "+req.Material, req.Quantity); err != nil {
			return nil, err
		}
		have := available[req.Material]
		if have.LessThan(req.Quantity) {
			result.Insufficient = append(result.Insufficient, Shortage{
				Material:  req.Material,
				Required:  req.Quantity,
				Available: have,
				Shortage:  req.Quantity.Sub(have),
			})
		}
	}
	result.Valid = len(result.Insufficient) == 0
	return result, nil
}
