package coc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// InsufficientStockError is returned when a consumption cannot be fully
// covered by the material pool. Nothing is deducted when it is returned.
type InsufficientStockError struct {
	Material  string
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %s, available %s, short by %s",
		e.Material, e.Requested.String(), e.Available.String(), e.Shortfall.String())
}

// Unwrap lets errors.Is match shared.ErrInsufficientStock
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// InsufficientMaterialsError is returned when a production request fails
// validation for one or more materials.
type InsufficientMaterialsError struct {
	Shortages []Shortage
}

func (e *InsufficientMaterialsError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (required %s, available %s)",
			s.Material, s.Required.String(), s.Available.String()))
	}
	return "insufficient materials: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match shared.ErrInsufficientMaterials
func (e *InsufficientMaterialsError) Unwrap() error {
	return shared.ErrInsufficientMaterials
}
