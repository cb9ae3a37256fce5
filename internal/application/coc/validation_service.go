package coc

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
)

// ValidationService checks production requirements against the pooled stock.
// It reads without locking; Consume and production entry re-check under lock.
type ValidationService struct {
	lotRepo coc.LotRepository
}

// NewValidationService creates a new ValidationService
func NewValidationService(lotRepo coc.LotRepository) *ValidationService {
	return &ValidationService{lotRepo: lotRepo}
}

// Validate reports, per material, whether drawable stock covers the requirement
func (s *ValidationService) Validate(ctx context.Context, reqs []coc.MaterialRequirement) (*ValidationResponse, error) {
	availability, err := s.lotRepo.AvailabilityByMaterial(ctx, coc.MaterialNames(reqs))
	if err != nil {
		return nil, err
	}

	result, err := coc.EvaluateRequirements(reqs, availableQuantities(availability))
	if err != nil {
		return nil, err
	}
	return &ValidationResponse{
		Valid:        result.Valid,
		Insufficient: toShortageResponses(result.Insufficient),
	}, nil
}

func availableQuantities(availability map[string]coc.MaterialAvailability) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(availability))
	for name, a := range availability {
		out[name] = a.Available
	}
	return out
}
