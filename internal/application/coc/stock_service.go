package coc

import (
	"context"
	"strings"

	"github.com/solarqc/coc-backend/internal/domain/coc"
)

// StockService reports pooled stock per material
type StockService struct {
	lotRepo coc.LotRepository
}

// NewStockService creates a new StockService
func NewStockService(lotRepo coc.LotRepository) *StockService {
	return &StockService{lotRepo: lotRepo}
}

// GetStock returns stock per material in name order. Every catalog material is
// listed, with zero totals when no lots are on file.
func (s *StockService) GetStock(ctx context.Context, query StockQuery) ([]MaterialStockResponse, error) {
	material := strings.TrimSpace(query.MaterialName)
	stock, err := s.lotRepo.AggregateStock(ctx, material)
	if err != nil {
		return nil, err
	}

	complete := coc.CompleteCatalog(stock, material)
	out := make([]MaterialStockResponse, 0, len(complete))
	for _, m := range complete {
		out = append(out, MaterialStockResponse{
			Material:      m.Material,
			Make:          m.Make,
			Available:     m.Available,
			TotalReceived: m.TotalReceived,
			TotalConsumed: m.TotalConsumed,
			LotCount:      m.LotCount,
		})
	}
	return out, nil
}
