package coc

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerService exposes read access to lots and their consumption history
type LedgerService struct {
	lotRepo         coc.LotRepository
	consumptionRepo coc.ConsumptionRepository
	logger          *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(lotRepo coc.LotRepository, consumptionRepo coc.ConsumptionRepository, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		lotRepo:         lotRepo,
		consumptionRepo: consumptionRepo,
		logger:          logger,
	}
}

// ListLots lists lots newest invoice first
func (s *LedgerService) ListLots(ctx context.Context, filter LotListFilter) ([]LotResponse, int64, error) {
	f := coc.LotFilter{
		CompanyName:  strings.TrimSpace(filter.CompanyName),
		MaterialName: strings.TrimSpace(filter.MaterialName),
		Pagination:   shared.NewPagination(filter.Page, filter.PageSize),
	}
	if filter.FromDate != "" {
		from, err := ParseDate(filter.FromDate)
		if err != nil {
			return nil, 0, err
		}
		f.FromDate = &from
	}
	if filter.ToDate != "" {
		to, err := ParseDate(filter.ToDate)
		if err != nil {
			return nil, 0, err
		}
		f.ToDate = &to
	}
	if f.FromDate != nil && f.ToDate != nil && f.FromDate.After(*f.ToDate) {
		return nil, 0, shared.NewDomainError("INVALID_INPUT", "from_date must not be after to_date")
	}

	lots, total, err := s.lotRepo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LotResponse, 0, len(lots))
	for i := range lots {
		out = append(out, ToLotResponse(&lots[i]))
	}
	return out, total, nil
}

// Companies lists the companies that hold active lots
func (s *LedgerService) Companies(ctx context.Context) ([]string, error) {
	return s.lotRepo.DistinctCompanies(ctx)
}

// Materials lists the materials of active lots
func (s *LedgerService) Materials(ctx context.Context) ([]string, error) {
	return s.lotRepo.DistinctMaterials(ctx)
}

// LotConsumption returns a lot with every draw made against it
func (s *LedgerService) LotConsumption(ctx context.Context, lotID int64) (*LotConsumptionResponse, error) {
	lot, err := s.lotRepo.FindByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	records, err := s.consumptionRepo.FindByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	history := make([]ConsumptionRecordResponse, 0, len(records))
	for _, r := range records {
		total = total.Add(r.ConsumedQuantity)
		history = append(history, ConsumptionRecordResponse{
			ID:                 r.ID,
			ProductionDate:     r.ProductionDate.Format(DateLayout),
			CompanyName:        r.CompanyName,
			ProductionLot:      r.ProductionLot,
			ProductionRecordID: r.ProductionRecordID,
			ConsumedQuantity:   r.ConsumedQuantity,
			CreatedAt:          r.CreatedAt,
		})
	}

	balanced := total.Equal(lot.ConsumedQty)
	if !balanced {
		s.logger.Error("Lot consumption out of balance",
			zap.Int64("lot_id", lotID),
			zap.String("consumed_qty", lot.ConsumedQty.String()),
			zap.String("history_total", total.String()),
		)
	}
	return &LotConsumptionResponse{
		Lot:           ToLotResponse(lot),
		Consumption:   history,
		TotalConsumed: total,
		Balanced:      balanced,
	}, nil
}

// DeactivateLot removes a lot from the pool. Lots are never deleted.
func (s *LedgerService) DeactivateLot(ctx context.Context, lotID int64) error {
	if err := s.lotRepo.Deactivate(ctx, lotID); err != nil {
		return err
	}
	s.logger.Info("Lot deactivated", zap.Int64("lot_id", lotID), zap.Time("at", time.Now()))
	return nil
}
