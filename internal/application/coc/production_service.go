package coc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a production entry key stays reserved
const DefaultIdempotencyTTL = 24 * time.Hour

// ProductionConfig configures production entry
type ProductionConfig struct {
	DefaultCellsPerModule int
	IdempotencyTTL        time.Duration
}

// ProductionService records production and consumes its raw material
type ProductionService struct {
	txScope         TransactionScope
	lotRepo         coc.LotRepository
	consumptionRepo coc.ConsumptionRepository
	productionRepo  coc.ProductionRepository
	companyRepo     coc.CompanyRepository
	idempotency     shared.IdempotencyStore
	allocator       *Allocator
	cfg             ProductionConfig
	metrics         AllocationMetrics
	logger          *zap.Logger
}

// NewProductionService creates a new ProductionService.
// idempotency may be nil, in which case keys are ignored.
func NewProductionService(
	txScope TransactionScope,
	lotRepo coc.LotRepository,
	consumptionRepo coc.ConsumptionRepository,
	productionRepo coc.ProductionRepository,
	companyRepo coc.CompanyRepository,
	idempotency shared.IdempotencyStore,
	allocator *Allocator,
	cfg ProductionConfig,
	logger *zap.Logger,
) *ProductionService {
	if cfg.DefaultCellsPerModule <= 0 {
		cfg.DefaultCellsPerModule = coc.DefaultCellsPerModule
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = DefaultIdempotencyTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{
		txScope:         txScope,
		lotRepo:         lotRepo,
		consumptionRepo: consumptionRepo,
		productionRepo:  productionRepo,
		companyRepo:     companyRepo,
		idempotency:     idempotency,
		allocator:       allocator,
		cfg:             cfg,
		metrics:         noopMetrics{},
		logger:          logger,
	}
}

// SetMetrics sets the metrics recorder
func (s *ProductionService) SetMetrics(m AllocationMetrics) {
	if m != nil {
		s.metrics = m
	}
}

// CheckMaterials reports whether the pool can cover a production plan.
// It reads without locking and changes nothing.
func (s *ProductionService) CheckMaterials(ctx context.Context, plan ProductionPlan) (*MaterialCheckResponse, error) {
	if plan.DayProduction < 0 || plan.NightProduction < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "production counts cannot be negative")
	}
	total := plan.DayProduction + plan.NightProduction
	if total == 0 {
		return &MaterialCheckResponse{
			Valid:      true,
			CanProceed: true,
			Materials:  make([]MaterialCheckDetail, 0),
			Warnings:   make([]MaterialWarning, 0),
			Message:    "No production quantity entered",
		}, nil
	}

	cells, err := s.cellsPerModule(ctx, plan.CompanyName, plan.CellsPerModule, false)
	if err != nil {
		return nil, err
	}
	reqs := coc.RequirementsForProduction(total, cells)
	availability, err := s.lotRepo.AvailabilityByMaterial(ctx, coc.MaterialNames(reqs))
	if err != nil {
		return nil, err
	}

	resp := &MaterialCheckResponse{
		Valid:           true,
		TotalProduction: total,
		CellsPerModule:  cells,
		Materials:       make([]MaterialCheckDetail, 0, len(reqs)),
		Warnings:        make([]MaterialWarning, 0),
	}
	for _, req := range reqs {
		a := availability[req.Material]
		detail := MaterialCheckDetail{
			Material:       req.Material,
			Required:       req.Quantity,
			Available:      a.Available,
			TotalReceived:  a.TotalReceived,
			TotalConsumed:  a.TotalConsumed,
			LotCount:       a.LotCount,
			IsSufficient:   a.Available.GreaterThanOrEqual(req.Quantity),
			RemainingAfter: decimal.Zero,
			Shortage:       decimal.Zero,
		}
		switch {
		case detail.IsSufficient:
			detail.RemainingAfter = a.Available.Sub(req.Quantity)
		case a.LotCount == 0:
			detail.Shortage = req.Quantity
			resp.Warnings = append(resp.Warnings, MaterialWarning{
				Type:     WarningNoCOC,
				Material: req.Material,
				Message:  fmt.Sprintf("No COC available for %s", req.Material),
			})
		default:
			detail.Shortage = req.Quantity.Sub(a.Available)
			resp.Warnings = append(resp.Warnings, MaterialWarning{
				Type:     WarningInsufficient,
				Material: req.Material,
				Message: fmt.Sprintf("Insufficient %s: required %s, available %s",
					req.Material, req.Quantity.String(), a.Available.String()),
			})
		}
		if !detail.IsSufficient {
			resp.Valid = false
		}
		resp.Materials = append(resp.Materials, detail)
	}

	resp.CanProceed = resp.Valid
	if resp.Valid {
		resp.Message = fmt.Sprintf("All materials available for %d modules", total)
	} else {
		resp.Message = fmt.Sprintf("%d material(s) short for %d modules", len(resp.Warnings), total)
	}
	return resp, nil
}

// Record creates a production record and consumes its materials.
//
// Every required material is locked, validated and drawn inside one
// transaction together with the record itself. If any material is short,
// nothing is persisted and a *coc.InsufficientMaterialsError is returned.
func (s *ProductionService) Record(ctx context.Context, cmd RecordProductionCommand) (*ProductionResult, error) {
	if cmd.DayProduction < 0 || cmd.NightProduction < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "production counts cannot be negative")
	}
	total := cmd.DayProduction + cmd.NightProduction
	if total == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "No production quantity entered")
	}
	productionDate, err := ParseDate(cmd.ProductionDate)
	if err != nil {
		return nil, err
	}
	productionDate = truncateDay(productionDate)

	cells, err := s.cellsPerModule(ctx, cmd.CompanyName, cmd.CellsPerModule, true)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key != "" && s.idempotency != nil {
		reserved, err := s.idempotency.Reserve(ctx, idempotencyKey(key), s.cfg.IdempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !reserved {
			s.metrics.RecordProduction(ctx, OutcomeDuplicate)
			return nil, shared.ErrDuplicateRequest
		}
	}

	reqs := coc.RequirementsForProduction(total, cells)
	result, err := s.recordInTx(ctx, cmd, productionDate, reqs)
	if err != nil {
		if key != "" && s.idempotency != nil {
			if relErr := s.idempotency.Release(ctx, idempotencyKey(key)); relErr != nil {
				s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
		}
		outcome := OutcomeFailed
		if errors.Is(err, shared.ErrInsufficientMaterials) {
			outcome = OutcomeInsufficient
		}
		s.metrics.RecordProduction(ctx, outcome)
		return nil, err
	}

	s.metrics.RecordProduction(ctx, OutcomeRecorded)
	for _, c := range result.Consumption {
		s.metrics.RecordConsumption(ctx, c.Material, OutcomeFull, c.Consumed, len(c.ConsumedFrom))
	}
	s.logger.Info("Production recorded",
		zap.String("record_id", result.Record.ID.String()),
		zap.String("company", result.Record.CompanyName),
		zap.String("lot_number", result.Record.LotNumber),
		zap.Int("modules", total),
	)
	return result, nil
}

func (s *ProductionService) recordInTx(ctx context.Context, cmd RecordProductionCommand, productionDate time.Time, reqs []coc.MaterialRequirement) (*ProductionResult, error) {
	var result *ProductionResult
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Materials are locked in name order so concurrent entries lock in the same order.
		locked := make(map[string][]coc.MaterialLot, len(reqs))
		available := make(map[string]decimal.Decimal, len(reqs))
		for _, name := range coc.MaterialNames(reqs) {
			lots, err := repos.LotRepo().LockAvailableByMaterial(ctx, name)
			if err != nil {
				return err
			}
			locked[name] = lots
			available[name] = coc.TotalAvailable(lots)
		}

		validation, err := coc.EvaluateRequirements(reqs, available)
		if err != nil {
			return err
		}
		if !validation.Valid {
			return &coc.InsufficientMaterialsError{Shortages: validation.Insufficient}
		}

		record, err := coc.NewProductionRecord(cmd.CompanyName, productionDate, cmd.DayProduction, cmd.NightProduction, cmd.LotNumber)
		if err != nil {
			return err
		}
		if err := repos.ProductionRepo().Create(ctx, record); err != nil {
			return err
		}

		consumption := make([]ConsumeResult, 0, len(reqs))
		for _, req := range reqs {
			if !req.Quantity.IsPositive() {
				continue
			}
			res, err := s.allocator.drawFrom(ctx, repos, ConsumeCommand{
				CompanyName:        record.CompanyName,
				MaterialName:       req.Material,
				Quantity:           req.Quantity,
				ProductionDate:     productionDate,
				LotLabel:           record.LotNumber,
				ProductionRecordID: &record.ID,
			}, locked[req.Material])
			if err != nil {
				return err
			}
			consumption = append(consumption, *res)
		}

		result = &ProductionResult{
			Record:      toProductionRecordResponse(record),
			Consumption: consumption,
		}
		return nil
	})
	return result, err
}

// MaterialSummary lists the lots a production record drew from
func (s *ProductionService) MaterialSummary(ctx context.Context, recordID uuid.UUID) ([]ConsumptionLineResponse, error) {
	if _, err := s.productionRepo.FindByID(ctx, recordID); err != nil {
		return nil, err
	}
	lines, err := s.consumptionRepo.FindLinesByProductionRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	out := make([]ConsumptionLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, ConsumptionLineResponse{
			Material:     l.MaterialName,
			Consumed:     l.Consumed,
			LotID:        l.LotID,
			LotReference: l.LotReference,
			Invoice:      l.InvoiceNo,
			Brand:        l.Brand,
			Date:         l.ProductionDate.Format(DateLayout),
		})
	}
	return out, nil
}

// cellsPerModule resolves the solar-cell count per module: an explicit
// override, then the company's design, then the configured default.
// When strict, an unknown company is an error.
func (s *ProductionService) cellsPerModule(ctx context.Context, companyName string, override int, strict bool) (int, error) {
	if override > 0 {
		return override, nil
	}
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		if strict {
			return 0, shared.NewDomainError("INVALID_INPUT", "company name is required")
		}
		return s.cfg.DefaultCellsPerModule, nil
	}
	company, err := s.companyRepo.FindByName(ctx, companyName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) && !strict {
			return s.cfg.DefaultCellsPerModule, nil
		}
		if errors.Is(err, shared.ErrNotFound) {
			return 0, shared.NewDomainError("NOT_FOUND", "company not found: "+companyName)
		}
		return 0, err
	}
	if company.CellsPerModule <= 0 {
		return s.cfg.DefaultCellsPerModule, nil
	}
	return company.CellsPerModule, nil
}

func idempotencyKey(key string) string {
	return "production:" + key
}

func toProductionRecordResponse(r *coc.ProductionRecord) ProductionRecordResponse {
	return ProductionRecordResponse{
		ID:              r.ID,
		CompanyName:     r.CompanyName,
		ProductionDate:  r.ProductionDate.Format(DateLayout),
		DayProduction:   r.DayProduction,
		NightProduction: r.NightProduction,
		TotalProduction: r.TotalProduction(),
		LotNumber:       r.LotNumber,
		CreatedAt:       r.CreatedAt,
	}
}
