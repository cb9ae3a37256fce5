package coc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Allocator deducts material from the shared pool oldest invoice first.
//
// Consume is authoritative: it locks the material's lots, re-checks
// availability and writes every lot update and consumption record in one
// transaction. It never deducts more than the pool holds.
type Allocator struct {
	txScope TransactionScope
	fifo    *coc.FIFOAllocator
	metrics AllocationMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewAllocator creates a new Allocator
func NewAllocator(txScope TransactionScope, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{
		txScope: txScope,
		fifo:    coc.NewFIFOAllocator(),
		metrics: noopMetrics{},
		logger:  logger,
		now:     time.Now,
	}
}

// SetMetrics sets the metrics recorder
func (a *Allocator) SetMetrics(m AllocationMetrics) {
	if m != nil {
		a.metrics = m
	}
}

// Consume draws cmd.Quantity of cmd.MaterialName from the pool.
//
// When the pool cannot cover the quantity, nothing is written and a
// *coc.InsufficientStockError is returned, unless cmd.AllowPartial is set,
// in which case whatever is available is drawn and the result is
// PARTIALLY_SATISFIED.
func (a *Allocator) Consume(ctx context.Context, cmd ConsumeCommand) (*ConsumeResult, error) {
	cmd.MaterialName = strings.TrimSpace(cmd.MaterialName)
	if cmd.MaterialName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "material name is required")
	}
	if !cmd.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if err := coc.CheckQuantityScale("quantity", cmd.Quantity); err != nil {
		return nil, err
	}

	var result *ConsumeResult
	err := a.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().LockAvailableByMaterial(ctx, cmd.MaterialName)
		if err != nil {
			return err
		}
		result, err = a.drawFrom(ctx, repos, cmd, lots)
		return err
	})
	if err != nil {
		outcome := OutcomeFailed
		if errors.Is(err, shared.ErrInsufficientStock) {
			outcome = OutcomeInsufficient
		}
		a.metrics.RecordConsumption(ctx, cmd.MaterialName, outcome, decimal.Zero, 0)
		return nil, err
	}

	outcome := OutcomeFull
	if result.Status == StatusPartiallySatisfied {
		outcome = OutcomePartial
	}
	a.metrics.RecordConsumption(ctx, cmd.MaterialName, outcome, result.Consumed, len(result.ConsumedFrom))
	a.logger.Info("Material consumed",
		zap.String("material", cmd.MaterialName),
		zap.String("requested", cmd.Quantity.String()),
		zap.String("consumed", result.Consumed.String()),
		zap.Int("lots", len(result.ConsumedFrom)),
		zap.String("status", result.Status),
	)
	return result, nil
}

// drawFrom plans and applies a FIFO draw over lots, which the caller must
// have locked within the transaction that owns repos.
func (a *Allocator) drawFrom(ctx context.Context, repos TransactionalRepositories, cmd ConsumeCommand, lots []coc.MaterialLot) (*ConsumeResult, error) {
	plan, err := a.fifo.Plan(cmd.MaterialName, cmd.Quantity, lots)
	if err != nil {
		return nil, err
	}
	if !plan.FullySatisfied() && !cmd.AllowPartial {
		return nil, &coc.InsufficientStockError{
			Material:  cmd.MaterialName,
			Requested: cmd.Quantity,
			Available: plan.TotalDrawn,
			Shortfall: plan.Shortfall,
		}
	}

	productionDate := cmd.ProductionDate
	if productionDate.IsZero() {
		productionDate = truncateDay(a.now())
	}

	records := make([]*coc.ConsumptionRecord, 0, len(plan.Draws))
	for _, d := range plan.Draws {
		if err := repos.LotRepo().ApplyDraw(ctx, d.LotID, d.Quantity); err != nil {
			return nil, err
		}
		records = append(records, &coc.ConsumptionRecord{
			ProductionDate:     productionDate,
			CompanyName:        cmd.CompanyName,
			MaterialName:       cmd.MaterialName,
			LotID:              d.LotID,
			LotReference:       d.LotReference,
			ProductionLot:      cmd.LotLabel,
			ProductionRecordID: cmd.ProductionRecordID,
			ConsumedQuantity:   d.Quantity,
		})
	}
	if len(records) > 0 {
		if err := repos.ConsumptionRepo().CreateBatch(ctx, records); err != nil {
			return nil, err
		}
	}
	return newConsumeResult(plan), nil
}
