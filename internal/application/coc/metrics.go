package coc

import (
	"context"

	"github.com/shopspring/decimal"
)

// Outcome labels shared by the metric recorders
const (
	OutcomeFull         = "full"
	OutcomePartial      = "partial"
	OutcomeInsufficient = "insufficient"
	OutcomeFailed       = "failed"
	OutcomeInserted     = "inserted"
	OutcomeUpdated      = "updated"
	OutcomeDuplicate    = "duplicate"
	OutcomeRecorded     = "recorded"
)

// AllocationMetrics records allocation, sync and production outcomes
type AllocationMetrics interface {
	RecordConsumption(ctx context.Context, material, outcome string, quantity decimal.Decimal, lotsTouched int)
	RecordSyncRecords(ctx context.Context, outcome string, count int)
	RecordProduction(ctx context.Context, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) RecordConsumption(context.Context, string, string, decimal.Decimal, int) {}
func (noopMetrics) RecordSyncRecords(context.Context, string, int)                         {}
func (noopMetrics) RecordProduction(context.Context, string)                               {}
