package handler

import (
	"context"

	"github.com/google/uuid"
	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct{ mock.Mock }

func (m *mockLedger) ListLots(ctx context.Context, filter appcoc.LotListFilter) ([]appcoc.LotResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]appcoc.LotResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockLedger) Companies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockLedger) Materials(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockLedger) LotConsumption(ctx context.Context, lotID int64) (*appcoc.LotConsumptionResponse, error) {
	args := m.Called(ctx, lotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcoc.LotConsumptionResponse), args.Error(1)
}

func (m *mockLedger) DeactivateLot(ctx context.Context, lotID int64) error {
	return m.Called(ctx, lotID).Error(0)
}

type mockStock struct{ mock.Mock }

func (m *mockStock) GetStock(ctx context.Context, query appcoc.StockQuery) ([]appcoc.MaterialStockResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]appcoc.MaterialStockResponse), args.Error(1)
}

type mockValidator struct{ mock.Mock }

func (m *mockValidator) Validate(ctx context.Context, reqs []coc.MaterialRequirement) (*appcoc.ValidationResponse, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcoc.ValidationResponse), args.Error(1)
}

type mockSyncer struct{ mock.Mock }

func (m *mockSyncer) Sync(ctx context.Context, cmd appcoc.SyncCommand) (*appcoc.SyncResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcoc.SyncResult), args.Error(1)
}

type mockConsumer struct{ mock.Mock }

func (m *mockConsumer) Consume(ctx context.Context, cmd appcoc.ConsumeCommand) (*appcoc.ConsumeResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcoc.ConsumeResult), args.Error(1)
}

type mockProduction struct{ mock.Mock }

func (m *mockProduction) CheckMaterials(ctx context.Context, plan appcoc.ProductionPlan) (*appcoc.MaterialCheckResponse, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcoc.MaterialCheckResponse), args.Error(1)
}

func (m *mockProduction) Record(ctx context.Context, cmd appcoc.RecordProductionCommand) (*appcoc.ProductionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcoc.ProductionResult), args.Error(1)
}

func (m *mockProduction) MaterialSummary(ctx context.Context, recordID uuid.UUID) ([]appcoc.ConsumptionLineResponse, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appcoc.ConsumptionLineResponse), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
