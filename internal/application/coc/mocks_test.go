package coc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/stretchr/testify/mock"
)

// MockLotRepository is a mock implementation of coc.LotRepository
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) FindByID(ctx context.Context, id int64) (*coc.MaterialLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coc.MaterialLot), args.Error(1)
}

func (m *MockLotRepository) FindByKey(ctx context.Context, key coc.LotKey) (*coc.MaterialLot, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coc.MaterialLot), args.Error(1)
}

func (m *MockLotRepository) List(ctx context.Context, filter coc.LotFilter) ([]coc.MaterialLot, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]coc.MaterialLot), args.Get(1).(int64), args.Error(2)
}

func (m *MockLotRepository) LockAvailableByMaterial(ctx context.Context, material string) ([]coc.MaterialLot, error) {
	args := m.Called(ctx, material)
	return args.Get(0).([]coc.MaterialLot), args.Error(1)
}

func (m *MockLotRepository) FindAvailableByMaterial(ctx context.Context, material string) ([]coc.MaterialLot, error) {
	args := m.Called(ctx, material)
	return args.Get(0).([]coc.MaterialLot), args.Error(1)
}

func (m *MockLotRepository) AvailabilityByMaterial(ctx context.Context, materials []string) (map[string]coc.MaterialAvailability, error) {
	args := m.Called(ctx, materials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]coc.MaterialAvailability), args.Error(1)
}

func (m *MockLotRepository) AggregateStock(ctx context.Context, material string) ([]coc.MaterialStock, error) {
	args := m.Called(ctx, material)
	return args.Get(0).([]coc.MaterialStock), args.Error(1)
}

func (m *MockLotRepository) DistinctCompanies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLotRepository) DistinctMaterials(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLotRepository) Create(ctx context.Context, lot *coc.MaterialLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) UpsertFromFeed(ctx context.Context, lot *coc.MaterialLot) (bool, error) {
	args := m.Called(ctx, lot)
	if fn, ok := args.Get(0).(func(context.Context, *coc.MaterialLot) (bool, error)); ok {
		return fn(ctx, lot)
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockLotRepository) ApplyDraw(ctx context.Context, lotID int64, qty decimal.Decimal) error {
	args := m.Called(ctx, lotID, qty)
	return args.Error(0)
}

func (m *MockLotRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockConsumptionRepository is a mock implementation of coc.ConsumptionRepository
type MockConsumptionRepository struct {
	mock.Mock
}

func (m *MockConsumptionRepository) Create(ctx context.Context, record *coc.ConsumptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockConsumptionRepository) CreateBatch(ctx context.Context, records []*coc.ConsumptionRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockConsumptionRepository) FindByLot(ctx context.Context, lotID int64) ([]coc.ConsumptionRecord, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).([]coc.ConsumptionRecord), args.Error(1)
}

func (m *MockConsumptionRepository) FindLinesByProductionRecord(ctx context.Context, recordID uuid.UUID) ([]coc.ConsumptionLine, error) {
	args := m.Called(ctx, recordID)
	return args.Get(0).([]coc.ConsumptionLine), args.Error(1)
}

func (m *MockConsumptionRepository) SumByLot(ctx context.Context, lotID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, lotID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockProductionRepository is a mock implementation of coc.ProductionRepository
type MockProductionRepository struct {
	mock.Mock
}

func (m *MockProductionRepository) Create(ctx context.Context, record *coc.ProductionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*coc.ProductionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coc.ProductionRecord), args.Error(1)
}

// MockCompanyRepository is a mock implementation of coc.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByName(ctx context.Context, name string) (*coc.Company, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coc.Company), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// MockLotFeed is a mock implementation of LotFeed
type MockLotFeed struct {
	mock.Mock
}

func (m *MockLotFeed) FetchLots(ctx context.Context, from, to time.Time) ([]ExternalLot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ExternalLot), args.Error(1)
}

// recordingMetrics captures metric calls
type recordingMetrics struct {
	consumption []string
	sync        map[string]int
	production  []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{sync: make(map[string]int)}
}

func (r *recordingMetrics) RecordConsumption(_ context.Context, material, outcome string, _ decimal.Decimal, _ int) {
	r.consumption = append(r.consumption, material+":"+outcome)
}

func (r *recordingMetrics) RecordSyncRecords(_ context.Context, outcome string, count int) {
	r.sync[outcome] += count
}

func (r *recordingMetrics) RecordProduction(_ context.Context, outcome string) {
	r.production = append(r.production, outcome)
}

func lot(id int64, material, batch string, invoiceDate time.Time, received, consumed int64) coc.MaterialLot {
	r := decimal.NewFromInt(received)
	c := decimal.NewFromInt(consumed)
	return coc.MaterialLot{
		ID:           id,
		CompanyName:  "Acme Solar",
		MaterialName: material,
		LotBatchNo:   batch,
		InvoiceNo:    "INV-" + batch,
		InvoiceQty:   r,
		ReceivedQty:  r,
		ConsumedQty:  c,
		AvailableQty: r.Sub(c),
		InvoiceDate:  invoiceDate,
		IsActive:     true,
	}
}

func jan(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value
func decEq(s string) any {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}
