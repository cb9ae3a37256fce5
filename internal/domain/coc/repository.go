package coc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// LotFilter narrows lot listings
type LotFilter struct {
	CompanyName  string
	MaterialName string
	FromDate     *time.Time
	ToDate       *time.Time
	Pagination   shared.Pagination
}

// LotRepository persists material lots
type LotRepository interface {
	FindByID(ctx context.Context, id int64) (*MaterialLot, error)
	FindByKey(ctx context.Context, key LotKey) (*MaterialLot, error)
	// List returns lots newest invoice first, with the total match count
	List(ctx context.Context, filter LotFilter) ([]MaterialLot, int64, error)

	// LockAvailableByMaterial returns drawable lots in FIFO order, locking the rows
	// until the surrounding transaction ends.
	LockAvailableByMaterial(ctx context.Context, material string) ([]MaterialLot, error)
	// FindAvailableByMaterial is the unlocked variant of LockAvailableByMaterial
	FindAvailableByMaterial(ctx context.Context, material string) ([]MaterialLot, error)

	// AvailabilityByMaterial sums drawable stock of the given materials.
	// Materials with no drawable lots are absent from the result.
	AvailabilityByMaterial(ctx context.Context, materials []string) (map[string]MaterialAvailability, error)
	// AggregateStock groups all active lots by material
	AggregateStock(ctx context.Context, material string) ([]MaterialStock, error)

	DistinctCompanies(ctx context.Context) ([]string, error)
	DistinctMaterials(ctx context.Context) ([]string, error)

	Create(ctx context.Context, lot *MaterialLot) error
	// UpsertFromFeed inserts lot or refreshes the existing lot with the same key.
	// Consumed quantity is never written. Returns true when a row was inserted.
	UpsertFromFeed(ctx context.Context, lot *MaterialLot) (bool, error)
	// ApplyDraw adds qty to a lot's consumed quantity, guarded on availability
	ApplyDraw(ctx context.Context, lotID int64, qty decimal.Decimal) error
	Deactivate(ctx context.Context, id int64) error
}

// ConsumptionRepository persists the consumption log
type ConsumptionRepository interface {
	Create(ctx context.Context, record *ConsumptionRecord) error
	CreateBatch(ctx context.Context, records []*ConsumptionRecord) error
	FindByLot(ctx context.Context, lotID int64) ([]ConsumptionRecord, error)
	FindLinesByProductionRecord(ctx context.Context, recordID uuid.UUID) ([]ConsumptionLine, error)
	SumByLot(ctx context.Context, lotID int64) (decimal.Decimal, error)
}

// ProductionRepository persists production records
type ProductionRepository interface {
	Create(ctx context.Context, record *ProductionRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionRecord, error)
}

// CompanyRepository reads company module parameters
type CompanyRepository interface {
	FindByName(ctx context.Context, name string) (*Company, error)
}
