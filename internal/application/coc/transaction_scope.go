package coc

import (
	"context"

	"github.com/solarqc/coc-backend/internal/domain/coc"
)

// TransactionScope provides transactional access to the lot ledger.
// All repository operations inside fn share one database transaction and are
// committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction.
//
// Row locks taken through LotRepo().LockAvailableByMaterial are held until the
// transaction ends, so every draw made through the same repositories sees the
// locked quantities.
type TransactionalRepositories interface {
	LotRepo() coc.LotRepository
	ConsumptionRepo() coc.ConsumptionRepository
	ProductionRepo() coc.ProductionRepository
}

// NoOpTransactionScope runs functions against plain repositories without a transaction.
// Used by unit tests.
type NoOpTransactionScope struct {
	lotRepo         coc.LotRepository
	consumptionRepo coc.ConsumptionRepository
	productionRepo  coc.ProductionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	lotRepo coc.LotRepository,
	consumptionRepo coc.ConsumptionRepository,
	productionRepo coc.ProductionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		lotRepo:         lotRepo,
		consumptionRepo: consumptionRepo,
		productionRepo:  productionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) LotRepo() coc.LotRepository                 { return s.lotRepo }
func (s *NoOpTransactionScope) ConsumptionRepo() coc.ConsumptionRepository { return s.consumptionRepo }
func (s *NoOpTransactionScope) ProductionRepo() coc.ProductionRepository   { return s.productionRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
