package persistence

import (
	"context"

	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Row locks taken inside Execute are released when it returns.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction, committing when fn
// returns nil and rolling back otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcoc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories binds every repository to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) LotRepo() coc.LotRepository {
	return NewGormLotRepository(r.tx)
}

func (r *gormTransactionalRepositories) ConsumptionRepo() coc.ConsumptionRepository {
	return NewGormConsumptionRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductionRepo() coc.ProductionRepository {
	return NewGormProductionRepository(r.tx)
}

var (
	_ appcoc.TransactionScope          = (*GormTransactionScope)(nil)
	_ appcoc.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
