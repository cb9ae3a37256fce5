package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"github.com/solarqc/coc-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductionRepository implements ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// Create inserts a production record
func (r *GormProductionRepository) Create(ctx context.Context, record *coc.ProductionRecord) error {
	model := models.ProductionRecordModelFromDomain(record)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create production record: %w", err)
	}
	record.BaseEntity = model.BaseModel.ToDomain()
	return nil
}

// FindByID finds a production record by ID
func (r *GormProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*coc.ProductionRecord, error) {
	var model models.ProductionRecordModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find production record %s: %w", id, err)
	}
	return model.ToDomain(), nil
}

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByName finds a company by its exact name
func (r *GormCompanyRepository) FindByName(ctx context.Context, name string) (*coc.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Where("company_name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company %q: %w", name, err)
	}
	return model.ToDomain(), nil
}

var (
	_ coc.ProductionRepository = (*GormProductionRepository)(nil)
	_ coc.CompanyRepository    = (*GormCompanyRepository)(nil)
)
