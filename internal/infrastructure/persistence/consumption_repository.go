package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormConsumptionRepository implements ConsumptionRepository using GORM.
// Consumption records are append-only.
type GormConsumptionRepository struct {
	db *gorm.DB
}

// NewGormConsumptionRepository creates a new GormConsumptionRepository
func NewGormConsumptionRepository(db *gorm.DB) *GormConsumptionRepository {
	return &GormConsumptionRepository{db: db}
}

// Create inserts a single consumption record
func (r *GormConsumptionRepository) Create(ctx context.Context, record *coc.ConsumptionRecord) error {
	return r.CreateBatch(ctx, []*coc.ConsumptionRecord{record})
}

// CreateBatch inserts records in one statement and writes the new IDs back
func (r *GormConsumptionRepository) CreateBatch(ctx context.Context, records []*coc.ConsumptionRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]*models.ConsumptionRecordModel, len(records))
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return err
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rows[i] = models.ConsumptionRecordModelFromDomain(rec)
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert consumption records: %w", err)
	}
	for i, row := range rows {
		records[i].ID = row.ID
	}
	return nil
}

// FindByLot returns a lot's consumption history in insertion order
func (r *GormConsumptionRepository) FindByLot(ctx context.Context, lotID int64) ([]coc.ConsumptionRecord, error) {
	var rows []models.ConsumptionRecordModel
	err := r.db.WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find consumption of lot %d: %w", lotID, err)
	}
	out := make([]coc.ConsumptionRecord, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

type consumptionLineRow struct {
	ID               int64
	MaterialName     string
	ConsumedQuantity decimal.Decimal
	LotID            int64
	LotReference     string
	InvoiceNo        string
	Brand            string
	ProductionDate   time.Time
	CreatedAt        time.Time
}

// FindLinesByProductionRecord joins a production record's consumption with
// the lots it drew from, ordered by material then insertion
func (r *GormConsumptionRepository) FindLinesByProductionRecord(ctx context.Context, recordID uuid.UUID) ([]coc.ConsumptionLine, error) {
	var rows []consumptionLineRow
	err := r.db.WithContext(ctx).
		Table("material_consumption AS mc").
		Select("mc.id, mc.material_name, mc.consumed_quantity, mc.lot_id, mc.lot_reference, " +
			"cd.invoice_no, cd.brand, mc.production_date, mc.created_at").
		Joins("JOIN coc_documents cd ON cd.id = mc.lot_id").
		Where("mc.production_record_id = ?", recordID).
		Order("mc.material_name ASC, mc.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load material summary of %s: %w", recordID, err)
	}

	lines := make([]coc.ConsumptionLine, len(rows))
	for i, row := range rows {
		lines[i] = coc.ConsumptionLine{
			RecordID:       row.ID,
			MaterialName:   row.MaterialName,
			Consumed:       row.ConsumedQuantity,
			LotID:          row.LotID,
			LotReference:   row.LotReference,
			InvoiceNo:      row.InvoiceNo,
			Brand:          row.Brand,
			ProductionDate: row.ProductionDate,
			CreatedAt:      row.CreatedAt,
		}
	}
	return lines, nil
}

// SumByLot totals the quantity recorded against a lot
func (r *GormConsumptionRepository) SumByLot(ctx context.Context, lotID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.ConsumptionRecordModel{}).
		Select("COALESCE(SUM(consumed_quantity), 0)").
		Where("lot_id = ?", lotID).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum consumption of lot %d: %w", lotID, err)
	}
	return sum, nil
}

// Ensure GormConsumptionRepository implements ConsumptionRepository
var _ coc.ConsumptionRepository = (*GormConsumptionRepository)(nil)
