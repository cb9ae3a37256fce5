package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"github.com/solarqc/coc-backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lotKeyColumns is the natural key of coc_documents
var lotKeyColumns = []clause.Column{
	{Name: "company_name"},
	{Name: "material_name"},
	{Name: "lot_batch_no"},
	{Name: "invoice_no"},
}

// feedColumns are the columns a feed refresh may overwrite. consumed_qty and
// is_active belong to this service and are never among them.
var feedColumns = []string{
	"external_id",
	"brand",
	"product_type",
	"invoice_qty",
	"received_qty",
	"invoice_date",
	"entry_date",
	"username",
	"coc_document_url",
	"iqc_document_url",
	"last_synced_at",
	"updated_at",
}

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id int64) (*coc.MaterialLot, error) {
	var model models.MaterialLotModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lot %d: %w", id, err)
	}
	return model.ToDomain(), nil
}

// FindByKey finds a lot by its natural key
func (r *GormLotRepository) FindByKey(ctx context.Context, key coc.LotKey) (*coc.MaterialLot, error) {
	var model models.MaterialLotModel
	err := r.db.WithContext(ctx).
		Where("company_name = ? AND material_name = ? AND lot_batch_no = ? AND invoice_no = ?",
			key.CompanyName, key.MaterialName, key.LotBatchNo, key.InvoiceNo).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lot %s: %w", key, err)
	}
	return model.ToDomain(), nil
}

// List returns lots matching filter, newest invoice first
func (r *GormLotRepository) List(ctx context.Context, filter coc.LotFilter) ([]coc.MaterialLot, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MaterialLotModel{})
	if filter.CompanyName != "" {
		query = query.Where("company_name = ?", filter.CompanyName)
	}
	if filter.MaterialName != "" {
		query = query.Where("material_name = ?", filter.MaterialName)
	}
	if filter.FromDate != nil {
		query = query.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoice_date <= ?", *filter.ToDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count lots: %w", err)
	}

	p := filter.Pagination
	if p.PageSize == 0 {
		p = shared.NewPagination(p.Page, p.PageSize)
	}

	var rows []models.MaterialLotModel
	err := query.
		Order("invoice_date DESC, id DESC").
		Offset(p.Offset()).
		Limit(p.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lots: %w", err)
	}
	return toDomainLots(rows), total, nil
}

// LockAvailableByMaterial selects the drawable lots of material in FIFO order
// with SELECT ... FOR UPDATE. Must be called inside a transaction.
func (r *GormLotRepository) LockAvailableByMaterial(ctx context.Context, material string) ([]coc.MaterialLot, error) {
	rows, err := r.findAvailable(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), material)
	if err != nil {
		return nil, fmt.Errorf("failed to lock lots of %s: %w", material, err)
	}
	return rows, nil
}

// FindAvailableByMaterial selects the drawable lots of material in FIFO order without locking
func (r *GormLotRepository) FindAvailableByMaterial(ctx context.Context, material string) ([]coc.MaterialLot, error) {
	rows, err := r.findAvailable(r.db.WithContext(ctx), material)
	if err != nil {
		return nil, fmt.Errorf("failed to find lots of %s: %w", material, err)
	}
	return rows, nil
}

func (r *GormLotRepository) findAvailable(db *gorm.DB, material string) ([]coc.MaterialLot, error) {
	var rows []models.MaterialLotModel
	err := db.
		Where("material_name = ? AND is_active = ? AND available_qty > ?", material, true, 0).
		Order("invoice_date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainLots(rows), nil
}

type materialTotalsRow struct {
	MaterialName  string
	Available     decimal.Decimal
	TotalReceived decimal.Decimal
	TotalConsumed decimal.Decimal
	LotCount      int64
}

const materialTotalsSelect = "material_name, " +
	"COALESCE(SUM(available_qty), 0) AS available, " +
	"COALESCE(SUM(received_qty), 0) AS total_received, " +
	"COALESCE(SUM(consumed_qty), 0) AS total_consumed, " +
	"COUNT(*) AS lot_count"

// AvailabilityByMaterial sums the drawable lots of each requested material
func (r *GormLotRepository) AvailabilityByMaterial(ctx context.Context, materials []string) (map[string]coc.MaterialAvailability, error) {
	out := make(map[string]coc.MaterialAvailability, len(materials))
	if len(materials) == 0 {
		return out, nil
	}

	var rows []materialTotalsRow
	err := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Select(materialTotalsSelect).
		Where("is_active = ? AND available_qty > ? AND material_name IN ?", true, 0, materials).
		Group("material_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum availability: %w", err)
	}

	for _, row := range rows {
		out[row.MaterialName] = coc.MaterialAvailability{
			Material:      row.MaterialName,
			Available:     row.Available,
			TotalReceived: row.TotalReceived,
			TotalConsumed: row.TotalConsumed,
			LotCount:      row.LotCount,
		}
	}
	return out, nil
}

// AggregateStock groups active lots by material. An empty material means all.
// Brands are collected separately so the query stays portable across dialects.
func (r *GormLotRepository) AggregateStock(ctx context.Context, material string) ([]coc.MaterialStock, error) {
	totals := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Select(materialTotalsSelect).
		Where("is_active = ?", true)
	brands := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Distinct("material_name", "brand").
		Where("is_active = ? AND brand <> ?", true, "")
	if material != "" {
		totals = totals.Where("material_name = ?", material)
		brands = brands.Where("material_name = ?", material)
	}

	var rows []materialTotalsRow
	if err := totals.Group("material_name").Order("material_name").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate stock: %w", err)
	}

	var brandRows []struct {
		MaterialName string
		Brand        string
	}
	if err := brands.Order("material_name, brand").Scan(&brandRows).Error; err != nil {
		return nil, fmt.Errorf("failed to collect brands: %w", err)
	}
	makes := make(map[string][]string)
	for _, b := range brandRows {
		makes[b.MaterialName] = append(makes[b.MaterialName], b.Brand)
	}

	stock := make([]coc.MaterialStock, 0, len(rows))
	for _, row := range rows {
		brand := coc.NoMake
		if names := makes[row.MaterialName]; len(names) > 0 {
			brand = strings.Join(names, ", ")
		}
		stock = append(stock, coc.MaterialStock{
			Material:      row.MaterialName,
			Make:          brand,
			Available:     row.Available,
			TotalReceived: row.TotalReceived,
			TotalConsumed: row.TotalConsumed,
			LotCount:      row.LotCount,
		})
	}
	return stock, nil
}

// DistinctCompanies lists the companies with active lots
func (r *GormLotRepository) DistinctCompanies(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "company_name")
}

// DistinctMaterials lists the materials with active lots
func (r *GormLotRepository) DistinctMaterials(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "material_name")
}

func (r *GormLotRepository) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Where("is_active = ?", true).
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", column, err)
	}
	return values, nil
}

// Create inserts a new lot and reloads it so the generated availability is populated
func (r *GormLotRepository) Create(ctx context.Context, lot *coc.MaterialLot) error {
	model := models.MaterialLotModelFromDomain(lot)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create lot %s: %w", lot.Key(), err)
	}
	if err := r.db.WithContext(ctx).First(model, model.ID).Error; err != nil {
		return fmt.Errorf("failed to reload lot %d: %w", model.ID, err)
	}
	*lot = *model.ToDomain()
	return nil
}

// UpsertFromFeed refreshes the lot with lot's natural key, or inserts it.
// It reports true only when this call inserted the row. A concurrent insert
// of the same key makes the insert a no-op, and the winner's row is refreshed.
func (r *GormLotRepository) UpsertFromFeed(ctx context.Context, lot *coc.MaterialLot) (bool, error) {
	now := time.Now()
	syncedAt := now
	if lot.LastSyncedAt != nil {
		syncedAt = *lot.LastSyncedAt
	}

	existing, err := r.FindByKey(ctx, lot.Key())
	switch {
	case err == nil:
		return false, r.refreshFromFeed(ctx, existing.ID, lot, syncedAt, now)
	case !errors.Is(err, shared.ErrNotFound):
		return false, err
	}

	model := models.MaterialLotModelFromDomain(lot)
	model.ID = 0
	model.ConsumedQty = decimal.Zero
	model.IsActive = true
	model.LastSyncedAt = &syncedAt
	model.CreatedAt = now
	model.UpdatedAt = now

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: lotKeyColumns, DoNothing: true}).
		Create(model)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert lot %s: %w", lot.Key(), res.Error)
	}
	if res.RowsAffected > 0 {
		lot.ID = model.ID
		return true, nil
	}

	existing, err = r.FindByKey(ctx, lot.Key())
	if err != nil {
		return false, err
	}
	return false, r.refreshFromFeed(ctx, existing.ID, lot, syncedAt, now)
}

func (r *GormLotRepository) refreshFromFeed(ctx context.Context, id int64, lot *coc.MaterialLot, syncedAt, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Where("id = ?", id).
		Select(feedColumns).
		Updates(map[string]any{
			"external_id":      lot.ExternalID,
			"brand":            lot.Brand,
			"product_type":     lot.ProductType,
			"invoice_qty":      lot.InvoiceQty,
			"received_qty":     lot.ReceivedQty,
			"invoice_date":     lot.InvoiceDate,
			"entry_date":       lot.EntryDate,
			"username":         lot.Username,
			"coc_document_url": lot.COCDocumentURL,
			"iqc_document_url": lot.IQCDocumentURL,
			"last_synced_at":   syncedAt,
			"updated_at":       now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to refresh lot %s: %w", lot.Key(), err)
	}
	lot.ID = id
	return nil
}

// ApplyDraw adds qty to the lot's consumed quantity. The update only matches
// while the lot is active and still holds qty, so a lost race surfaces as
// ErrConcurrencyConflict instead of overdrawing.
func (r *GormLotRepository) ApplyDraw(ctx context.Context, lotID int64, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.ErrInvalidQuantity
	}
	res := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Where("id = ? AND is_active = ? AND available_qty >= ?", lotID, true, qty).
		Updates(map[string]any{
			"consumed_qty": gorm.Expr("consumed_qty + ?", qty),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to draw %s from lot %d: %w", qty, lotID, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Deactivate hides a lot from allocation and stock without deleting it
func (r *GormLotRepository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.MaterialLotModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate lot %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainLots(rows []models.MaterialLotModel) []coc.MaterialLot {
	lots := make([]coc.MaterialLot, len(rows))
	for i := range rows {
		lots[i] = *rows[i].ToDomain()
	}
	return lots
}

// Ensure GormLotRepository implements LotRepository
var _ coc.LotRepository = (*GormLotRepository)(nil)
