package coc

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
)

// Consumption statuses
const (
	StatusFullySatisfied     = "FULLY_SATISFIED"
	StatusPartiallySatisfied = "PARTIALLY_SATISFIED"
)

// ConsumeCommand asks the allocator to draw quantity of a material from the pool
type ConsumeCommand struct {
	CompanyName        string
	MaterialName       string
	Quantity           decimal.Decimal
	ProductionDate     time.Time
	LotLabel           string
	ProductionRecordID *uuid.UUID
	// AllowPartial returns a PARTIALLY_SATISFIED result instead of failing when
	// the pool cannot cover Quantity.
	AllowPartial bool
}

// ConsumedFrom is one lot drawn down by a consumption
type ConsumedFrom struct {
	LotID    int64           `json:"lot_id"`
	LotBatch string          `json:"lot_batch"`
	Invoice  string          `json:"invoice"`
	Consumed decimal.Decimal `json:"consumed"`
}

// ConsumeResult is the outcome of a consumption
type ConsumeResult struct {
	Material     string          `json:"material"`
	Requested    decimal.Decimal `json:"requested"`
	Consumed     decimal.Decimal `json:"consumed"`
	Shortfall    decimal.Decimal `json:"shortfall"`
	Status       string          `json:"status"`
	ConsumedFrom []ConsumedFrom  `json:"consumed_from"`
}

func newConsumeResult(plan *coc.Allocation) *ConsumeResult {
	status := StatusFullySatisfied
	if !plan.FullySatisfied() {
		status = StatusPartiallySatisfied
	}
	from := make([]ConsumedFrom, 0, len(plan.Draws))
	for _, d := range plan.Draws {
		from = append(from, ConsumedFrom{
			LotID:    d.LotID,
			LotBatch: d.LotBatchNo,
			Invoice:  d.InvoiceNo,
			Consumed: d.Quantity,
		})
	}
	return &ConsumeResult{
		Material:     plan.Material,
		Requested:    plan.Requested,
		Consumed:     plan.TotalDrawn,
		Shortfall:    plan.Shortfall,
		Status:       status,
		ConsumedFrom: from,
	}
}

// ShortageResponse describes one uncovered material requirement
type ShortageResponse struct {
	Material  string          `json:"material"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Shortage  decimal.Decimal `json:"shortage"`
}

// ValidationResponse is the result of validating requirements against the pool
type ValidationResponse struct {
	Valid        bool               `json:"valid"`
	Insufficient []ShortageResponse `json:"insufficient"`
}

func toShortageResponses(shortages []coc.Shortage) []ShortageResponse {
	out := make([]ShortageResponse, 0, len(shortages))
	for _, s := range shortages {
		out = append(out, ShortageResponse{
			Material:  s.Material,
			Required:  s.Required,
			Available: s.Available,
			Shortage:  s.Shortage,
		})
	}
	return out
}

// StockQuery filters a stock listing. CompanyName is accepted for API
// compatibility and does not narrow the pool.
type StockQuery struct {
	CompanyName  string
	MaterialName string
}

// MaterialStockResponse is the pooled stock of one material
type MaterialStockResponse struct {
	Material      string          `json:"material"`
	Make          string          `json:"make"`
	Available     decimal.Decimal `json:"available"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalConsumed decimal.Decimal `json:"total_consumed"`
	LotCount      int64           `json:"lot_count"`
}

// LotListFilter filters the lot listing
type LotListFilter struct {
	CompanyName  string
	MaterialName string
	FromDate     string
	ToDate       string
	Page         int
	PageSize     int
}

// LotResponse represents a material lot in API responses
type LotResponse struct {
	ID             int64           `json:"id"`
	ExternalID     string          `json:"external_id,omitempty"`
	CompanyName    string          `json:"company_name"`
	MaterialName   string          `json:"material_name"`
	Brand          string          `json:"brand"`
	ProductType    string          `json:"product_type,omitempty"`
	LotBatchNo     string          `json:"lot_batch_no"`
	InvoiceNo      string          `json:"invoice_no"`
	InvoiceQty     decimal.Decimal `json:"invoice_qty"`
	ReceivedQty    decimal.Decimal `json:"received_qty"`
	ConsumedQty    decimal.Decimal `json:"consumed_qty"`
	AvailableQty   decimal.Decimal `json:"available_qty"`
	InvoiceDate    string          `json:"invoice_date"`
	EntryDate      *time.Time      `json:"entry_date,omitempty"`
	Username       string          `json:"username,omitempty"`
	COCDocumentURL string          `json:"coc_document_url,omitempty"`
	IQCDocumentURL string          `json:"iqc_document_url,omitempty"`
	IsActive       bool            `json:"is_active"`
	LastSyncedAt   *time.Time      `json:"last_synced_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToLotResponse converts a domain lot
func ToLotResponse(l *coc.MaterialLot) LotResponse {
	return LotResponse{
		ID:             l.ID,
		ExternalID:     l.ExternalID,
		CompanyName:    l.CompanyName,
		MaterialName:   l.MaterialName,
		Brand:          l.Brand,
		ProductType:    l.ProductType,
		LotBatchNo:     l.LotBatchNo,
		InvoiceNo:      l.InvoiceNo,
		InvoiceQty:     l.InvoiceQty,
		ReceivedQty:    l.ReceivedQty,
		ConsumedQty:    l.ConsumedQty,
		AvailableQty:   l.AvailableQty,
		InvoiceDate:    l.InvoiceDate.Format(DateLayout),
		EntryDate:      l.EntryDate,
		Username:       l.Username,
		COCDocumentURL: l.COCDocumentURL,
		IQCDocumentURL: l.IQCDocumentURL,
		IsActive:       l.IsActive,
		LastSyncedAt:   l.LastSyncedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ConsumptionRecordResponse is one entry of a lot's consumption history
type ConsumptionRecordResponse struct {
	ID                 int64           `json:"id"`
	ProductionDate     string          `json:"production_date"`
	CompanyName        string          `json:"company_name"`
	ProductionLot      string          `json:"production_lot"`
	ProductionRecordID *uuid.UUID      `json:"production_record_id,omitempty"`
	ConsumedQuantity   decimal.Decimal `json:"consumed_quantity"`
	CreatedAt          time.Time       `json:"created_at"`
}

// LotConsumptionResponse is a lot with the production draws made against it
type LotConsumptionResponse struct {
	Lot           LotResponse                 `json:"lot"`
	Consumption   []ConsumptionRecordResponse `json:"consumption"`
	TotalConsumed decimal.Decimal             `json:"total_consumed"`
	// Balanced is true when the history sums to the lot's consumed quantity
	Balanced bool `json:"balanced"`
}

// SyncCommand selects the window to pull from the external feed.
// Dates are YYYY-MM-DD; empty values use the default window.
type SyncCommand struct {
	FromDate string
	ToDate   string
}

// SyncResult tallies a sync run
type SyncResult struct {
	Synced  int `json:"synced"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// ProductionPlan describes a prospective production entry
type ProductionPlan struct {
	CompanyName     string
	DayProduction   int
	NightProduction int
	// CellsPerModule overrides the company's module design when positive
	CellsPerModule int
}

// MaterialCheckDetail is the availability of one required material
type MaterialCheckDetail struct {
	Material       string          `json:"material"`
	Required       decimal.Decimal `json:"required"`
	Available      decimal.Decimal `json:"available"`
	TotalReceived  decimal.Decimal `json:"total_received"`
	TotalConsumed  decimal.Decimal `json:"total_consumed"`
	RemainingAfter decimal.Decimal `json:"remaining_after"`
	LotCount       int64           `json:"lot_count"`
	IsSufficient   bool            `json:"is_sufficient"`
	Shortage       decimal.Decimal `json:"shortage"`
}

// Material check warning types
const (
	WarningNoCOC        = "NO_COC"
	WarningInsufficient = "INSUFFICIENT"
)

// MaterialWarning flags a material that blocks production
type MaterialWarning struct {
	Type     string `json:"type"`
	Material string `json:"material"`
	Message  string `json:"message"`
}

// MaterialCheckResponse is the pre-check of a production entry
type MaterialCheckResponse struct {
	Valid           bool                  `json:"valid"`
	CanProceed      bool                  `json:"can_proceed"`
	TotalProduction int                   `json:"total_production"`
	CellsPerModule  int                   `json:"cells_per_module"`
	Materials       []MaterialCheckDetail `json:"materials"`
	Warnings        []MaterialWarning     `json:"warnings"`
	Message         string                `json:"message"`
}

// RecordProductionCommand creates a production record and consumes its materials
type RecordProductionCommand struct {
	CompanyName     string
	ProductionDate  string
	DayProduction   int
	NightProduction int
	LotNumber       string
	CellsPerModule  int
	IdempotencyKey  string
}

// ProductionRecordResponse represents a production record
type ProductionRecordResponse struct {
	ID              uuid.UUID `json:"id"`
	CompanyName     string    `json:"company_name"`
	ProductionDate  string    `json:"production_date"`
	DayProduction   int       `json:"day_production"`
	NightProduction int       `json:"night_production"`
	TotalProduction int       `json:"total_production"`
	LotNumber       string    `json:"lot_number"`
	CreatedAt       time.Time `json:"created_at"`
}

// ProductionResult is a recorded production entry with its material draws
type ProductionResult struct {
	Record      ProductionRecordResponse `json:"record"`
	Consumption []ConsumeResult          `json:"consumption"`
}

// ConsumptionLineResponse is one material draw of a production record
type ConsumptionLineResponse struct {
	Material     string          `json:"material"`
	Consumed     decimal.Decimal `json:"consumed"`
	LotID        int64           `json:"lot_id"`
	LotReference string          `json:"lot_reference"`
	Invoice      string          `json:"invoice"`
	Brand        string          `json:"brand"`
	Date         string          `json:"date"`
}
