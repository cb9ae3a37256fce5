package coc

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// ConsumptionRecord is an immutable log entry written each time a lot is drawn down.
// The quantities of all records of a lot sum to the lot's ConsumedQty.
type ConsumptionRecord struct {
	ID                 int64
	ProductionDate     time.Time
	CompanyName        string
	MaterialName       string
	LotID              int64
	LotReference       string
	ProductionLot      string
	ProductionRecordID *uuid.UUID
	ConsumedQuantity   decimal.Decimal
	CreatedAt          time.Time
}

// Validate checks the record before it is persisted
func (r *ConsumptionRecord) Validate() error {
	if r.LotID <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "consumption record must reference a lot")
	}
	if r.MaterialName == "" {
		return shared.NewDomainError("INVALID_INPUT", "material name is required")
	}
	if !r.ConsumedQuantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "consumed quantity must be positive")
	}
	return nil
}

// ConsumptionLine is one consumption record joined with its lot, as shown in
// a production record's material summary.
type ConsumptionLine struct {
	RecordID       int64
	MaterialName   string
	Consumed       decimal.Decimal
	LotID          int64
	LotReference   string
	InvoiceNo      string
	Brand          string
	ProductionDate time.Time
	CreatedAt      time.Time
}
