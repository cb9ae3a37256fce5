package coc

import (
	"strings"
	"time"

	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// ProductionRecord is a day's module output for one company. Creating one
// consumes raw material from the pool.
type ProductionRecord struct {
	shared.BaseEntity
	CompanyName     string
	ProductionDate  time.Time
	DayProduction   int
	NightProduction int
	LotNumber       string
}

// NewProductionRecord creates a production record
func NewProductionRecord(company string, date time.Time, day, night int, lotNumber string) (*ProductionRecord, error) {
	r := &ProductionRecord{
		BaseEntity:      shared.NewBaseEntity(),
		CompanyName:     strings.TrimSpace(company),
		ProductionDate:  date,
		DayProduction:   day,
		NightProduction: night,
		LotNumber:       strings.TrimSpace(lotNumber),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// TotalProduction is the number of modules produced across both shifts
func (r *ProductionRecord) TotalProduction() int {
	return r.DayProduction + r.NightProduction
}

// Validate checks the record
func (r *ProductionRecord) Validate() error {
	if r.CompanyName == "" {
		return shared.NewDomainError("INVALID_INPUT", "company name is required")
	}
	if r.ProductionDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "production date is required")
	}
	if r.DayProduction < 0 || r.NightProduction < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "production counts cannot be negative")
	}
	if r.TotalProduction() == 0 {
		return shared.NewDomainError("INVALID_INPUT", "no production quantity entered")
	}
	return nil
}

// Company holds the module design parameters of a manufacturing customer
type Company struct {
	ID             int64
	Name           string
	CellsPerModule int
}

// EffectiveCellsPerModule returns the company's cell count, or the default
func (c *Company) EffectiveCellsPerModule() int {
	if c == nil || c.CellsPerModule <= 0 {
		return DefaultCellsPerModule
	}
	return c.CellsPerModule
}
