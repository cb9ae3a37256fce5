package handler

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
)

// SyncRequest selects the invoice window to pull from the COC feed
// @Description Sync window; both dates default to the configured lookback
type SyncRequest struct {
	FromDate string `json:"from_date" binding:"omitempty,isodate" example:"2024-01-01"`
	ToDate   string `json:"to_date" binding:"omitempty,isodate" example:"2024-01-31"`
}

// ListLotsRequest filters the lot listing
type ListLotsRequest struct {
	Company  string `form:"company" binding:"max=255"`
	Material string `form:"material" binding:"max=100"`
	FromDate string `form:"from_date" binding:"omitempty,isodate"`
	ToDate   string `form:"to_date" binding:"omitempty,isodate"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// StockRequest filters the stock listing
type StockRequest struct {
	CompanyName  string `form:"company_name" binding:"max=255"`
	MaterialName string `form:"material_name" binding:"max=100"`
}

// ValidateRequest asks whether the pool covers the given quantities
// @Description Material quantities keyed by material name
type ValidateRequest struct {
	CompanyName string                     `json:"company_name" binding:"max=255" example:"Sunrise Modules"`
	Materials   map[string]decimal.Decimal `json:"materials" binding:"required,dive,keys,required,max=100,endkeys,decimal_gte0,decimal_scale" swaggertype:"object,string" example:"Glass:100,EVA:250.5"`
}

// Requirements returns the materials ordered by name
func (r ValidateRequest) Requirements() []coc.MaterialRequirement {
	names := make([]string, 0, len(r.Materials))
	for name := range r.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	reqs := make([]coc.MaterialRequirement, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, coc.MaterialRequirement{Material: name, Quantity: r.Materials[name]})
	}
	return reqs
}

// ConsumeRequest draws one material from the pool oldest lot first
// @Description Single-material consumption
type ConsumeRequest struct {
	CompanyName    string          `json:"company_name" binding:"required,max=255" example:"Sunrise Modules"`
	MaterialName   string          `json:"material_name" binding:"required,max=100" example:"Glass"`
	Quantity       decimal.Decimal `json:"quantity" binding:"decimal_gt0,decimal_scale" swaggertype:"string" example:"120.5"`
	ProductionDate string          `json:"production_date" binding:"required,isodate" example:"2024-03-01"`
	LotLabel       string          `json:"lot_label" binding:"max=100" example:"PL-0301-A"`
	AllowPartial   bool            `json:"allow_partial" example:"false"`
}
