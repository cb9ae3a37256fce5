package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"github.com/solarqc/coc-backend/internal/interfaces/http/middleware"
)

// ProductionRecorder checks, records and summarises production entries
type ProductionRecorder interface {
	CheckMaterials(ctx context.Context, plan appcoc.ProductionPlan) (*appcoc.MaterialCheckResponse, error)
	Record(ctx context.Context, cmd appcoc.RecordProductionCommand) (*appcoc.ProductionResult, error)
	MaterialSummary(ctx context.Context, recordID uuid.UUID) ([]appcoc.ConsumptionLineResponse, error)
}

// ProductionHandler serves production entry endpoints
type ProductionHandler struct {
	BaseHandler
	production ProductionRecorder
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(production ProductionRecorder) *ProductionHandler {
	return &ProductionHandler{production: production}
}

// CheckMaterialsRequest is a prospective production entry
// @Description Module counts to check against the pool
type CheckMaterialsRequest struct {
	CompanyName     string `json:"company_name" binding:"max=255" example:"Sunrise Modules"`
	DayProduction   int    `json:"day_production" binding:"gte=0" example:"120"`
	NightProduction int    `json:"night_production" binding:"gte=0" example:"80"`
	CellsPerModule  int    `json:"cells_per_module" binding:"omitempty,gte=1,lte=1000" example:"144"`
}

// RecordProductionRequest records a production entry and consumes its materials
// @Description Production entry
type RecordProductionRequest struct {
	CompanyName     string `json:"company_name" binding:"required,max=255" example:"Sunrise Modules"`
	ProductionDate  string `json:"production_date" binding:"required,isodate" example:"2024-03-01"`
	DayProduction   int    `json:"day_production" binding:"gte=0" example:"120"`
	NightProduction int    `json:"night_production" binding:"gte=0" example:"80"`
	LotNumber       string `json:"lot_number" binding:"max=100" example:"PL-0301-A"`
	CellsPerModule  int    `json:"cells_per_module" binding:"omitempty,gte=1,lte=1000" example:"144"`
}

// MaterialSummaryRequest selects a production record
type MaterialSummaryRequest struct {
	RecordID string `form:"record_id" binding:"required,uuid"`
}

// CheckMaterials godoc
// @ID           checkProductionMaterials
// @Summary      Check materials for a production plan
// @Description  Read-only pre-check of every material the plan needs
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        request body CheckMaterialsRequest true "Production plan"
// @Success      200 {object} APIResponse[appcoc.MaterialCheckResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /production/validate-materials [post]
func (h *ProductionHandler) CheckMaterials(c *gin.Context) {
	var req CheckMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.production.CheckMaterials(c.Request.Context(), appcoc.ProductionPlan{
		CompanyName:     req.CompanyName,
		DayProduction:   req.DayProduction,
		NightProduction: req.NightProduction,
		CellsPerModule:  req.CellsPerModule,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Record godoc
// @ID           recordProduction
// @Summary      Record production
// @Description  Creates the record and draws every material in one transaction. Any shortage rejects the whole entry.
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay protection key"
// @Param        request body RecordProductionRequest true "Production entry"
// @Success      201 {object} APIResponse[appcoc.ProductionResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /production/records [post]
func (h *ProductionHandler) Record(c *gin.Context) {
	var req RecordProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.production.Record(c.Request.Context(), appcoc.RecordProductionCommand{
		CompanyName:     req.CompanyName,
		ProductionDate:  req.ProductionDate,
		DayProduction:   req.DayProduction,
		NightProduction: req.NightProduction,
		LotNumber:       req.LotNumber,
		CellsPerModule:  req.CellsPerModule,
		IdempotencyKey:  c.GetHeader(middleware.IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// MaterialSummary godoc
// @ID           getProductionMaterialSummary
// @Summary      Materials consumed by a production record
// @Tags         production
// @Produce      json
// @Param        record_id query string true "Production record ID"
// @Success      200 {object} APIResponse[[]appcoc.ConsumptionLineResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /production/material-summary [get]
func (h *ProductionHandler) MaterialSummary(c *gin.Context) {
	var req MaterialSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	recordID, err := uuid.Parse(req.RecordID)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	lines, err := h.production.MaterialSummary(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lines)
}
