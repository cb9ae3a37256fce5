package handler

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	appcoc "github.com/solarqc/coc-backend/internal/application/coc"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/interfaces/http/dto"
	"github.com/solarqc/coc-backend/internal/interfaces/http/middleware"
)

// LedgerReader lists lots and their consumption history
type LedgerReader interface {
	ListLots(ctx context.Context, filter appcoc.LotListFilter) ([]appcoc.LotResponse, int64, error)
	Companies(ctx context.Context) ([]string, error)
	Materials(ctx context.Context) ([]string, error)
	LotConsumption(ctx context.Context, lotID int64) (*appcoc.LotConsumptionResponse, error)
	DeactivateLot(ctx context.Context, lotID int64) error
}

// StockReader aggregates pooled stock per material
type StockReader interface {
	GetStock(ctx context.Context, query appcoc.StockQuery) ([]appcoc.MaterialStockResponse, error)
}

// RequirementValidator checks requirements against the pool
type RequirementValidator interface {
	Validate(ctx context.Context, reqs []coc.MaterialRequirement) (*appcoc.ValidationResponse, error)
}

// LotSyncer pulls lots from the external COC feed
type LotSyncer interface {
	Sync(ctx context.Context, cmd appcoc.SyncCommand) (*appcoc.SyncResult, error)
}

// MaterialConsumer draws a material from the pool
type MaterialConsumer interface {
	Consume(ctx context.Context, cmd appcoc.ConsumeCommand) (*appcoc.ConsumeResult, error)
}

// COCHandler serves the lot ledger, stock and consumption endpoints
type COCHandler struct {
	BaseHandler
	ledger    LedgerReader
	stock     StockReader
	validator RequirementValidator
	syncer    LotSyncer
	consumer  MaterialConsumer
}

// NewCOCHandler creates a new COCHandler
func NewCOCHandler(ledger LedgerReader, stock StockReader, validator RequirementValidator, syncer LotSyncer, consumer MaterialConsumer) *COCHandler {
	return &COCHandler{
		ledger:    ledger,
		stock:     stock,
		validator: validator,
		syncer:    syncer,
		consumer:  consumer,
	}
}

// Sync godoc
// @ID           syncCOCLots
// @Summary      Sync lots from the COC feed
// @Description  Pulls invoices in the window and upserts them by natural key. Consumed quantities are never touched.
// @Tags         coc
// @Accept       json
// @Produce      json
// @Param        request body SyncRequest false "Sync window"
// @Success      200 {object} APIResponse[appcoc.SyncResult]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /coc/sync [post]
func (h *COCHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.syncer.Sync(c.Request.Context(), appcoc.SyncCommand{
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ListLots godoc
// @ID           listCOCLots
// @Summary      List material lots
// @Description  Active lots, newest invoice first
// @Tags         coc
// @Produce      json
// @Param        company   query string false "Company name"
// @Param        material  query string false "Material name"
// @Param        from_date query string false "Invoice date from (YYYY-MM-DD)"
// @Param        to_date   query string false "Invoice date to (YYYY-MM-DD)"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(50)
// @Success      200 {object} APIResponse[[]appcoc.LotResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /coc/list [get]
func (h *COCHandler) ListLots(c *gin.Context) {
	var req ListLotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	page := dto.ListRequest{Page: req.Page, PageSize: req.PageSize}
	page.Normalize()

	lots, total, err := h.ledger.ListLots(c.Request.Context(), appcoc.LotListFilter{
		CompanyName:  req.Company,
		MaterialName: req.Material,
		FromDate:     req.FromDate,
		ToDate:       req.ToDate,
		Page:         page.Page,
		PageSize:     page.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, lots, total, page.Page, page.PageSize)
}

// Stock godoc
// @ID           getCOCStock
// @Summary      Pooled stock per material
// @Description  Every known material is listed alphabetically, with zeros when it has no lots
// @Tags         coc
// @Produce      json
// @Param        company_name  query string false "Accepted for compatibility; stock is pooled"
// @Param        material_name query string false "Restrict to one material"
// @Success      200 {object} APIResponse[[]appcoc.MaterialStockResponse]
// @Router       /coc/stock [get]
func (h *COCHandler) Stock(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	stock, err := h.stock.GetStock(c.Request.Context(), appcoc.StockQuery{
		CompanyName:  req.CompanyName,
		MaterialName: req.MaterialName,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stock)
}

// Validate godoc
// @ID           validateCOCMaterials
// @Summary      Validate material requirements
// @Description  Reports every material the pool cannot cover. Nothing is reserved.
// @Tags         coc
// @Accept       json
// @Produce      json
// @Param        request body ValidateRequest true "Requirements"
// @Success      200 {object} APIResponse[appcoc.ValidationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /coc/validate [post]
func (h *COCHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.validator.Validate(c.Request.Context(), req.Requirements())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Companies godoc
// @ID           listCOCCompanies
// @Summary      Companies with active lots
// @Tags         coc
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Router       /coc/companies [get]
func (h *COCHandler) Companies(c *gin.Context) {
	names, err := h.ledger.Companies(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, names)
}

// Materials godoc
// @ID           listCOCMaterials
// @Summary      Materials with active lots
// @Tags         coc
// @Produce      json
// @Success      200 {object} APIResponse[[]string]
// @Router       /coc/materials [get]
func (h *COCHandler) Materials(c *gin.Context) {
	names, err := h.ledger.Materials(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, names)
}

// LotConsumption godoc
// @ID           getCOCLotConsumption
// @Summary      Consumption history of a lot
// @Tags         coc
// @Produce      json
// @Param        id path int true "Lot ID"
// @Success      200 {object} APIResponse[appcoc.LotConsumptionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /coc/lots/{id}/consumption [get]
func (h *COCHandler) LotConsumption(c *gin.Context) {
	lotID, ok := h.lotID(c)
	if !ok {
		return
	}

	result, err := h.ledger.LotConsumption(c.Request.Context(), lotID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// DeactivateLot godoc
// @ID           deactivateCOCLot
// @Summary      Withdraw a lot from the pool
// @Description  The lot keeps its history but is no longer drawn from
// @Tags         coc
// @Produce      json
// @Param        id path int true "Lot ID"
// @Success      200 {object} APIResponse[LotStatusData]
// @Failure      404 {object} ErrorResponse
// @Router       /coc/lots/{id}/deactivate [post]
func (h *COCHandler) DeactivateLot(c *gin.Context) {
	lotID, ok := h.lotID(c)
	if !ok {
		return
	}

	if err := h.ledger.DeactivateLot(c.Request.Context(), lotID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, LotStatusData{ID: lotID, IsActive: false})
}

// Consume godoc
// @ID           consumeCOCMaterial
// @Summary      Consume one material
// @Description  Draws oldest lots first under row locks. Fails with 422 unless allow_partial is set.
// @Tags         coc
// @Accept       json
// @Produce      json
// @Param        request body ConsumeRequest true "Consumption"
// @Success      200 {object} APIResponse[appcoc.ConsumeResult]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /coc/consume [post]
func (h *COCHandler) Consume(c *gin.Context) {
	var req ConsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	productionDate, err := appcoc.ParseDate(req.ProductionDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result, err := h.consumer.Consume(c.Request.Context(), appcoc.ConsumeCommand{
		CompanyName:    req.CompanyName,
		MaterialName:   req.MaterialName,
		Quantity:       req.Quantity,
		ProductionDate: productionDate,
		LotLabel:       req.LotLabel,
		AllowPartial:   req.AllowPartial,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *COCHandler) lotID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid lot ID")
		return 0, false
	}
	return id, true
}
