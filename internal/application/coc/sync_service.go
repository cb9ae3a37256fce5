package coc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ExternalLot is a lot record as delivered by the external inventory feed.
// Values arrive as text and are parsed per record.
type ExternalLot struct {
	ExternalID     string
	CompanyName    string
	MaterialName   string
	Brand          string
	ProductType    string
	LotBatchNo     string
	InvoiceNo      string
	InvoiceQty     string
	COCQty         string
	InvoiceDate    string
	EntryDate      string
	Username       string
	COCDocumentURL string
	IQCDocumentURL string
}

// LotFeed fetches lot records from the external inventory system
type LotFeed interface {
	FetchLots(ctx context.Context, from, to time.Time) ([]ExternalLot, error)
}

// SyncConfig configures the sync service
type SyncConfig struct {
	// FetchTimeout bounds the outbound fetch; zero leaves only the caller's deadline
	FetchTimeout      time.Duration
	DefaultWindowDays int
}

// DefaultSyncWindowDays is the trailing window used when no dates are given
const DefaultSyncWindowDays = 30

// SyncService pulls lots from the external feed into the ledger.
// Each record is upserted on its own; a bad record is counted and skipped.
type SyncService struct {
	feed    LotFeed
	lotRepo coc.LotRepository
	cfg     SyncConfig
	metrics AllocationMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewSyncService creates a new SyncService
func NewSyncService(feed LotFeed, lotRepo coc.LotRepository, cfg SyncConfig, logger *zap.Logger) *SyncService {
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = DefaultSyncWindowDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		feed:    feed,
		lotRepo: lotRepo,
		cfg:     cfg,
		metrics: noopMetrics{},
		logger:  logger,
		now:     time.Now,
	}
}

// SetMetrics sets the metrics recorder
func (s *SyncService) SetMetrics(m AllocationMetrics) {
	if m != nil {
		s.metrics = m
	}
}

// Sync fetches the window's lots and upserts them by natural key.
// Running it again over the same feed creates no new lots.
func (s *SyncService) Sync(ctx context.Context, cmd SyncCommand) (*SyncResult, error) {
	from, to, err := s.window(cmd)
	if err != nil {
		return nil, err
	}

	records, err := s.fetch(ctx, from, to)
	if err != nil {
		s.logger.Error("COC feed fetch failed",
			zap.String("from", from.Format(DateLayout)),
			zap.String("to", to.Format(DateLayout)),
			zap.Error(err),
		)
		return nil, err
	}

	result := &SyncResult{Total: len(records)}
	syncedAt := s.now()
	for i := range records {
		rec := &records[i]
		lot, err := s.toLot(rec, syncedAt)
		if err == nil {
			var created bool
			created, err = s.lotRepo.UpsertFromFeed(ctx, lot)
			if err == nil {
				if created {
					result.Synced++
				} else {
					result.Updated++
				}
				continue
			}
		}
		result.Errors++
		s.logger.Warn("Skipping COC record",
			zap.String("external_id", rec.ExternalID),
			zap.String("lot_batch_no", rec.LotBatchNo),
			zap.String("invoice_no", rec.InvoiceNo),
			zap.Error(err),
		)
	}

	s.metrics.RecordSyncRecords(ctx, OutcomeInserted, result.Synced)
	s.metrics.RecordSyncRecords(ctx, OutcomeUpdated, result.Updated)
	s.metrics.RecordSyncRecords(ctx, OutcomeFailed, result.Errors)
	s.logger.Info("COC sync completed",
		zap.String("from", from.Format(DateLayout)),
		zap.String("to", to.Format(DateLayout)),
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("updated", result.Updated),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}

// fetch calls the feed with no transaction open
func (s *SyncService) fetch(ctx context.Context, from, to time.Time) ([]ExternalLot, error) {
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}
	return s.feed.FetchLots(ctx, from, to)
}

func (s *SyncService) window(cmd SyncCommand) (time.Time, time.Time, error) {
	to := truncateDay(s.now())
	if cmd.ToDate != "" {
		t, err := ParseDate(cmd.ToDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = truncateDay(t)
	}
	from := to.AddDate(0, 0, -s.cfg.DefaultWindowDays)
	if cmd.FromDate != "" {
		f, err := ParseDate(cmd.FromDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = truncateDay(f)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_INPUT", "from_date must not be after to_date")
	}
	return from, to, nil
}

func (s *SyncService) toLot(rec *ExternalLot, syncedAt time.Time) (*coc.MaterialLot, error) {
	received, err := parseQuantity("coc_qty", rec.COCQty)
	if err != nil {
		return nil, err
	}
	invoiceQty := received
	if strings.TrimSpace(rec.InvoiceQty) != "" {
		if invoiceQty, err = parseQuantity("invoice_qty", rec.InvoiceQty); err != nil {
			return nil, err
		}
	}
	invoiceDate, err := ParseDate(rec.InvoiceDate)
	if err != nil {
		return nil, err
	}

	lot, err := coc.NewMaterialLot(coc.LotKey{
		CompanyName:  rec.CompanyName,
		MaterialName: rec.MaterialName,
		LotBatchNo:   rec.LotBatchNo,
		InvoiceNo:    rec.InvoiceNo,
	}, received, truncateDay(invoiceDate))
	if err != nil {
		return nil, err
	}

	lot.ExternalID = strings.TrimSpace(rec.ExternalID)
	lot.Brand = strings.TrimSpace(rec.Brand)
	lot.ProductType = strings.TrimSpace(rec.ProductType)
	lot.InvoiceQty = invoiceQty
	lot.Username = strings.TrimSpace(rec.Username)
	lot.COCDocumentURL = strings.TrimSpace(rec.COCDocumentURL)
	lot.IQCDocumentURL = strings.TrimSpace(rec.IQCDocumentURL)
	lot.LastSyncedAt = &syncedAt
	if strings.TrimSpace(rec.EntryDate) != "" {
		if entry, err := ParseDate(rec.EntryDate); err == nil {
			lot.EntryDate = &entry
		}
	}
	return lot, nil
}

func parseQuantity(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", field+" is required")
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("%s is not a number: %q", field, raw))
	}
	if qty.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", field+" cannot be negative")
	}
	if err := coc.CheckQuantityScale(field, qty); err != nil {
		return decimal.Zero, err
	}
	return qty, nil
}
