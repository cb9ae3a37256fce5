package coc

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// LotKey is the natural key of a lot: one received shipment of one material
// for one company against one invoice.
type LotKey struct {
	CompanyName  string
	MaterialName string
	LotBatchNo   string
	InvoiceNo    string
}

// Validate checks that every key part is present
func (k LotKey) Validate() error {
	switch {
	case strings.TrimSpace(k.CompanyName) == "":
		return shared.NewDomainError("INVALID_INPUT", "company name is required")
	case strings.TrimSpace(k.MaterialName) == "":
		return shared.NewDomainError("INVALID_INPUT", "material name is required")
	case strings.TrimSpace(k.LotBatchNo) == "":
		return shared.NewDomainError("INVALID_INPUT", "lot/batch number is required")
	case strings.TrimSpace(k.InvoiceNo) == "":
		return shared.NewDomainError("INVALID_INPUT", "invoice number is required")
	}
	return nil
}

// String renders the key for logs
func (k LotKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.CompanyName, k.MaterialName, k.LotBatchNo, k.InvoiceNo)
}

// MaterialLot is a certificate-of-conformance document: the received quantity
// of one lot and how much of it production has drawn down.
//
// AvailableQty is read from the store, where it is derived as
// received_qty - consumed_qty. It is never assigned by application code.
type MaterialLot struct {
	ID             int64
	ExternalID     string
	CompanyName    string
	MaterialName   string
	Brand          string
	ProductType    string
	LotBatchNo     string
	InvoiceNo      string
	InvoiceQty     decimal.Decimal
	ReceivedQty    decimal.Decimal
	ConsumedQty    decimal.Decimal
	AvailableQty   decimal.Decimal
	InvoiceDate    time.Time
	EntryDate      *time.Time
	Username       string
	COCDocumentURL string
	IQCDocumentURL string
	IsActive       bool
	LastSyncedAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewMaterialLot creates an active, unconsumed lot for key
func NewMaterialLot(key LotKey, receivedQty decimal.Decimal, invoiceDate time.Time) (*MaterialLot, error) {
	lot := &MaterialLot{
		CompanyName:  strings.TrimSpace(key.CompanyName),
		MaterialName: strings.TrimSpace(key.MaterialName),
		LotBatchNo:   strings.TrimSpace(key.LotBatchNo),
		InvoiceNo:    strings.TrimSpace(key.InvoiceNo),
		ReceivedQty:  receivedQty,
		InvoiceQty:   receivedQty,
		ConsumedQty:  decimal.Zero,
		InvoiceDate:  invoiceDate,
		IsActive:     true,
	}
	if err := lot.Validate(); err != nil {
		return nil, err
	}
	return lot, nil
}

// Key returns the lot's natural key
func (l *MaterialLot) Key() LotKey {
	return LotKey{
		CompanyName:  l.CompanyName,
		MaterialName: l.MaterialName,
		LotBatchNo:   l.LotBatchNo,
		InvoiceNo:    l.InvoiceNo,
	}
}

// Reference is the human label written on consumption records
func (l *MaterialLot) Reference() string {
	return fmt.Sprintf("%s (Invoice: %s)", l.LotBatchNo, l.InvoiceNo)
}

// HasStock reports whether the lot can be drawn from
func (l *MaterialLot) HasStock() bool {
	return l.IsActive && l.AvailableQty.GreaterThan(decimal.Zero)
}

// Validate checks the lot's invariants
func (l *MaterialLot) Validate() error {
	if err := l.Key().Validate(); err != nil {
		return err
	}
	if l.InvoiceDate.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "invoice date is required")
	}
	if l.ReceivedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "received quantity cannot be negative")
	}
	if err := CheckQuantityScale("received quantity", l.ReceivedQty); err != nil {
		return err
	}
	if l.ConsumedQty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "consumed quantity cannot be negative")
	}
	if l.ConsumedQty.GreaterThan(l.ReceivedQty) {
		return shared.NewDomainError("INVALID_QUANTITY", "consumed quantity cannot exceed received quantity")
	}
	return nil
}

// RefreshFrom copies the descriptive fields of a re-synced lot onto l.
// Consumption and activity state are left untouched.
func (l *MaterialLot) RefreshFrom(src *MaterialLot, syncedAt time.Time) {
	l.ExternalID = src.ExternalID
	l.Brand = src.Brand
	l.ProductType = src.ProductType
	l.ReceivedQty = src.ReceivedQty
	l.InvoiceQty = src.InvoiceQty
	l.InvoiceDate = src.InvoiceDate
	l.EntryDate = src.EntryDate
	l.Username = src.Username
	l.COCDocumentURL = src.COCDocumentURL
	l.IQCDocumentURL = src.IQCDocumentURL
	l.LastSyncedAt = &syncedAt
}
