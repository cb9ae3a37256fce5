package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/coc"
)

// MaterialLotModel is the persistence model for a COC document.
// AvailableQty is a generated column and is never written.
type MaterialLotModel struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	ExternalID     string          `gorm:"type:varchar(64)"`
	CompanyName    string          `gorm:"type:varchar(255);not null;index"`
	MaterialName   string          `gorm:"type:varchar(100);not null;index"`
	Brand          string          `gorm:"type:varchar(255)"`
	ProductType    string          `gorm:"type:varchar(255)"`
	LotBatchNo     string          `gorm:"type:varchar(255);not null"`
	InvoiceNo      string          `gorm:"type:varchar(100);not null"`
	InvoiceQty     decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	ReceivedQty    decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	ConsumedQty    decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	AvailableQty   decimal.Decimal `gorm:"->;type:decimal(14,4)"`
	InvoiceDate    time.Time       `gorm:"type:date;not null;index"`
	EntryDate      *time.Time      `gorm:"type:date"`
	Username       string          `gorm:"type:varchar(100)"`
	COCDocumentURL string          `gorm:"column:coc_document_url;type:varchar(500)"`
	IQCDocumentURL string          `gorm:"column:iqc_document_url;type:varchar(500)"`
	IsActive       bool            `gorm:"not null;default:true;index"`
	LastSyncedAt   *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MaterialLotModel) TableName() string {
	return "coc_documents"
}

// ToDomain converts the persistence model to a domain MaterialLot
func (m *MaterialLotModel) ToDomain() *coc.MaterialLot {
	return &coc.MaterialLot{
		ID:             m.ID,
		ExternalID:     m.ExternalID,
		CompanyName:    m.CompanyName,
		MaterialName:   m.MaterialName,
		Brand:          m.Brand,
		ProductType:    m.ProductType,
		LotBatchNo:     m.LotBatchNo,
		InvoiceNo:      m.InvoiceNo,
		InvoiceQty:     m.InvoiceQty,
		ReceivedQty:    m.ReceivedQty,
		ConsumedQty:    m.ConsumedQty,
		AvailableQty:   m.AvailableQty,
		InvoiceDate:    m.InvoiceDate,
		EntryDate:      m.EntryDate,
		Username:       m.Username,
		COCDocumentURL: m.COCDocumentURL,
		IQCDocumentURL: m.IQCDocumentURL,
		IsActive:       m.IsActive,
		LastSyncedAt:   m.LastSyncedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// MaterialLotModelFromDomain creates a persistence model from a domain lot
func MaterialLotModelFromDomain(l *coc.MaterialLot) *MaterialLotModel {
	return &MaterialLotModel{
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
		InvoiceDate:    l.InvoiceDate,
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

// ConsumptionRecordModel is the persistence model for a consumption log entry
type ConsumptionRecordModel struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement"`
	ProductionDate     time.Time       `gorm:"type:date;not null;index"`
	CompanyName        string          `gorm:"type:varchar(255)"`
	MaterialName       string          `gorm:"type:varchar(100);not null;index"`
	LotID              int64           `gorm:"not null;index"`
	LotReference       string          `gorm:"type:varchar(400)"`
	ProductionLot      string          `gorm:"type:varchar(100);index"`
	ProductionRecordID *uuid.UUID      `gorm:"type:uuid;index"`
	ConsumedQuantity   decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConsumptionRecordModel) TableName() string {
	return "material_consumption"
}

// ToDomain converts the persistence model to a domain ConsumptionRecord
func (m *ConsumptionRecordModel) ToDomain() *coc.ConsumptionRecord {
	return &coc.ConsumptionRecord{
		ID:                 m.ID,
		ProductionDate:     m.ProductionDate,
		CompanyName:        m.CompanyName,
		MaterialName:       m.MaterialName,
		LotID:              m.LotID,
		LotReference:       m.LotReference,
		ProductionLot:      m.ProductionLot,
		ProductionRecordID: m.ProductionRecordID,
		ConsumedQuantity:   m.ConsumedQuantity,
		CreatedAt:          m.CreatedAt,
	}
}

// ConsumptionRecordModelFromDomain creates a persistence model from a domain record
func ConsumptionRecordModelFromDomain(r *coc.ConsumptionRecord) *ConsumptionRecordModel {
	return &ConsumptionRecordModel{
		ID:                 r.ID,
		ProductionDate:     r.ProductionDate,
		CompanyName:        r.CompanyName,
		MaterialName:       r.MaterialName,
		LotID:              r.LotID,
		LotReference:       r.LotReference,
		ProductionLot:      r.ProductionLot,
		ProductionRecordID: r.ProductionRecordID,
		ConsumedQuantity:   r.ConsumedQuantity,
		CreatedAt:          r.CreatedAt,
	}
}

// ProductionRecordModel is the persistence model for a production record
type ProductionRecordModel struct {
	BaseModel
	CompanyName     string    `gorm:"type:varchar(255);not null;index"`
	ProductionDate  time.Time `gorm:"type:date;not null;index"`
	DayProduction   int       `gorm:"not null;default:0"`
	NightProduction int       `gorm:"not null;default:0"`
	LotNumber       string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ProductionRecordModel) TableName() string {
	return "production_records"
}

// ToDomain converts the persistence model to a domain ProductionRecord
func (m *ProductionRecordModel) ToDomain() *coc.ProductionRecord {
	return &coc.ProductionRecord{
		BaseEntity:      m.BaseModel.ToDomain(),
		CompanyName:     m.CompanyName,
		ProductionDate:  m.ProductionDate,
		DayProduction:   m.DayProduction,
		NightProduction: m.NightProduction,
		LotNumber:       m.LotNumber,
	}
}

// ProductionRecordModelFromDomain creates a persistence model from a domain record
func ProductionRecordModelFromDomain(r *coc.ProductionRecord) *ProductionRecordModel {
	m := &ProductionRecordModel{
		CompanyName:     r.CompanyName,
		ProductionDate:  r.ProductionDate,
		DayProduction:   r.DayProduction,
		NightProduction: r.NightProduction,
		LotNumber:       r.LotNumber,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}

// CompanyModel is the persistence model for a company's module design
type CompanyModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"column:company_name;type:varchar(255);not null;uniqueIndex"`
	CellsPerModule int    `gorm:"not null;default:132"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *coc.Company {
	return &coc.Company{
		ID:             m.ID,
		Name:           m.Name,
		CellsPerModule: m.CellsPerModule,
	}
}

