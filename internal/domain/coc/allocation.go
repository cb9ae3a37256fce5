package coc

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
)

// LotDraw is the quantity taken from a single lot
type LotDraw struct {
	LotID          int64
	LotBatchNo     string
	InvoiceNo      string
	LotReference   string
	Quantity       decimal.Decimal
	RemainingInLot decimal.Decimal // projected availability once the draw is applied
	Exhausted      bool
}

// Allocation is the deduction plan for one material
type Allocation struct {
	Material   string
	Requested  decimal.Decimal
	TotalDrawn decimal.Decimal
	Shortfall  decimal.Decimal
	Draws      []LotDraw
}

// FullySatisfied reports whether every requested unit was drawn
func (a *Allocation) FullySatisfied() bool {
	return a.Shortfall.IsZero()
}

// FIFOAllocator plans deductions oldest invoice first.
// Lots with the same invoice date are drawn in insertion (id) order.
type FIFOAllocator struct{}

// NewFIFOAllocator creates a FIFO allocator
func NewFIFOAllocator() *FIFOAllocator {
	return &FIFOAllocator{}
}

// Order filters lots to those that can be drawn from and sorts them into FIFO order.
// The input slice is not modified.
func (a *FIFOAllocator) Order(lots []MaterialLot) []MaterialLot {
	ordered := make([]MaterialLot, 0, len(lots))
	for _, l := range lots {
		if l.HasStock() {
			ordered = append(ordered, l)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].InvoiceDate.Equal(ordered[j].InvoiceDate) {
			return ordered[i].InvoiceDate.Before(ordered[j].InvoiceDate)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// Plan computes how much of quantity to take from each lot of material.
// It never plans more than a lot has available; any uncovered quantity is
// reported as Shortfall rather than an error.
func (a *FIFOAllocator) Plan(material string, quantity decimal.Decimal, lots []MaterialLot) (*Allocation, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	if err := CheckQuantityScale("requested quantity", quantity); err != nil {
		return nil, err
	}

	result := &Allocation{
		Material:   material,
		Requested:  quantity,
		TotalDrawn: decimal.Zero,
		Draws:      make([]LotDraw, 0),
	}

	remaining := quantity
	for _, lot := range a.Order(lots) {
		if remaining.IsZero() {
			break
		}
		if lot.MaterialName != material {
			continue
		}

		take := decimal.Min(remaining, lot.AvailableQty)
		left := lot.AvailableQty.Sub(take)
		result.Draws = append(result.Draws, LotDraw{
			LotID:          lot.ID,
			LotBatchNo:     lot.LotBatchNo,
			InvoiceNo:      lot.InvoiceNo,
			LotReference:   lot.Reference(),
			Quantity:       take,
			RemainingInLot: left,
			Exhausted:      left.IsZero(),
		})
		result.TotalDrawn = result.TotalDrawn.Add(take)
		remaining = remaining.Sub(take)
	}

	result.Shortfall = remaining
	return result, nil
}

// TotalAvailable sums the availability of the lots that can be drawn from
func TotalAvailable(lots []MaterialLot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		if l.HasStock() {
			total = total.Add(l.AvailableQty)
		}
	}
	return total
}
