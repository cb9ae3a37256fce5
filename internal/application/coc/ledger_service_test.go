package coc

import (
	"context"
	"errors"
	"testing"

	"github.com/solarqc/coc-backend/internal/domain/coc"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_ListLots(t *testing.T) {
	ctx := context.Background()

	t.Run("passes filter and converts lots", func(t *testing.T) {
		lotRepo := new(MockLotRepository)
		lotRepo.On("List", ctx, mock.MatchedBy(func(f coc.LotFilter) bool {
			return f.MaterialName == coc.MaterialGlass &&
				f.FromDate != nil && f.FromDate.Equal(jan(1)) &&
				f.Pagination.Page == 2 && f.Pagination.PageSize == 10
		})).Return([]coc.MaterialLot{lot(1, coc.MaterialGlass, "L1", jan(3), 50, 5)}, int64(11), nil)
		svc := NewLedgerService(lotRepo, new(MockConsumptionRepository), nil)

		lots, total, err := svc.ListLots(ctx, LotListFilter{
			MaterialName: " Glass ",
			FromDate:     "2025-01-01",
			Page:         2,
			PageSize:     10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(11), total)
		require.Len(t, lots, 1)
		assert.Equal(t, "2025-01-03", lots[0].InvoiceDate)
		assert.True(t, lots[0].AvailableQty.Equal(dec("45")))
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		svc := NewLedgerService(new(MockLotRepository), new(MockConsumptionRepository), nil)
		_, _, err := svc.ListLots(ctx, LotListFilter{FromDate: "2025-02-01", ToDate: "2025-01-01"})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("rejects bad date", func(t *testing.T) {
		svc := NewLedgerService(new(MockLotRepository), new(MockConsumptionRepository), nil)
		_, _, err := svc.ListLots(ctx, LotListFilter{ToDate: "01/02/2025"})
		assert.Error(t, err)
	})
}

func TestLedgerService_LotConsumption(t *testing.T) {
	ctx := context.Background()
	l := lot(4, coc.MaterialGlass, "L4", jan(1), 50, 30)

	lotRepo := new(MockLotRepository)
	lotRepo.On("FindByID", ctx, int64(4)).Return(&l, nil)
	lotRepo.On("FindByID", ctx, int64(99)).Return(nil, shared.ErrNotFound)
	consumptionRepo := new(MockConsumptionRepository)
	consumptionRepo.On("FindByLot", ctx, int64(4)).Return([]coc.ConsumptionRecord{
		{ID: 1, LotID: 4, MaterialName: coc.MaterialGlass, ConsumedQuantity: dec("20"), ProductionDate: jan(5), ProductionLot: "PL-1"},
		{ID: 2, LotID: 4, MaterialName: coc.MaterialGlass, ConsumedQuantity: dec("10"), ProductionDate: jan(6), ProductionLot: "PL-2"},
	}, nil)
	svc := NewLedgerService(lotRepo, consumptionRepo, nil)

	resp, err := svc.LotConsumption(ctx, 4)
	require.NoError(t, err)
	assert.True(t, resp.Balanced)
	assert.True(t, resp.TotalConsumed.Equal(dec("30")))
	require.Len(t, resp.Consumption, 2)
	assert.Equal(t, "2025-01-05", resp.Consumption[0].ProductionDate)

	_, err = svc.LotConsumption(ctx, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedgerService_Lists(t *testing.T) {
	ctx := context.Background()
	lotRepo := new(MockLotRepository)
	lotRepo.On("DistinctCompanies", ctx).Return([]string{"Acme Solar", "Sunrise"}, nil)
	lotRepo.On("DistinctMaterials", ctx).Return([]string{coc.MaterialEVA, coc.MaterialGlass}, nil)
	lotRepo.On("Deactivate", ctx, int64(3)).Return(nil)
	svc := NewLedgerService(lotRepo, new(MockConsumptionRepository), nil)

	companies, err := svc.Companies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Solar", "Sunrise"}, companies)

	materials, err := svc.Materials(ctx)
	require.NoError(t, err)
	assert.Len(t, materials, 2)

	require.NoError(t, svc.DeactivateLot(ctx, 3))
	lotRepo.AssertExpectations(t)
}
