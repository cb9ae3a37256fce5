package coc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementsForProduction(t *testing.T) {
	reqs := RequirementsForProduction(10, 144)
	require.Len(t, reqs, 6)

	want := map[string]string{
		MaterialSolarCell:      "1440",
		MaterialGlass:          "20",
		MaterialAluminiumFrame: "40",
		MaterialRibbon:         "5",
		MaterialEVA:            "20",
		MaterialEPE:            "20",
	}
	assert.Equal(t, MaterialSolarCell, reqs[0].Material)
	for _, r := range reqs {
		assert.True(t, r.Quantity.Equal(decimal.RequireFromString(want[r.Material])), r.Material)
	}

	t.Run("default cells per module", func(t *testing.T) {
		reqs := RequirementsForProduction(1, 0)
		assert.True(t, reqs[0].Quantity.Equal(decimal.NewFromInt(DefaultCellsPerModule)))
	})

	t.Run("odd module count gives fractional ribbon", func(t *testing.T) {
		for _, r := range RequirementsForProduction(3, 132) {
			if r.Material == MaterialRibbon {
				assert.Equal(t, "1.5", r.Quantity.String())
			}
		}
	})
}

func TestRequirementsFromMap(t *testing.T) {
	reqs := RequirementsFromMap(map[string]decimal.Decimal{
		MaterialGlass:     decimal.NewFromInt(2),
		MaterialEVA:       decimal.NewFromInt(1),
		MaterialSolarCell: decimal.NewFromInt(3),
	})
	require.Len(t, reqs, 3)
	assert.Equal(t, []string{MaterialEVA, MaterialGlass, MaterialSolarCell},
		[]string{reqs[0].Material, reqs[1].Material, reqs[2].Material})
	assert.Equal(t, []string{MaterialEVA, MaterialGlass, MaterialSolarCell}, MaterialNames(append(reqs, reqs[0])))
}

func TestCatalog(t *testing.T) {
	materials := CanonicalMaterials()
	assert.Len(t, materials, 9)
	materials[0] = "mutated"
	assert.Equal(t, MaterialSolarCell, CanonicalMaterials()[0])

	assert.True(t, IsCanonical(MaterialMC4Connector))
	assert.False(t, IsCanonical("Potting Compound"))
}

func TestCompleteCatalog(t *testing.T) {
	stock := []MaterialStock{{
		Material:      MaterialGlass,
		Make:          "Xinyi",
		Available:     decimal.NewFromInt(80),
		TotalReceived: decimal.NewFromInt(100),
		TotalConsumed: decimal.NewFromInt(20),
		LotCount:      2,
	}}

	t.Run("fills every catalog material in name order", func(t *testing.T) {
		out := CompleteCatalog(stock, "")
		require.Len(t, out, 9)
		for i := 1; i < len(out); i++ {
			assert.Less(t, out[i-1].Material, out[i].Material)
		}
		for _, s := range out {
			if s.Material == MaterialGlass {
				assert.True(t, s.Available.Equal(decimal.NewFromInt(80)))
			} else {
				assert.True(t, s.Available.IsZero())
				assert.Equal(t, NoMake, s.Make)
			}
		}
	})

	t.Run("single material with no lots", func(t *testing.T) {
		out := CompleteCatalog(stock, MaterialMC4Connector)
		require.Len(t, out, 1)
		assert.Equal(t, MaterialMC4Connector, out[0].Material)
		assert.True(t, out[0].Available.IsZero())
		assert.True(t, out[0].TotalReceived.IsZero())
		assert.True(t, out[0].TotalConsumed.IsZero())
	})

	t.Run("non catalog materials are kept", func(t *testing.T) {
		out := CompleteCatalog(append(stock, MaterialStock{Material: "Sealant"}), "")
		assert.Len(t, out, 10)
	})
}

func TestMaterialLot(t *testing.T) {
	key := LotKey{CompanyName: "Acme", MaterialName: MaterialGlass, LotBatchNo: "G-01", InvoiceNo: "INV-9"}

	lot, err := NewMaterialLot(key, decimal.NewFromInt(100), day(1))
	require.NoError(t, err)
	assert.True(t, lot.IsActive)
	assert.Equal(t, "G-01 (Invoice: INV-9)", lot.Reference())
	assert.Equal(t, key, lot.Key())

	t.Run("missing key part", func(t *testing.T) {
		bad := key
		bad.InvoiceNo = " "
		_, err := NewMaterialLot(bad, decimal.NewFromInt(1), day(1))
		assert.Error(t, err)
	})

	t.Run("consumed above received is invalid", func(t *testing.T) {
		l := *lot
		l.ConsumedQty = decimal.NewFromInt(101)
		assert.Error(t, l.Validate())
	})

	t.Run("refresh keeps consumption", func(t *testing.T) {
		l := *lot
		l.ConsumedQty = decimal.NewFromInt(40)
		src := *lot
		src.Brand = "Xinyi"
		src.ReceivedQty = decimal.NewFromInt(120)
		now := time.Now()

		l.RefreshFrom(&src, now)
		assert.Equal(t, "Xinyi", l.Brand)
		assert.True(t, l.ReceivedQty.Equal(decimal.NewFromInt(120)))
		assert.True(t, l.ConsumedQty.Equal(decimal.NewFromInt(40)))
		require.NotNil(t, l.LastSyncedAt)
	})
}

func TestProductionRecord(t *testing.T) {
	r, err := NewProductionRecord("Acme", day(2), 120, 80, "LOT-7")
	require.NoError(t, err)
	assert.Equal(t, 200, r.TotalProduction())

	_, err = NewProductionRecord("Acme", day(2), 0, 0, "LOT-7")
	assert.Error(t, err)

	_, err = NewProductionRecord("Acme", day(2), -1, 5, "LOT-7")
	assert.Error(t, err)

	var c *Company
	assert.Equal(t, DefaultCellsPerModule, c.EffectiveCellsPerModule())
	assert.Equal(t, 144, (&Company{CellsPerModule: 144}).EffectiveCellsPerModule())
}
