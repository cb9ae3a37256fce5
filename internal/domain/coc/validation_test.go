package coc

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/solarqc/coc-backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRequirements(t *testing.T) {
	available := map[string]decimal.Decimal{
		MaterialSolarCell: decimal.NewFromInt(1000),
	}

	t.Run("exact availability is valid", func(t *testing.T) {
		result, err := EvaluateRequirements([]MaterialRequirement{
			{Material: MaterialSolarCell, Quantity: decimal.NewFromInt(1000)},
		}, available)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Insufficient)
	})

	t.Run("one over is short by one", func(t *testing.T) {
		result, err := EvaluateRequirements([]MaterialRequirement{
			{Material: MaterialSolarCell, Quantity: decimal.NewFromInt(1001)},
		}, available)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		require.Len(t, result.Insufficient, 1)
		s := result.Insufficient[0]
		assert.Equal(t, MaterialSolarCell, s.Material)
		assert.True(t, s.Shortage.Equal(decimal.NewFromInt(1)))
		assert.True(t, s.Available.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("material with no lots counts as zero stock", func(t *testing.T) {
		result, err := EvaluateRequirements([]MaterialRequirement{
			{Material: MaterialMC4Connector, Quantity: decimal.NewFromInt(4)},
			{Material: "Potting Compound", Quantity: decimal.NewFromInt(1)},
		}, available)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		require.Len(t, result.Insufficient, 2)
		assert.Equal(t, MaterialMC4Connector, result.Insufficient[0].Material)
		assert.True(t, result.Insufficient[0].Available.IsZero())
		assert.Equal(t, "Potting Compound", result.Insufficient[1].Material)
	})

	t.Run("zero requirement always passes", func(t *testing.T) {
		result, err := EvaluateRequirements([]MaterialRequirement{
			{Material: MaterialMC4Connector, Quantity: decimal.Zero},
		}, nil)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("negative requirement is rejected", func(t *testing.T) {
		_, err := EvaluateRequirements([]MaterialRequirement{
			{Material: MaterialGlass, Quantity: decimal.NewFromInt(-2)},
		}, available)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("requirement finer than four decimals is rejected", func(t *testing.T) {
		_, err := EvaluateRequirements([]MaterialRequirement{
			{Material: MaterialRibbon, Quantity: decimal.RequireFromString("0.12345")},
		}, available)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestInsufficientErrors(t *testing.T) {
	stockErr := &InsufficientStockError{
		Material:  MaterialGlass,
		Requested: decimal.NewFromInt(100),
		Available: decimal.NewFromInt(80),
		Shortfall: decimal.NewFromInt(20),
	}
	assert.True(t, errors.Is(stockErr, shared.ErrInsufficientStock))
	assert.Contains(t, stockErr.Error(), "short by 20")

	var wrapped error = &InsufficientMaterialsError{Shortages: []Shortage{{
		Material:  MaterialEVA,
		Required:  decimal.NewFromInt(10),
		Available: decimal.NewFromInt(3),
		Shortage:  decimal.NewFromInt(7),
	}}}
	assert.True(t, errors.Is(wrapped, shared.ErrInsufficientMaterials))
	assert.False(t, errors.Is(wrapped, shared.ErrInsufficientStock))

	var target *InsufficientMaterialsError
	require.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Shortages, 1)
}
