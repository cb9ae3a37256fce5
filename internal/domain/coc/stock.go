package coc

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MaterialStock is the pooled stock of one material across all companies
type MaterialStock struct {
	Material      string
	Make          string
	Available     decimal.Decimal
	TotalReceived decimal.Decimal
	TotalConsumed decimal.Decimal
	LotCount      int64
}

// NoMake is shown when no lot of a material names a brand
const NoMake = "N/A"

// ZeroStock returns an empty stock entry for material
func ZeroStock(material string) MaterialStock {
	return MaterialStock{
		Material:      material,
		Make:          NoMake,
		Available:     decimal.Zero,
		TotalReceived: decimal.Zero,
		TotalConsumed: decimal.Zero,
	}
}

// CompleteCatalog fills in zero entries for catalog materials with no lots and
// sorts the result by material name. When only is non-empty the result holds
// just that material, synthesized if it has no lots.
func CompleteCatalog(stock []MaterialStock, only string) []MaterialStock {
	byName := make(map[string]MaterialStock, len(stock))
	for _, s := range stock {
		if only != "" && s.Material != only {
			continue
		}
		byName[s.Material] = s
	}

	if only != "" {
		if _, ok := byName[only]; !ok {
			byName[only] = ZeroStock(only)
		}
	} else {
		for _, m := range canonicalMaterials {
			if _, ok := byName[m]; !ok {
				byName[m] = ZeroStock(m)
			}
		}
	}

	out := make([]MaterialStock, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Material < out[j].Material
	})
	return out
}

// MaterialAvailability is the drawable stock of one material: totals over
// active lots that still have quantity available.
type MaterialAvailability struct {
	Material      string
	Available     decimal.Decimal
	TotalReceived decimal.Decimal
	TotalConsumed decimal.Decimal
	LotCount      int64
}
