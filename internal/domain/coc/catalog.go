package coc

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Canonical raw materials of a solar module bill of materials
const (
	MaterialSolarCell      = "Solar Cell"
	MaterialGlass          = "Glass"
	MaterialAluminiumFrame = "Aluminium Frame"
	MaterialRibbon         = "Ribbon"
	MaterialEVA            = "EVA"
	MaterialBackSheet      = "Back Sheet"
	MaterialEPE            = "EPE"
	MaterialJunctionBox    = "Junction Box"
	MaterialMC4Connector   = "MC4 Connector"
)

// DefaultCellsPerModule is used when a company has no explicit cell count
const DefaultCellsPerModule = 132

var canonicalMaterials = []string{
	MaterialSolarCell,
	MaterialGlass,
	MaterialAluminiumFrame,
	MaterialRibbon,
	MaterialEVA,
	MaterialBackSheet,
	MaterialEPE,
	MaterialJunctionBox,
	MaterialMC4Connector,
}

// CanonicalMaterials returns the fixed material catalog in catalog order.
// Stock listings always contain every entry, even with zero lots on file.
func CanonicalMaterials() []string {
	out := make([]string, len(canonicalMaterials))
	copy(out, canonicalMaterials)
	return out
}

// IsCanonical reports whether name is in the material catalog
func IsCanonical(name string) bool {
	for _, m := range canonicalMaterials {
		if m == name {
			return true
		}
	}
	return false
}

// perModuleUsage is the fixed quantity of each material drawn per module.
// Solar cells depend on the company's module design and are added separately.
var perModuleUsage = []struct {
	material string
	quantity decimal.Decimal
}{
	{MaterialGlass, decimal.NewFromInt(2)},
	{MaterialAluminiumFrame, decimal.NewFromInt(4)},
	{MaterialRibbon, decimal.RequireFromString("0.5")},
	{MaterialEVA, decimal.NewFromInt(2)},
	{MaterialEPE, decimal.NewFromInt(2)},
}

// MaterialRequirement is the quantity of one material a production request needs
type MaterialRequirement struct {
	Material string
	Quantity decimal.Decimal
}

// RequirementsForProduction derives the bill of materials for totalModules modules.
// A non-positive cellsPerModule falls back to DefaultCellsPerModule.
func RequirementsForProduction(totalModules, cellsPerModule int) []MaterialRequirement {
	if cellsPerModule <= 0 {
		cellsPerModule = DefaultCellsPerModule
	}
	modules := decimal.NewFromInt(int64(totalModules))

	reqs := make([]MaterialRequirement, 0, len(perModuleUsage)+1)
	reqs = append(reqs, MaterialRequirement{
		Material: MaterialSolarCell,
		Quantity: modules.Mul(decimal.NewFromInt(int64(cellsPerModule))),
	})
	for _, u := range perModuleUsage {
		reqs = append(reqs, MaterialRequirement{
			Material: u.material,
			Quantity: modules.Mul(u.quantity),
		})
	}
	return reqs
}

// RequirementsFromMap converts a material->quantity map into requirements
// ordered by material name, giving map input a deterministic order.
func RequirementsFromMap(m map[string]decimal.Decimal) []MaterialRequirement {
	reqs := make([]MaterialRequirement, 0, len(m))
	for material, qty := range m {
		reqs = append(reqs, MaterialRequirement{Material: material, Quantity: qty})
	}
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].Material < reqs[j].Material
	})
	return reqs
}

// MaterialNames returns the distinct material names of reqs in sorted order
func MaterialNames(reqs []MaterialRequirement) []string {
	seen := make(map[string]struct{}, len(reqs))
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.Material]; ok {
			continue
		}
		seen[r.Material] = struct{}{}
		names = append(names, r.Material)
	}
	sort.Strings(names)
	return names
}
