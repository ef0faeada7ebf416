package enums

import "fmt"

// ComponentCategory enumerates the non-tire goods the shop stocks.
type ComponentCategory string

const (
	ComponentCategoryCovers          ComponentCategory = "covers"
	ComponentCategoryRacks           ComponentCategory = "racks"
	ComponentCategoryAlloyWheels     ComponentCategory = "alloy_wheels"
	ComponentCategorySteelWheels     ComponentCategory = "steel_wheels"
	ComponentCategoryForgedWheels    ComponentCategory = "forged_wheels"
	ComponentCategoryBolts           ComponentCategory = "bolts"
	ComponentCategoryCaps            ComponentCategory = "caps"
	ComponentCategoryRings           ComponentCategory = "rings"
	ComponentCategoryValves          ComponentCategory = "valves"
	ComponentCategoryValveCaps       ComponentCategory = "valve_caps"
	ComponentCategorySealingTape     ComponentCategory = "sealing_tape"
	ComponentCategorySealants        ComponentCategory = "sealants"
	ComponentCategoryBalanceWeights  ComponentCategory = "balance_weights"
	ComponentCategoryInnerTubes      ComponentCategory = "inner_tubes"
	ComponentCategoryRepairMaterials ComponentCategory = "repair_materials"
	ComponentCategoryCleaners        ComponentCategory = "cleaners"
	ComponentCategoryProtectors      ComponentCategory = "protectors"
	ComponentCategoryDustDefense     ComponentCategory = "dust_defense"
	ComponentCategoryCompressors     ComponentCategory = "compressors"
	ComponentCategoryManometers      ComponentCategory = "manometers"
	ComponentCategoryTPMS            ComponentCategory = "tpms"
	ComponentCategoryJacks           ComponentCategory = "jacks"
	ComponentCategoryWrenches        ComponentCategory = "wrenches"
	ComponentCategoryTools           ComponentCategory = "tools"
	ComponentCategoryAntipuncture    ComponentCategory = "antipuncture"
	ComponentCategoryWasherFluids    ComponentCategory = "washer_fluids"
	ComponentCategoryBrushes         ComponentCategory = "brushes"
	ComponentCategoryCarCare         ComponentCategory = "car_care"
)

var validComponentCategories = []ComponentCategory{
	ComponentCategoryCovers,
	ComponentCategoryRacks,
	ComponentCategoryAlloyWheels,
	ComponentCategorySteelWheels,
	ComponentCategoryForgedWheels,
	ComponentCategoryBolts,
	ComponentCategoryCaps,
	ComponentCategoryRings,
	ComponentCategoryValves,
	ComponentCategoryValveCaps,
	ComponentCategorySealingTape,
	ComponentCategorySealants,
	ComponentCategoryBalanceWeights,
	ComponentCategoryInnerTubes,
	ComponentCategoryRepairMaterials,
	ComponentCategoryCleaners,
	ComponentCategoryProtectors,
	ComponentCategoryDustDefense,
	ComponentCategoryCompressors,
	ComponentCategoryManometers,
	ComponentCategoryTPMS,
	ComponentCategoryJacks,
	ComponentCategoryWrenches,
	ComponentCategoryTools,
	ComponentCategoryAntipuncture,
	ComponentCategoryWasherFluids,
	ComponentCategoryBrushes,
	ComponentCategoryCarCare,
}

// String implements fmt.Stringer.
func (c ComponentCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComponentCategory.
func (c ComponentCategory) IsValid() bool {
	for _, candidate := range validComponentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComponentCategory converts raw input into a ComponentCategory.
func ParseComponentCategory(value string) (ComponentCategory, error) {
	for _, candidate := range validComponentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid component category %q", value)
}
