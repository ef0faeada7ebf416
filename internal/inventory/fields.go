package inventory

import (
	"strconv"
	"strings"

	"github.com/treadstock/treadstock-backend/pkg/db/models"
)

// fieldKind tells the comparator how to order two values.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldNumber
)

// accessor resolves one logical field against a joined inventory row. ok is
// false when the row has no value (missing variant, NULL column); such rows
// sort last in both directions and never match a column filter.
type accessor struct {
	kind fieldKind
	get  func(item *models.Placement) (text string, number float64, ok bool)
}

func textField(get func(item *models.Placement) *string) accessor {
	return accessor{
		kind: fieldText,
		get: func(item *models.Placement) (string, float64, bool) {
			value := get(item)
			if value == nil {
				return "", 0, false
			}
			return *value, 0, true
		},
	}
}

func numberField(get func(item *models.Placement) *float64) accessor {
	return accessor{
		kind: fieldNumber,
		get: func(item *models.Placement) (string, float64, bool) {
			value := get(item)
			if value == nil {
				return "", 0, false
			}
			return strconv.FormatFloat(*value, 'f', -1, 64), *value, true
		},
	}
}

func strValue(s string) *string { return &s }

// fieldAccessors is the explicit field table for the inventory view. Every
// sortable or filterable column is listed here; nothing is resolved by
// reflection.
var fieldAccessors = map[string]accessor{
	"brand": textField(func(item *models.Placement) *string {
		if item.Product == nil {
			return nil
		}
		return strValue(item.Product.Brand)
	}),
	"model": textField(func(item *models.Placement) *string {
		if item.Product == nil {
			return nil
		}
		return strValue(item.Product.Model)
	}),
	"section": textField(func(item *models.Placement) *string {
		if item.Product == nil {
			return nil
		}
		return strValue(item.Product.Section.String())
	}),
	"note": textField(func(item *models.Placement) *string {
		if item.Product == nil {
			return nil
		}
		return item.Product.Note
	}),
	"price": numberField(func(item *models.Placement) *float64 {
		if item.Product == nil || item.Product.Price == nil {
			return nil
		}
		value, _ := item.Product.Price.Float64()
		return &value
	}),

	"width": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil {
			return nil
		}
		return item.Product.Tire.Width
	}),
	"profile": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil {
			return nil
		}
		return item.Product.Tire.Profile
	}),
	"diameter": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil {
			return nil
		}
		return item.Product.Tire.Diameter
	}),
	"load_index": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil {
			return nil
		}
		return item.Product.Tire.LoadIndex
	}),
	"spikes": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil {
			return nil
		}
		return item.Product.Tire.Spikes
	}),
	"season": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil || item.Product.Tire.Season == nil {
			return nil
		}
		return strValue(item.Product.Tire.Season.String())
	}),
	"year": numberField(func(item *models.Placement) *float64 {
		if item.Product == nil || item.Product.Tire == nil || item.Product.Tire.Year == nil {
			return nil
		}
		value := float64(*item.Product.Tire.Year)
		return &value
	}),
	"country": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Tire == nil {
			return nil
		}
		return item.Product.Tire.Country
	}),

	"category": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Component == nil {
			return nil
		}
		return strValue(item.Product.Component.Category.String())
	}),
	"parameters": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Component == nil {
			return nil
		}
		return item.Product.Component.Parameters
	}),
	"compatibility": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Component == nil {
			return nil
		}
		return item.Product.Component.Compatibility
	}),
	"material": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Component == nil {
			return nil
		}
		return item.Product.Component.Material
	}),
	"color": textField(func(item *models.Placement) *string {
		if item.Product == nil || item.Product.Component == nil {
			return nil
		}
		return item.Product.Component.Color
	}),
	"weight": numberField(func(item *models.Placement) *float64 {
		if item.Product == nil || item.Product.Component == nil {
			return nil
		}
		return item.Product.Component.Weight
	}),

	"rack":    textField(func(item *models.Placement) *string { return strValue(item.Rack) }),
	"shelf":   textField(func(item *models.Placement) *string { return strValue(item.Shelf) }),
	"cell":    textField(func(item *models.Placement) *string { return strValue(item.Cell) }),
	"address": textField(func(item *models.Placement) *string { return strValue(item.Address()) }),
	"quantity": numberField(func(item *models.Placement) *float64 {
		value := float64(item.Quantity)
		return &value
	}),
}

// matchesFilter reports whether the rendered field value contains the needle,
// case-insensitively. Rows without the field never match; unknown fields match
// nothing.
func matchesFilter(item *models.Placement, field, needle string) bool {
	acc, known := fieldAccessors[field]
	if !known {
		return false
	}
	text, _, ok := acc.get(item)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}

// less orders a before b on the given accessor. Rows without the value sort
// last regardless of direction.
func less(acc accessor, a, b *models.Placement, desc bool) bool {
	aText, aNum, aOK := acc.get(a)
	bText, bNum, bOK := acc.get(b)

	if aOK != bOK {
		return aOK
	}
	if !aOK {
		return false
	}

	switch acc.kind {
	case fieldNumber:
		if aNum == bNum {
			return false
		}
		if desc {
			return aNum > bNum
		}
		return aNum < bNum
	default:
		av, bv := strings.ToLower(aText), strings.ToLower(bText)
		if av == bv {
			return false
		}
		if desc {
			return av > bv
		}
		return av < bv
	}
}
