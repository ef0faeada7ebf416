package intake

import "strings"

// column names one logical field of a supplier price list.
type column string

const (
	colBrand         column = "brand"
	colModel         column = "model"
	colPrice         column = "price"
	colQuantity      column = "quantity"
	colNote          column = "note"
	colWidth         column = "width"
	colProfile       column = "profile"
	colDiameter      column = "diameter"
	colSeason        column = "season"
	colLoadIndex     column = "load_index"
	colSpikes        column = "spikes"
	colYear          column = "year"
	colCountry       column = "country"
	colCategory      column = "category"
	colParameters    column = "parameters"
	colCompatibility column = "compatibility"
	colMaterial      column = "material"
	colColor         column = "color"
	colWeight        column = "weight"
)

// headerSynonyms maps normalized header cells to logical columns. Supplier
// lists arrive in Russian, English or a mix of both; headers not listed here
// are ignored.
var headerSynonyms = map[string]column{
	"бренд":          colBrand,
	"марка":          colBrand,
	"производитель":  colBrand,
	"brand":          colBrand,
	"модель":         colModel,
	"model":          colModel,
	"цена":           colPrice,
	"стоимость":      colPrice,
	"price":          colPrice,
	"количество":     colQuantity,
	"кол-во":         colQuantity,
	"колво":          colQuantity,
	"шт":             colQuantity,
	"qty":            colQuantity,
	"quantity":       colQuantity,
	"примечание":     colNote,
	"комментарий":    colNote,
	"note":           colNote,
	"ширина":         colWidth,
	"width":          colWidth,
	"профиль":        colProfile,
	"высота":         colProfile,
	"profile":        colProfile,
	"диаметр":        colDiameter,
	"радиус":         colDiameter,
	"diameter":       colDiameter,
	"сезон":          colSeason,
	"сезонность":     colSeason,
	"season":         colSeason,
	"индекс":         colLoadIndex,
	"индекс нагрузки": colLoadIndex,
	"load index":      colLoadIndex,
	"load_index":      colLoadIndex,
	"шипы":           colSpikes,
	"spikes":         colSpikes,
	"год":            colYear,
	"year":           colYear,
	"страна":         colCountry,
	"country":        colCountry,
	"категория":      colCategory,
	"category":       colCategory,
	"параметры":      colParameters,
	"parameters":     colParameters,
	"совместимость":  colCompatibility,
	"compatibility":  colCompatibility,
	"материал":       colMaterial,
	"material":       colMaterial,
	"цвет":           colColor,
	"color":          colColor,
	"вес":            colWeight,
	"weight":         colWeight,
}

// resolveHeader maps one header cell to its logical column.
func resolveHeader(cell string) (column, bool) {
	normalized := strings.ToLower(strings.TrimSpace(cell))
	col, ok := headerSynonyms[normalized]
	return col, ok
}
