package intake

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
)

// ParseOptions tunes file normalization.
type ParseOptions struct {
	// Delimiter between cells. Supplier lists use ';' almost exclusively.
	Delimiter rune
	// DefaultSection is assigned to tire rows whose season column did not
	// resolve. Component rows always land in the components section.
	DefaultSection enums.Section
}

// Parser turns supplier price-list files into normalized intake lines.
type Parser struct {
	seq *Sequence
}

// NewParser builds a parser drawing provisional ids from seq.
func NewParser(seq *Sequence) (*Parser, error) {
	if seq == nil {
		return nil, fmt.Errorf("sequence required")
	}
	return &Parser{seq: seq}, nil
}

// ParseFile reads a delimited price list. The first row is the header; cells
// are matched case-insensitively against the column synonym table and
// unrecognized headers are skipped. A row whose resolved quantity is zero or
// negative is dropped silently and only counted.
func (p *Parser) ParseFile(r io.Reader, opts ParseOptions) (*NormalizedBatch, error) {
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ';'
	}

	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading header row")
	}

	columns := make(map[int]column, len(header))
	for i, cell := range header {
		if col, ok := resolveHeader(cell); ok {
			columns[i] = col
		}
	}
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no recognizable columns in header")
	}

	batch := &NormalizedBatch{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading data row")
		}
		batch.RawRows++

		cells := make(map[column]string, len(columns))
		for i, cell := range record {
			col, mapped := columns[i]
			if !mapped {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			cells[col] = value
		}

		line, ok := p.buildLine(cells, opts)
		if !ok {
			batch.DroppedRows++
			continue
		}
		batch.Lines = append(batch.Lines, line)
	}
	return batch, nil
}

// buildLine classifies one row and resolves its typed values. ok is false
// when the row must be dropped.
func (p *Parser) buildLine(cells map[column]string, opts ParseOptions) (IntakeLine, bool) {
	quantity := parseInt(cells[colQuantity])
	if quantity <= 0 {
		return IntakeLine{}, false
	}

	line := IntakeLine{
		ID:       p.seq.Next(),
		Kind:     LineNew,
		Brand:    cells[colBrand],
		Model:    cells[colModel],
		Quantity: quantity,
	}
	if price := parsePrice(cells[colPrice]); price != nil {
		line.Price = price
	}
	if note, ok := cells[colNote]; ok {
		line.Note = &note
	}

	// A row is a tire when any size column is present, otherwise a component.
	if cells[colWidth] != "" || cells[colProfile] != "" || cells[colDiameter] != "" {
		tire := &TireAttrs{
			Width:     optString(cells[colWidth]),
			Profile:   optString(cells[colProfile]),
			Diameter:  optString(cells[colDiameter]),
			LoadIndex: optString(cells[colLoadIndex]),
			Spikes:    optString(cells[colSpikes]),
			Country:   optString(cells[colCountry]),
			Season:    parseSeason(cells[colSeason]),
		}
		if year := parseInt(cells[colYear]); year > 0 {
			tire.Year = &year
		}
		line.Tire = tire
		line.Section = sectionForTire(tire.Season, opts.DefaultSection)
		return line, true
	}

	component := &ComponentAttrs{
		Parameters:    optString(cells[colParameters]),
		Compatibility: optString(cells[colCompatibility]),
		Material:      optString(cells[colMaterial]),
		Color:         optString(cells[colColor]),
	}
	if category, err := enums.ParseComponentCategory(strings.ToLower(cells[colCategory])); err == nil {
		component.Category = &category
	}
	if weight, err := strconv.ParseFloat(normalizeNumber(cells[colWeight]), 64); err == nil {
		component.Weight = &weight
	}
	line.Component = component
	line.Section = enums.SectionComponents
	return line, true
}

func sectionForTire(season *enums.Season, fallback enums.Section) enums.Section {
	if season != nil {
		switch *season {
		case enums.SeasonWinter:
			return enums.SectionWinter
		case enums.SeasonSummer:
			return enums.SectionSummer
		}
	}
	if fallback.IsValid() {
		return fallback
	}
	return enums.SectionSummer
}

var seasonSynonyms = map[string]enums.Season{
	"winter": enums.SeasonWinter,
	"зима":   enums.SeasonWinter,
	"зимняя": enums.SeasonWinter,
	"зимние": enums.SeasonWinter,
	"summer": enums.SeasonSummer,
	"лето":   enums.SeasonSummer,
	"летняя": enums.SeasonSummer,
	"летние": enums.SeasonSummer,
}

func parseSeason(value string) *enums.Season {
	season, ok := seasonSynonyms[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return nil
	}
	return &season
}

func parseInt(value string) int {
	n, err := strconv.Atoi(normalizeNumber(value))
	if err != nil {
		return 0
	}
	return n
}

func parsePrice(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}
	price, err := decimal.NewFromString(normalizeNumber(value))
	if err != nil {
		return nil
	}
	return &price
}

// normalizeNumber strips spacing and unifies the decimal separator so both
// "1 250,50" and "1250.50" parse.
func normalizeNumber(value string) string {
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, " ", "")
	return strings.ReplaceAll(value, ",", ".")
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
