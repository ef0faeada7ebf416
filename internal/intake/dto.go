package intake

import (
	"github.com/shopspring/decimal"

	"github.com/treadstock/treadstock-backend/pkg/enums"
)

// LineKind tags an intake line as catalog-creating or bound to an existing
// product.
type LineKind string

const (
	LineNew      LineKind = "new"
	LineExisting LineKind = "existing"
)

// TireAttrs are the optional tire columns of an intake line.
type TireAttrs struct {
	Width     *string       `json:"width,omitempty"`
	Profile   *string       `json:"profile,omitempty"`
	Diameter  *string       `json:"diameter,omitempty"`
	LoadIndex *string       `json:"load_index,omitempty"`
	Spikes    *string       `json:"spikes,omitempty"`
	Year      *int          `json:"year,omitempty"`
	Country   *string       `json:"country,omitempty"`
	Season    *enums.Season `json:"season,omitempty"`
}

// ComponentAttrs are the optional component columns of an intake line.
// Category may be nil when the source row carried no recognizable category;
// such a line fails at commit, not at parse.
type ComponentAttrs struct {
	Category      *enums.ComponentCategory `json:"category,omitempty"`
	Parameters    *string                  `json:"parameters,omitempty"`
	Compatibility *string                  `json:"compatibility,omitempty"`
	Material      *string                  `json:"material,omitempty"`
	Color         *string                  `json:"color,omitempty"`
	Weight        *float64                 `json:"weight,omitempty"`
}

// IntakeLine is one pending purchase row. Kind new creates a product; kind
// existing carries the bound ProductID and is confined to attribute updates
// plus a quantity increment.
type IntakeLine struct {
	ID        uint64           `json:"id"`
	Kind      LineKind         `json:"kind"`
	ProductID uint             `json:"product_id,omitempty"`
	Brand     string           `json:"brand"`
	Model     string           `json:"model"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Note      *string          `json:"note,omitempty"`
	Section   enums.Section    `json:"section"`
	Quantity  int              `json:"quantity"`
	Tire      *TireAttrs       `json:"tire,omitempty"`
	Component *ComponentAttrs  `json:"component,omitempty"`
}

// NormalizedBatch is the outcome of parsing one supplier file.
type NormalizedBatch struct {
	Lines       []IntakeLine `json:"lines"`
	RawRows     int          `json:"raw_rows"`
	DroppedRows int          `json:"dropped_rows"`
}

// LineOutcome names the commit result of one line.
type LineOutcome string

const (
	OutcomeCommitted LineOutcome = "committed"
	OutcomeFailed    LineOutcome = "failed"
)

// LineResult reports how one line fared during commit.
type LineResult struct {
	LineID    uint64      `json:"line_id"`
	ProductID uint        `json:"product_id,omitempty"`
	Outcome   LineOutcome `json:"outcome"`
	Reason    string      `json:"reason,omitempty"`
}

// CommitReport enumerates per-line outcomes plus totals.
type CommitReport struct {
	Results   []LineResult `json:"results"`
	Committed int          `json:"committed"`
	Failed    int          `json:"failed"`
}
