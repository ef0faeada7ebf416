package stocktake

import (
	"github.com/treadstock/treadstock-backend/pkg/db/models"
)

// RecordState is the ledger view of one placement at reconcile time.
type RecordState struct {
	PlacementID uint   `json:"placement_id"`
	ProductID   uint   `json:"product_id"`
	Address     string `json:"address"`
	Quantity    int    `json:"quantity"`
}

// Mismatch pairs the ledger state with the shop-floor count. Delta is
// counted minus ledger, so a negative delta means shrinkage.
type Mismatch struct {
	RecordState
	Counted int `json:"counted"`
	Delta   int `json:"delta"`
}

// Report buckets every in-scope placement by how its count compares to the
// ledger. Unknown lists counted ids that matched no in-scope placement.
type Report struct {
	LocationKind *string      `json:"location_kind,omitempty"`
	Uncounted    []RecordState `json:"uncounted"`
	Matched      []RecordState `json:"matched"`
	Mismatched   []Mismatch    `json:"mismatched"`
	Unknown      []uint        `json:"unknown,omitempty"`
}

// ApplyOutcome reports one mismatched record's fate during apply.
type ApplyOutcome struct {
	PlacementID uint   `json:"placement_id"`
	Applied     bool   `json:"applied"`
	Reason      string `json:"reason,omitempty"`
}

// ApplyResult sums up an apply pass.
type ApplyResult struct {
	Outcomes []ApplyOutcome `json:"outcomes"`
	Mutated  int            `json:"mutated"`
}

func newRecordState(placement *models.Placement) RecordState {
	return RecordState{
		PlacementID: placement.ID,
		ProductID:   placement.ProductID,
		Address:     placement.Address(),
		Quantity:    placement.Quantity,
	}
}
