package stocktake

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
	"github.com/treadstock/treadstock-backend/pkg/metrics"
)

// Service reconciles shop-floor counts against the placement ledger.
type Service interface {
	Reconcile(ctx context.Context, input Input) (*Report, error)
	Apply(ctx context.Context, report *Report) (*ApplyResult, error)
}

// Input scopes one stocktake pass. Counted maps placement id to the physical
// count taken on the floor.
type Input struct {
	LocationKind *enums.LocationKind
	Counted      map[uint]int
}

// service implements the stocktake workflow.
type service struct {
	placements *ledger.Repository
	dbClient   *db.Client
	metrics    *metrics.StockMetrics
	logg       *logger.Logger
}

// NewService constructs a stocktake service instance.
func NewService(placements *ledger.Repository, dbClient *db.Client, stockMetrics *metrics.StockMetrics, logg *logger.Logger) (Service, error) {
	if placements == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		placements: placements,
		dbClient:   dbClient,
		metrics:    stockMetrics,
		logg:       logg,
	}, nil
}

// Reconcile buckets every in-scope placement as uncounted, matched or
// mismatched. It reads the ledger and mutates nothing.
func (s *service) Reconcile(ctx context.Context, input Input) (*Report, error) {
	if input.LocationKind != nil && !input.LocationKind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid location kind %q", *input.LocationKind)
	}

	placements, err := s.placements.ListByKind(ctx, input.LocationKind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list placements")
	}

	report := &Report{
		Uncounted:  []RecordState{},
		Matched:    []RecordState{},
		Mismatched: []Mismatch{},
	}
	if input.LocationKind != nil {
		kind := input.LocationKind.String()
		report.LocationKind = &kind
	}

	seen := make(map[uint]bool, len(placements))
	for i := range placements {
		placement := &placements[i]
		seen[placement.ID] = true

		counted, wasCounted := input.Counted[placement.ID]
		state := newRecordState(placement)
		switch {
		case !wasCounted:
			report.Uncounted = append(report.Uncounted, state)
		case counted == placement.Quantity:
			report.Matched = append(report.Matched, state)
		default:
			report.Mismatched = append(report.Mismatched, Mismatch{
				RecordState: state,
				Counted:     counted,
				Delta:       counted - placement.Quantity,
			})
		}
	}

	for id := range input.Counted {
		if !seen[id] {
			report.Unknown = append(report.Unknown, id)
		}
	}
	return report, nil
}

// Apply corrects only the mismatched placements to their counted quantity.
// Each record applies independently; one bad count does not block the rest.
// Re-reconciling the same input afterwards yields zero mismatches.
func (s *service) Apply(ctx context.Context, report *Report) (*ApplyResult, error) {
	if report == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report is required")
	}

	result := &ApplyResult{Outcomes: make([]ApplyOutcome, 0, len(report.Mismatched))}
	for _, mismatch := range report.Mismatched {
		outcome := ApplyOutcome{PlacementID: mismatch.PlacementID}

		if mismatch.Counted < 0 {
			outcome.Reason = fmt.Sprintf("counted quantity %d is negative", mismatch.Counted)
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
			txPlacements := s.placements.WithTx(tx)
			if _, err := txPlacements.FindByID(ctx, mismatch.PlacementID); err != nil {
				return err
			}
			return txPlacements.SetQuantity(ctx, mismatch.PlacementID, mismatch.Counted)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.Reason = "placement no longer exists"
			} else {
				outcome.Reason = err.Error()
			}
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		outcome.Applied = true
		result.Outcomes = append(result.Outcomes, outcome)
		result.Mutated++
	}

	s.metrics.AddAdjustments(result.Mutated)
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("stocktake apply: %d corrected, %d skipped",
			result.Mutated, len(result.Outcomes)-result.Mutated))
	}
	return result, nil
}
