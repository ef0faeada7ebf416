package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
)

// Service exposes placement ledger operations.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*PlacementDTO, error)
	AdjustQuantity(ctx context.Context, placementID uint, newQty int) (*PlacementDTO, error)
	TotalQuantity(ctx context.Context, productID uint, kind *enums.LocationKind) (int, error)
	ListByProduct(ctx context.Context, productID uint, kind *enums.LocationKind) ([]PlacementDTO, error)
}

// PlaceInput identifies an address tuple and the quantity to add there.
type PlaceInput struct {
	ProductID    uint
	LocationKind enums.LocationKind
	Rack         string
	Shelf        string
	Cell         string
	Quantity     int
}

// service implements the ledger service.
type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a ledger service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Place records quantity at an address, creating the placement row on first
// use of the tuple and incrementing it afterwards. A non-positive quantity is
// a silent no-op.
func (s *service) Place(ctx context.Context, input PlaceInput) (*PlacementDTO, error) {
	if input.Quantity <= 0 {
		return nil, nil
	}
	if !input.LocationKind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid location kind %q", input.LocationKind)
	}
	if strings.TrimSpace(input.Rack) == "" || strings.TrimSpace(input.Shelf) == "" || strings.TrimSpace(input.Cell) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rack, shelf and cell are required")
	}

	exists, err := s.repo.ProductExists(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check product")
	}
	if !exists {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", input.ProductID)
	}

	var placementID uint
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindByAddress(ctx, input.ProductID, input.LocationKind, input.Rack, input.Shelf, input.Cell)
		switch {
		case err == nil:
			if _, err := txRepo.IncrementQuantity(ctx, existing.ID, input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment placement")
			}
			placementID = existing.ID
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			placement := &models.Placement{
				ProductID:    input.ProductID,
				LocationKind: input.LocationKind,
				Rack:         input.Rack,
				Shelf:        input.Shelf,
				Cell:         input.Cell,
				Quantity:     input.Quantity,
			}
			if _, err := txRepo.Create(ctx, placement); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert placement")
			}
			placementID = placement.ID
			return nil

		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup placement")
		}
	}); err != nil {
		return nil, err
	}

	placement, err := s.repo.FindByID(ctx, placementID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload placement")
	}
	return NewPlacementDTO(placement), nil
}

// AdjustQuantity overwrites the on-hand quantity of one placement. Zero is
// legal; the row is retained as a historical address.
func (s *service) AdjustQuantity(ctx context.Context, placementID uint, newQty int) (*PlacementDTO, error) {
	if newQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	placement, err := s.repo.FindByID(ctx, placementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "placement %d not found", placementID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load placement")
	}

	if err := s.repo.SetQuantity(ctx, placement.ID, newQty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set quantity")
	}
	placement.Quantity = newQty
	return NewPlacementDTO(placement), nil
}

// TotalQuantity returns the on-hand total for the product, optionally per kind.
func (s *service) TotalQuantity(ctx context.Context, productID uint, kind *enums.LocationKind) (int, error) {
	if kind != nil && !kind.IsValid() {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid location kind %q", *kind)
	}
	total, err := s.repo.TotalQuantity(ctx, productID, kind)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum quantities")
	}
	return total, nil
}

// ListByProduct returns every placement of the product, largest first.
func (s *service) ListByProduct(ctx context.Context, productID uint, kind *enums.LocationKind) ([]PlacementDTO, error) {
	if kind != nil && !kind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid location kind %q", *kind)
	}
	placements, err := s.repo.ListByProduct(ctx, productID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list placements")
	}
	dtos := make([]PlacementDTO, 0, len(placements))
	for i := range placements {
		dtos = append(dtos, *NewPlacementDTO(&placements[i]))
	}
	return dtos, nil
}
