package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/internal/catalog"
	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/config"
	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/logger"
	"github.com/treadstock/treadstock-backend/pkg/metrics"
)

// Service commits normalized intake lines into the catalog and the ledger.
type Service interface {
	Commit(ctx context.Context, lines []IntakeLine) (*CommitReport, error)
}

// service implements the intake pipeline. Each line commits in its own
// transaction so one bad row cannot sink the batch.
type service struct {
	catalog    *catalog.Repository
	placements *ledger.Repository
	dbClient   *db.Client
	metrics    *metrics.StockMetrics
	logg       *logger.Logger
	cfg        config.IntakeConfig
}

// NewService constructs an intake service instance.
func NewService(
	catalogRepo *catalog.Repository,
	placements *ledger.Repository,
	dbClient *db.Client,
	stockMetrics *metrics.StockMetrics,
	logg *logger.Logger,
	cfg config.IntakeConfig,
) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if placements == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		catalog:    catalogRepo,
		placements: placements,
		dbClient:   dbClient,
		metrics:    stockMetrics,
		logg:       logg,
		cfg:        cfg,
	}, nil
}

// Commit applies the lines one by one. A failed line is reported and skipped;
// the rest of the batch proceeds.
func (s *service) Commit(ctx context.Context, lines []IntakeLine) (*CommitReport, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no lines to commit")
	}

	report := &CommitReport{Results: make([]LineResult, 0, len(lines))}
	for i := range lines {
		line := &lines[i]
		productID, err := s.commitLine(ctx, line)
		if err != nil {
			report.Failed++
			report.Results = append(report.Results, LineResult{
				LineID:  line.ID,
				Outcome: OutcomeFailed,
				Reason:  err.Error(),
			})
			s.metrics.IncIntakeLine(string(OutcomeFailed))
			continue
		}
		report.Committed++
		report.Results = append(report.Results, LineResult{
			LineID:    line.ID,
			ProductID: productID,
			Outcome:   OutcomeCommitted,
		})
		s.metrics.IncIntakeLine(string(OutcomeCommitted))
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("intake commit: %d committed, %d failed", report.Committed, report.Failed))
	}
	return report, nil
}

func (s *service) commitLine(ctx context.Context, line *IntakeLine) (uint, error) {
	if line.Quantity <= 0 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be positive, got %d", line.Quantity)
	}
	if line.Tire != nil && line.Component != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "line cannot carry both tire and component attributes")
	}

	switch line.Kind {
	case LineNew:
		return s.commitNew(ctx, line)
	case LineExisting:
		return s.commitExisting(ctx, line)
	default:
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown line kind %q", line.Kind)
	}
}

// commitNew creates the product with its variant and places the purchased
// quantity at the default intake address.
func (s *service) commitNew(ctx context.Context, line *IntakeLine) (uint, error) {
	if strings.TrimSpace(line.Brand) == "" || strings.TrimSpace(line.Model) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "brand and model are required")
	}
	if !line.Section.IsValid() {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid section %q", line.Section)
	}
	if line.Tire != nil && line.Tire.Season != nil && !line.Tire.Season.IsValid() {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid season %q", *line.Tire.Season)
	}
	if line.Component != nil {
		if line.Component.Category == nil {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "component category is required")
		}
		if !line.Component.Category.IsValid() {
			return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", *line.Component.Category)
		}
	}

	product := &models.Product{
		Brand:   strings.TrimSpace(line.Brand),
		Model:   strings.TrimSpace(line.Model),
		Price:   line.Price,
		Note:    line.Note,
		Section: line.Section,
		Active:  true,
	}
	if line.Tire != nil {
		product.Tire = &models.TireVariant{
			Width:     line.Tire.Width,
			Profile:   line.Tire.Profile,
			Diameter:  line.Tire.Diameter,
			LoadIndex: line.Tire.LoadIndex,
			Spikes:    line.Tire.Spikes,
			Year:      line.Tire.Year,
			Country:   line.Tire.Country,
			Season:    line.Tire.Season,
		}
	}
	if line.Component != nil {
		product.Component = &models.ComponentVariant{
			Category:      *line.Component.Category,
			Parameters:    line.Component.Parameters,
			Compatibility: line.Component.Compatibility,
			Material:      line.Component.Material,
			Color:         line.Component.Color,
			Weight:        line.Component.Weight,
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.catalog.WithTx(tx).CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		return s.placeAtIntake(ctx, s.placements.WithTx(tx), product.ID, line.Quantity)
	}); err != nil {
		return 0, err
	}
	return product.ID, nil
}

// commitExisting merges attributes into the bound product's variant and
// increments its warehouse stock.
func (s *service) commitExisting(ctx context.Context, line *IntakeLine) (uint, error) {
	if line.ProductID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "existing line needs a product id")
	}

	product, err := s.catalog.FindByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", line.ProductID)
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if line.Tire != nil && product.Component != nil {
		return 0, pkgerrors.New(pkgerrors.CodeConflict, "tire attributes on a component product")
	}
	if line.Component != nil && product.Tire != nil {
		return 0, pkgerrors.New(pkgerrors.CodeConflict, "component attributes on a tire product")
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txCatalog := s.catalog.WithTx(tx)

		if line.Price != nil || line.Note != nil {
			patch := *product
			patch.Tire = nil
			patch.Component = nil
			if line.Price != nil {
				patch.Price = line.Price
			}
			if line.Note != nil {
				patch.Note = line.Note
			}
			if _, err := txCatalog.SaveProduct(ctx, &patch); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
			}
		}

		if line.Tire != nil {
			variant := product.Tire
			if variant == nil {
				variant = &models.TireVariant{ProductID: product.ID}
			}
			mergeTire(variant, line.Tire)
			if _, err := txCatalog.SaveTire(ctx, variant); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save tire variant")
			}
		}
		if line.Component != nil {
			variant := product.Component
			if variant == nil {
				if line.Component.Category == nil {
					return pkgerrors.New(pkgerrors.CodeValidation, "component category is required")
				}
				variant = &models.ComponentVariant{ProductID: product.ID}
			}
			mergeComponent(variant, line.Component)
			if _, err := txCatalog.SaveComponent(ctx, variant); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save component variant")
			}
		}

		return s.incrementStock(ctx, s.placements.WithTx(tx), product.ID, line.Quantity)
	}); err != nil {
		return 0, err
	}
	return product.ID, nil
}

// placeAtIntake creates or increments the default intake address placement.
func (s *service) placeAtIntake(ctx context.Context, txPlacements *ledger.Repository, productID uint, quantity int) error {
	existing, err := txPlacements.FindByAddress(ctx, productID, enums.LocationWarehouse,
		s.cfg.DefaultRack, s.cfg.DefaultShelf, s.cfg.DefaultCell)
	switch {
	case err == nil:
		if _, err := txPlacements.IncrementQuantity(ctx, existing.ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment intake placement")
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		placement := &models.Placement{
			ProductID:    productID,
			LocationKind: enums.LocationWarehouse,
			Rack:         s.cfg.DefaultRack,
			Shelf:        s.cfg.DefaultShelf,
			Cell:         s.cfg.DefaultCell,
			Quantity:     quantity,
		}
		if _, err := txPlacements.Create(ctx, placement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create intake placement")
		}
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup intake placement")
	}
}

// incrementStock adds the purchased quantity to the fullest warehouse
// placement, falling back to the intake address when the product has none.
func (s *service) incrementStock(ctx context.Context, txPlacements *ledger.Repository, productID uint, quantity int) error {
	kind := enums.LocationWarehouse
	placements, err := txPlacements.ListByProduct(ctx, productID, &kind)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list placements")
	}
	if len(placements) > 0 {
		if _, err := txPlacements.IncrementQuantity(ctx, placements[0].ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: increment placement")
		}
		return nil
	}
	return s.placeAtIntake(ctx, txPlacements, productID, quantity)
}

func mergeTire(variant *models.TireVariant, attrs *TireAttrs) {
	if attrs.Width != nil {
		variant.Width = attrs.Width
	}
	if attrs.Profile != nil {
		variant.Profile = attrs.Profile
	}
	if attrs.Diameter != nil {
		variant.Diameter = attrs.Diameter
	}
	if attrs.LoadIndex != nil {
		variant.LoadIndex = attrs.LoadIndex
	}
	if attrs.Spikes != nil {
		variant.Spikes = attrs.Spikes
	}
	if attrs.Year != nil {
		variant.Year = attrs.Year
	}
	if attrs.Country != nil {
		variant.Country = attrs.Country
	}
	if attrs.Season != nil {
		variant.Season = attrs.Season
	}
}

func mergeComponent(variant *models.ComponentVariant, attrs *ComponentAttrs) {
	if attrs.Category != nil {
		variant.Category = *attrs.Category
	}
	if attrs.Parameters != nil {
		variant.Parameters = attrs.Parameters
	}
	if attrs.Compatibility != nil {
		variant.Compatibility = attrs.Compatibility
	}
	if attrs.Material != nil {
		variant.Material = attrs.Material
	}
	if attrs.Color != nil {
		variant.Color = attrs.Color
	}
	if attrs.Weight != nil {
		variant.Weight = attrs.Weight
	}
}
