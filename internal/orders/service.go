package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/treadstock/treadstock-backend/internal/ledger"
	"github.com/treadstock/treadstock-backend/pkg/config"
	"github.com/treadstock/treadstock-backend/pkg/db"
	"github.com/treadstock/treadstock-backend/pkg/db/models"
	"github.com/treadstock/treadstock-backend/pkg/enums"
	pkgerrors "github.com/treadstock/treadstock-backend/pkg/errors"
	"github.com/treadstock/treadstock-backend/pkg/locks"
	"github.com/treadstock/treadstock-backend/pkg/logger"
	"github.com/treadstock/treadstock-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Service exposes order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Update(ctx context.Context, orderID uint, input UpdateInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uint) (*OrderDTO, error)
	List(ctx context.Context, filter ListFilter) ([]OrderDTO, error)
	Transition(ctx context.Context, orderID uint, target enums.OrderStatus) (*OrderDTO, error)
}

// CreateInput holds the payload for a new draft order.
type CreateInput struct {
	CustomerName  string
	CustomerPhone *string
	Service       enums.OrderService
	Lines         []LineInput
}

// LineInput is one requested product position. Price nil means "freeze the
// current catalog price".
type LineInput struct {
	ProductID uint
	Quantity  int
	Price     *decimal.Decimal
}

// UpdateInput mutates a draft order. A non-nil Lines replaces the whole set.
type UpdateInput struct {
	CustomerName  *string
	CustomerPhone *string
	Lines         *[]LineInput
}

// ListFilter narrows the order listing.
type ListFilter struct {
	Customer string
	Status   *enums.OrderStatus
	Query    string
}

// transitions is the legality table. Sales stop at a terminal status; storage
// contracts may be reinstated back to draft from either terminal.
var transitions = map[enums.OrderService]map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderServiceSale: {
		enums.OrderStatusDraft: {enums.OrderStatusProcessed, enums.OrderStatusCancelled},
	},
	enums.OrderServiceStorage: {
		enums.OrderStatusDraft:     {enums.OrderStatusProcessed, enums.OrderStatusCancelled},
		enums.OrderStatusProcessed: {enums.OrderStatusDraft},
		enums.OrderStatusCancelled: {enums.OrderStatusDraft},
	},
}

func transitionAllowed(service enums.OrderService, from, to enums.OrderStatus) bool {
	for _, candidate := range transitions[service][from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// stockLocation maps the order service to the location kind its stock moves in.
func stockLocation(service enums.OrderService) enums.LocationKind {
	if service == enums.OrderServiceStorage {
		return enums.LocationStorage
	}
	return enums.LocationWarehouse
}

// service implements the order engine.
type service struct {
	repo       *Repository
	placements *ledger.Repository
	dbClient   *db.Client
	locks      *locks.Keyed
	metrics    *metrics.StockMetrics
	logg       *logger.Logger
	timeout    time.Duration
	intake     config.IntakeConfig
}

// NewService constructs an order service instance.
func NewService(
	repo *Repository,
	placements *ledger.Repository,
	dbClient *db.Client,
	keyed *locks.Keyed,
	stockMetrics *metrics.StockMetrics,
	logg *logger.Logger,
	ordersCfg config.OrdersConfig,
	intakeCfg config.IntakeConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if placements == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if keyed == nil {
		keyed = locks.NewKeyed()
	}
	return &service{
		repo:       repo,
		placements: placements,
		dbClient:   dbClient,
		locks:      keyed,
		metrics:    stockMetrics,
		logg:       logg,
		timeout:    ordersCfg.TransitionTimeout,
		intake:     intakeCfg,
	}, nil
}

// Create opens a draft order, freezing line prices from the catalog when the
// caller did not pin one.
func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if !input.Service.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid service %q", input.Service)
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}

	lines, err := s.buildLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: input.CustomerPhone,
		Service:       input.Service,
		Status:        enums.OrderStatusDraft,
		Lines:         lines,
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, order.ID)
}

// Update mutates a draft order. Non-draft orders are frozen.
func (s *service) Update(ctx context.Context, orderID uint, input UpdateInput) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusDraft {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "order %d is %s and cannot be edited", orderID, order.Status)
	}

	if input.CustomerName != nil {
		if strings.TrimSpace(*input.CustomerName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be blank")
		}
		order.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = input.CustomerPhone
	}

	var newLines []models.OrderLine
	if input.Lines != nil {
		if len(*input.Lines) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
		}
		newLines, err = s.buildLines(ctx, *input.Lines)
		if err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.SaveHeader(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}
		if newLines != nil {
			if err := txRepo.ReplaceLines(ctx, orderID, newLines); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace lines")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

// Get loads one order.
func (s *service) Get(ctx context.Context, orderID uint) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// List returns orders matching the filter. Customer and Query are substring
// matches; Query searches the line products' brand and model.
func (s *service) List(ctx context.Context, filter ListFilter) ([]OrderDTO, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", *filter.Status)
	}

	orders, err := s.repo.List(ctx, filter.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	customer := strings.ToLower(strings.TrimSpace(filter.Customer))
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		if customer != "" && !strings.Contains(strings.ToLower(order.CustomerName), customer) {
			continue
		}
		if query != "" && !orderMatchesQuery(order, query) {
			continue
		}
		dtos = append(dtos, *NewOrderDTO(order))
	}
	return dtos, nil
}

func orderMatchesQuery(order *models.Order, query string) bool {
	for _, line := range order.Lines {
		if line.Product == nil {
			continue
		}
		hay := strings.ToLower(line.Product.Brand + " " + line.Product.Model)
		if strings.Contains(hay, query) {
			return true
		}
	}
	return false
}

// Transition moves the order through the status machine. Stock moves commit
// atomically with the status change; concurrent transitions on the same order
// serialize on a per-order lock, and waiting is bounded by the caller's
// context deadline.
func (s *service) Transition(ctx context.Context, orderID uint, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid status %q", target)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	releaseOrder, err := s.locks.Acquire(ctx, locks.OrderKey(orderID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "waiting for order lock")
	}
	defer releaseOrder()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Service, order.Status, target) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"%s order cannot go %s -> %s", order.Service, order.Status, target)
	}

	release, err := s.lockLineProducts(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "waiting for product locks")
	}
	defer release()

	switch {
	case target == enums.OrderStatusProcessed:
		err = s.process(ctx, order)
	case order.Status == enums.OrderStatusProcessed && target == enums.OrderStatusDraft:
		err = s.reinstate(ctx, order)
	default:
		// draft -> cancelled and cancelled -> draft move no stock.
		err = s.setStatus(ctx, order, target)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(order.Service.String(), target.String())
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, orderID), fmt.Sprintf("order %s -> %s", order.Status, target))
	}
	return s.Get(ctx, orderID)
}

func (s *service) loadOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %d not found", orderID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

// lockLineProducts takes the per-product locks in ascending id order so two
// transitions touching overlapping products cannot deadlock.
func (s *service) lockLineProducts(ctx context.Context, order *models.Order) (func(), error) {
	ids := make([]uint, 0, len(order.Lines))
	seen := make(map[uint]bool, len(order.Lines))
	for _, line := range order.Lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	releases := make([]func(), 0, len(ids))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, id := range ids {
		release, err := s.locks.Acquire(ctx, locks.ProductKey(id))
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// process commits draft -> processed: an all-lines availability check first,
// then largest-first deduction and the status flip inside one transaction.
func (s *service) process(ctx context.Context, order *models.Order) error {
	kind := stockLocation(order.Service)

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txPlacements := s.placements.WithTx(tx)
		txRepo := s.repo.WithTx(tx)

		type shortage struct {
			ProductID uint `json:"product_id"`
			Requested int  `json:"requested"`
			Available int  `json:"available"`
		}
		var shortages []shortage
		for _, line := range order.Lines {
			available, err := txPlacements.TotalQuantity(ctx, line.ProductID, &kind)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum availability")
			}
			if available < line.Quantity {
				shortages = append(shortages, shortage{
					ProductID: line.ProductID,
					Requested: line.Quantity,
					Available: available,
				})
			}
		}
		if len(shortages) > 0 {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock to process order").
				WithDetails(shortages)
		}

		for _, line := range order.Lines {
			if err := deductLargestFirst(ctx, txPlacements, line.ProductID, kind, line.Quantity); err != nil {
				return err
			}
		}

		return flipStatus(ctx, txRepo, order, enums.OrderStatusProcessed)
	})
}

// reinstate commits storage processed -> draft: the deducted quantities go
// back to the customer's storage placements.
func (s *service) reinstate(ctx context.Context, order *models.Order) error {
	kind := enums.LocationStorage

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txPlacements := s.placements.WithTx(tx)
		txRepo := s.repo.WithTx(tx)

		for _, line := range order.Lines {
			if err := s.restoreQuantity(ctx, txPlacements, line.ProductID, kind, line.Quantity); err != nil {
				return err
			}
		}

		return flipStatus(ctx, txRepo, order, enums.OrderStatusDraft)
	})
}

func (s *service) setStatus(ctx context.Context, order *models.Order, target enums.OrderStatus) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return flipStatus(ctx, s.repo.WithTx(tx), order, target)
	})
}

func flipStatus(ctx context.Context, txRepo *Repository, order *models.Order, target enums.OrderStatus) error {
	affected, err := txRepo.SetStatus(ctx, order.ID, order.Status, target)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update status")
	}
	if affected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order %d changed status concurrently", order.ID)
	}
	return nil
}

// deductLargestFirst walks the product's placements from the fullest down,
// draining each with a guarded update until the requested quantity is covered.
func deductLargestFirst(ctx context.Context, txPlacements *ledger.Repository, productID uint, kind enums.LocationKind, quantity int) error {
	placements, err := txPlacements.ListByProduct(ctx, productID, &kind)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list placements")
	}

	remaining := quantity
	for _, placement := range placements {
		if remaining == 0 {
			break
		}
		take := placement.Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		affected, err := txPlacements.IncrementQuantity(ctx, placement.ID, -take)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deduct placement")
		}
		if affected == 0 {
			return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
				"placement %d drained concurrently", placement.ID)
		}
		remaining -= take
	}
	if remaining > 0 {
		return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
			"product %d short by %d", productID, remaining)
	}
	return nil
}

// restoreQuantity puts quantity back on the largest surviving placement of the
// kind, falling back to the default intake address when the product has none.
func (s *service) restoreQuantity(ctx context.Context, txPlacements *ledger.Repository, productID uint, kind enums.LocationKind, quantity int) error {
	placements, err := txPlacements.ListByProduct(ctx, productID, &kind)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list placements")
	}
	if len(placements) > 0 {
		if _, err := txPlacements.IncrementQuantity(ctx, placements[0].ID, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore placement")
		}
		return nil
	}

	placement := &models.Placement{
		ProductID:    productID,
		LocationKind: kind,
		Rack:         s.intake.DefaultRack,
		Shelf:        s.intake.DefaultShelf,
		Cell:         s.intake.DefaultCell,
		Quantity:     quantity,
	}
	if _, err := txPlacements.Create(ctx, placement); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create restore placement")
	}
	return nil
}

func (s *service) buildLines(ctx context.Context, inputs []LineInput) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "line quantity must be positive, got %d", input.Quantity)
		}
		product, err := s.repo.ProductByID(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", input.ProductID)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		price := input.Price
		if price == nil {
			price = product.Price
		}
		lines = append(lines, models.OrderLine{
			ProductID: product.ID,
			Quantity:  input.Quantity,
			Price:     price,
		})
	}
	return lines, nil
}
