package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bazarpo/bazarpo-backend/pkg/db/models"
	"github.com/bazarpo/bazarpo-backend/pkg/enums"
	pkgerrors "github.com/bazarpo/bazarpo-backend/pkg/errors"
	"github.com/bazarpo/bazarpo-backend/pkg/logger"
	"github.com/bazarpo/bazarpo-backend/pkg/metrics"
	"github.com/bazarpo/bazarpo-backend/pkg/pubsub"
	"github.com/bazarpo/bazarpo-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockKeeper exposes the catalog operations the submission protocol needs.
type StockKeeper interface {
	FindBySKUs(ctx context.Context, tx *gorm.DB, skus []string) ([]models.Part, error)
	Decrement(ctx context.Context, tx *gorm.DB, sku string, qty int) (bool, error)
	Restore(ctx context.Context, tx *gorm.DB, sku string, qty int) error
	LowStockCount(ctx context.Context, threshold int) (int64, error)
}

// Service defines order operations for both the storefront and admin surfaces.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req types.CreateOrderRequest) (*types.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error)
	AdminList(ctx context.Context, status string) ([]types.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
	Delete(ctx context.Context, orderID uuid.UUID) error
	Analytics(ctx context.Context) (*AnalyticsView, error)
}

// AnalyticsView is the admin dashboard aggregate.
type AnalyticsView struct {
	TotalOrders   int64  `json:"total_orders"`
	RevenueKZT    int64  `json:"revenue_kzt"`
	AvgOrderValue string `json:"avg_order_value"`
	PendingCount  int64  `json:"pending_count"`
	LowStockCount int64  `json:"low_stock_count"`
}

const lowStockThreshold = 3

type service struct {
	repo    Repository
	stock   StockKeeper
	tx      txRunner
	events  pubsub.OrderEventPublisher
	metrics *metrics.HTTPMetrics
	logg    *logger.Logger
}

// ServiceParams bundles the order service dependencies.
type ServiceParams struct {
	Repo    Repository
	Stock   StockKeeper
	Tx      txRunner
	Events  pubsub.OrderEventPublisher
	Metrics *metrics.HTTPMetrics
	Logger  *logger.Logger
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock keeper required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Events == nil {
		params.Events = pubsub.NoopPublisher{}
	}
	return &service{
		repo:    params.Repo,
		stock:   params.Stock,
		tx:      params.Tx,
		events:  params.Events,
		metrics: params.Metrics,
		logg:    params.Logger,
	}, nil
}

// Create applies the all-or-nothing submission protocol: every requested
// line must be satisfiable at commit time or the whole order is rejected
// with the full issue list.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req types.CreateOrderRequest) (*types.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		skus := make([]string, 0, len(lines))
		for _, line := range lines {
			skus = append(skus, line.SKU)
		}

		parts, err := s.stock.FindBySKUs(ctx, tx, skus)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parts")
		}
		bySKU := make(map[string]*models.Part, len(parts))
		for i := range parts {
			bySKU[parts[i].SKU] = &parts[i]
		}

		issues := make([]types.StockIssue, 0)
		for _, line := range lines {
			part, ok := bySKU[line.SKU]
			if !ok || !part.IsVisible {
				issues = append(issues, types.StockIssue{SKU: line.SKU, Requested: line.Qty, Available: 0})
				continue
			}
			if part.StockQty < line.Qty {
				issues = append(issues, types.StockIssue{SKU: line.SKU, Requested: line.Qty, Available: part.StockQty})
			}
		}
		if len(issues) > 0 {
			return insufficientStock(issues)
		}

		var total int64
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			part := bySKU[line.SKU]

			ok, err := s.stock.Decrement(ctx, tx, line.SKU, line.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				// lost a concurrent race; report what is left now
				return insufficientStock([]types.StockIssue{{
					SKU:       line.SKU,
					Requested: line.Qty,
					Available: part.StockQty,
				}})
			}

			total += part.PriceKZT * int64(line.Qty)
			item := models.OrderItem{
				SKU:      part.SKU,
				Name:     part.Name,
				PriceKZT: part.PriceKZT,
				Qty:      line.Qty,
			}
			if len(part.Images) > 0 {
				img := part.Images[0]
				item.Image = &img
			}
			items = append(items, item)
		}

		order := &models.Order{
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			TotalKZT:        total,
			ShippingAddress: strings.TrimSpace(req.ShippingAddress),
			ContactInfo:     strings.TrimSpace(req.ContactInfo),
			Items:           items,
		}
		created, err = s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			s.metrics.IncStockConflict()
		}
		return nil, err
	}

	s.metrics.IncOrderCreated(string(created.Status))
	s.publishEvent(ctx, created)

	view := orderView(created)
	return &view, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderViews(orders), nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	view := orderView(order)
	return &view, nil
}

func (s *service) AdminList(ctx context.Context, status string) ([]types.Order, error) {
	var filter enums.OrderStatus
	if status != "" {
		filter = enums.OrderStatus(status)
		if !filter.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
		}
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderViews(orders), nil
}

// UpdateStatus applies one lifecycle transition. Cancelling returns the
// reserved units to the shelf.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	next := enums.OrderStatus(status)
	if !next.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == next {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}

		if err := repo.UpdateStatus(ctx, order.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
		}

		if next == enums.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := s.stock.Restore(ctx, tx, item.SKU, item.Qty); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
			}
		}

		order.Status = next
		updated = order
		return nil
	})
	if err != nil {
		return err
	}

	if updated != nil {
		s.publishEvent(ctx, updated)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.findOrder(ctx, orderID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) Analytics(ctx context.Context) (*AnalyticsView, error) {
	agg, err := s.repo.Aggregate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate orders")
	}
	lowStock, err := s.stock.LowStockCount(ctx, lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}

	avg := decimal.Zero
	if agg.TotalOrders > 0 {
		avg = decimal.NewFromInt(agg.RevenueKZT).
			Div(decimal.NewFromInt(agg.TotalOrders)).
			Round(2)
	}

	return &AnalyticsView{
		TotalOrders:   agg.TotalOrders,
		RevenueKZT:    agg.RevenueKZT,
		AvgOrderValue: avg.String(),
		PendingCount:  agg.PendingCount,
		LowStockCount: lowStock,
	}, nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) publishEvent(ctx context.Context, order *models.Order) {
	event := pubsub.OrderEvent{
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		Status:     string(order.Status),
		TotalKZT:   order.TotalKZT,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishOrderEvent(ctx, event); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", event.OrderID), "order event publish failed")
	}
}

type orderLine struct {
	SKU string
	Qty int
}

// mergeLines folds duplicate SKUs into a single line, keeping first-seen order.
func mergeLines(items []types.OrderItemInput) ([]orderLine, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	index := map[string]int{}
	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		sku := strings.TrimSpace(item.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item sku required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item qty must be positive")
		}
		if at, ok := index[sku]; ok {
			lines[at].Qty += item.Qty
			continue
		}
		index[sku] = len(lines)
		lines = append(lines, orderLine{SKU: sku, Qty: item.Qty})
	}
	return lines, nil
}

func insufficientStock(issues []types.StockIssue) *pkgerrors.Error {
	sort.Slice(issues, func(i, j int) bool { return issues[i].SKU < issues[j].SKU })
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(issues)
}

func orderViews(orders []models.Order) []types.Order {
	out := make([]types.Order, 0, len(orders))
	for i := range orders {
		out = append(out, orderView(&orders[i]))
	}
	return out
}

func orderView(order *models.Order) types.Order {
	items := make([]types.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		view := types.OrderItem{
			SKU:      item.SKU,
			Name:     item.Name,
			PriceKZT: item.PriceKZT,
			Qty:      item.Qty,
		}
		if item.Image != nil {
			view.Image = *item.Image
		}
		items = append(items, view)
	}
	return types.Order{
		ID:              order.ID.String(),
		Status:          string(order.Status),
		TotalKZT:        order.TotalKZT,
		ShippingAddress: order.ShippingAddress,
		ContactInfo:     order.ContactInfo,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
}
