package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

// fallbackClientName is used when status events cannot be enriched with the
// client's display name; the status update itself never blocks on it.
const fallbackClientName = "customer"

type Service struct {
	log        *slog.Logger
	repo       OrderRepository
	clients    ClientDirectory
	inventory  InventoryGateway
	propagator EventPropagator
	payments   PaymentRequester
}

func NewService(
	log *slog.Logger,
	repo OrderRepository,
	clients ClientDirectory,
	inventory InventoryGateway,
	propagator EventPropagator,
	payments PaymentRequester,
) *Service {
	return &Service{
		log:        log,
		repo:       repo,
		clients:    clients,
		inventory:  inventory,
		propagator: propagator,
		payments:   payments,
	}
}

type ItemPayload struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderPayload struct {
	ClientID uuid.UUID                   `json:"clientId"`
	Items    []ItemPayload               `json:"items"`
	Payments []domain.PaymentInstruction `json:"payments,omitempty"`
}

func (p CreateOrderPayload) validate() error {
	if p.ClientID == uuid.Nil {
		return apperror.New(apperror.KindValidation, "client id is required")
	}
	if len(p.Items) == 0 {
		return apperror.New(apperror.KindValidation, "order must contain at least 1 item")
	}
	for i, item := range p.Items {
		if item.ProductID == uuid.Nil {
			return apperror.New(apperror.KindValidation, "item %d: product id is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.New(apperror.KindValidation, "item %d: quantity must be a positive integer", i+1)
		}
	}
	return nil
}

// CreateOrder runs the order-creation saga: validate client, enrich and
// price items against the inventory, reserve stock atomically, persist, then
// fan the created event out and optionally hand off payments.
//
// The per-item availability check and the reservation are separate calls, so
// a concurrent order can consume stock in between; the reservation is the
// authoritative step and its failure aborts the saga without creating an
// order. Persisting the order is the commit point: once stored, publication
// or hand-off failures are logged, never rolled back.
func (s *Service) CreateOrder(ctx context.Context, payload CreateOrderPayload) (domain.Order, error) {
	if err := payload.validate(); err != nil {
		return domain.Order{}, err
	}

	valid, err := s.clients.Validate(ctx, payload.ClientID)
	if err != nil {
		return domain.Order{}, apperror.Wrap(err, apperror.KindDependency, "error validating client")
	}
	if !valid {
		return domain.Order{}, apperror.New(apperror.KindNotFound, "client not found")
	}

	items, err := s.enrichItems(ctx, payload.Items)
	if err != nil {
		return domain.Order{}, err
	}

	lines := lo.Map(items, func(item domain.OrderItem, _ int) ReservationLine {
		return ReservationLine{ProductID: item.ProductID, Quantity: item.Quantity}
	})
	if err := s.inventory.Reserve(ctx, lines); err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindInsufficientStock, apperror.KindNotFound:
			return domain.Order{}, err
		default:
			return domain.Order{}, apperror.Wrap(err, apperror.KindStockReservation, "error reserving stock")
		}
	}

	order, err := s.repo.Create(ctx, domain.NewOrder(payload.ClientID, items))
	if err != nil {
		return domain.Order{}, apperror.Wrap(err, apperror.KindDependency, "error persisting order")
	}

	s.propagator.Propagate(ctx, events.New(events.TypeOrderCreated, events.OrderCreated{
		OrderID:    order.ID.String(),
		ClientID:   order.ClientID.String(),
		Total:      order.Total,
		Status:     string(order.Status),
		ItemsCount: len(order.Items),
		CreatedAt:  order.CreatedAt,
	}))

	if len(payload.Payments) > 0 {
		req := domain.PaymentRequested{
			OrderID:     order.ID,
			Payments:    payload.Payments,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.payments.RequestPayment(ctx, req); err != nil {
			s.log.Error("payment hand-off failed, order stays awaiting payment",
				"order_id", order.ID, "err", err)
		}
	}

	return order, nil
}

// enrichItems snapshots product name and price and prices each line. The
// whole order aborts on the first missing or short product.
func (s *Service) enrichItems(ctx context.Context, items []ItemPayload) ([]domain.OrderItem, error) {
	enriched := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.inventory.Product(ctx, item.ProductID)
		if err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				return nil, apperror.New(apperror.KindNotFound, "product %s not found", item.ProductID)
			}
			return nil, apperror.Wrap(err, apperror.KindDependency, "error validating product %s", item.ProductID)
		}

		if product.Stock < item.Quantity {
			return nil, apperror.New(apperror.KindInsufficientStock,
				"insufficient stock for product '%s'. Available: %d, Required: %d",
				product.Name, product.Stock, item.Quantity).
				WithMeta("productId", product.ID.String()).
				WithMeta("available", product.Stock).
				WithMeta("required", item.Quantity)
		}

		quantity := decimal.NewFromInt(int64(item.Quantity))
		enriched = append(enriched, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    product.Price.Mul(quantity),
		})
	}
	return enriched, nil
}

// UpdateOrderStatus persists the transition and propagates the matching
// event on both channels. Only terminal payment outcomes emit events.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.Status) (domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return domain.Order{}, err
	}

	eventType, ok := statusEvent(status)
	if !ok {
		return order, nil
	}

	clientName := fallbackClientName
	if info, err := s.clients.Get(ctx, order.ClientID); err != nil {
		s.log.Warn("client enrichment failed, using fallback name", "order_id", order.ID, "err", err)
	} else {
		clientName = info.Name
	}

	s.propagator.Propagate(ctx, events.New(eventType, events.OrderStatusChanged{
		OrderID:    order.ID.String(),
		ClientID:   order.ClientID.String(),
		ClientName: clientName,
		Status:     string(order.Status),
		Total:      order.Total,
		UpdatedAt:  order.UpdatedAt,
	}))

	return order, nil
}

func statusEvent(status domain.Status) (string, bool) {
	switch status {
	case domain.StatusPaid:
		return events.TypeOrderPaid, true
	case domain.StatusPaymentFailed, domain.StatusCancelled:
		return events.TypeOrderFailed, true
	default:
		return "", false
	}
}

// GetOrdersByClient validates the client the same way CreateOrder does.
func (s *Service) GetOrdersByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Order, error) {
	valid, err := s.clients.Validate(ctx, clientID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindDependency, "error validating client")
	}
	if !valid {
		return nil, apperror.New(apperror.KindNotFound, "client not found")
	}
	return s.repo.ListByClient(ctx, clientID)
}

func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) Remove(ctx context.Context, orderID uuid.UUID) error {
	return s.repo.SoftDelete(ctx, orderID)
}
