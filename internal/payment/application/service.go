package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

const (
	statusAwaitingPayment = "AWAITING_PAYMENT"
	statusPaid            = "PAID"
	statusCancelled       = "CANCELLED"

	fallbackClientName = "customer"
)

type Service struct {
	log        *slog.Logger
	attempts   AttemptRepository
	types      TypeRepository
	orders     OrderGateway
	clients    ClientDirectory
	gateway    Gateway
	propagator EventPropagator
}

func NewService(
	log *slog.Logger,
	attempts AttemptRepository,
	types TypeRepository,
	orders OrderGateway,
	clients ClientDirectory,
	gateway Gateway,
	propagator EventPropagator,
) *Service {
	return &Service{
		log:        log,
		attempts:   attempts,
		types:      types,
		orders:     orders,
		clients:    clients,
		gateway:    gateway,
		propagator: propagator,
	}
}

type Instruction struct {
	TypePaymentID uuid.UUID       `json:"typePaymentId"`
	Amount        decimal.Decimal `json:"amount"`
}

type Outcome struct {
	TypePaymentID uuid.UUID       `json:"typePaymentId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

type Result struct {
	OrderID     uuid.UUID       `json:"orderId"`
	Status      string          `json:"status"`
	Payments    []Outcome       `json:"payments"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
}

func validateInstructions(instructions []Instruction) error {
	if len(instructions) == 0 {
		return apperror.New(apperror.KindValidation, "at least 1 payment is required")
	}
	for i, in := range instructions {
		if in.TypePaymentID == uuid.Nil {
			return apperror.New(apperror.KindValidation, "payment %d: payment type id is required", i+1)
		}
		if !in.Amount.IsPositive() {
			return apperror.New(apperror.KindValidation, "payment %d: amount must be greater than zero", i+1)
		}
	}
	return nil
}

// ProcessPayment charges every instruction against the order and settles the
// order's final status. Each charge is attempted independently; one failure
// cancels the order but the successful attempts are still recorded. The order
// is fetched and state-checked before the payload is inspected, so a missing
// or already-settled order reports that, not a payload complaint.
func (s *Service) ProcessPayment(ctx context.Context, orderID uuid.UUID, instructions []Instruction) (Result, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return Result{}, err
		}
		return Result{}, apperror.Wrap(err, apperror.KindDependency, "error fetching order %s", orderID)
	}
	if order.Status != statusAwaitingPayment {
		return Result{}, apperror.New(apperror.KindConflict,
			"order %s cannot be paid in status %s", orderID, order.Status)
	}

	if err := validateInstructions(instructions); err != nil {
		return Result{}, err
	}

	total := decimal.Zero
	for _, in := range instructions {
		total = total.Add(in.Amount)
	}
	if total.GreaterThan(order.Total) {
		return Result{}, apperror.New(apperror.KindValidation,
			"payments total %s exceeds order total %s", total, order.Total)
	}

	for _, in := range instructions {
		if _, err := s.types.Get(ctx, in.TypePaymentID); err != nil {
			return Result{}, err
		}
	}

	attempts := make([]domain.PaymentAttempt, 0, len(instructions))
	for _, in := range instructions {
		ok := s.gateway.Charge(ctx, orderID, in.TypePaymentID, in.Amount)
		attempts = append(attempts, domain.NewAttempt(orderID, in.TypePaymentID, in.Amount, ok))
	}

	if err := s.attempts.SaveAll(ctx, attempts); err != nil {
		return Result{}, apperror.Wrap(err, apperror.KindDependency, "error saving payment attempts")
	}

	success := lo.EveryBy(attempts, func(a domain.PaymentAttempt) bool {
		return a.Status == domain.AttemptSuccess
	})
	finalStatus := statusCancelled
	if success {
		finalStatus = statusPaid
	}

	if err := s.orders.UpdateStatus(ctx, orderID, finalStatus); err != nil {
		return Result{}, apperror.Wrap(err, apperror.KindStatusUpdate,
			"payments for order %s were recorded but the status update to %s failed", orderID, finalStatus)
	}

	s.propagator.Propagate(ctx, events.New(events.TypePaymentProcessed, events.PaymentProcessed{
		OrderID:     orderID.String(),
		Status:      finalStatus,
		TotalAmount: total,
		Success:     success,
	}))

	return Result{
		OrderID: orderID,
		Status:  finalStatus,
		Payments: lo.Map(attempts, func(a domain.PaymentAttempt, _ int) Outcome {
			return Outcome{TypePaymentID: a.TypePaymentID, Amount: a.Amount, Status: string(a.Status)}
		}),
		TotalAmount: total,
		Success:     success,
		Message:     s.receiptMessage(ctx, order, finalStatus, total),
	}, nil
}

// receiptMessage enriches the outcome with the client's name and an item
// summary. Enrichment is best effort; the payment result never fails on it.
func (s *Service) receiptMessage(ctx context.Context, order OrderSnapshot, status string, total decimal.Decimal) string {
	name, err := s.clients.Name(ctx, order.ClientID)
	if err != nil || name == "" {
		s.log.Warn("could not resolve client name for receipt",
			slog.String("order_id", order.ID.String()), slog.Any("error", err))
		name = fallbackClientName
	}

	items := len(order.Items)
	if status == statusPaid {
		return fmt.Sprintf("Payment confirmed for %s. Order %s (%d items, total %s) is now PAID.",
			name, order.ID, items, total)
	}
	return fmt.Sprintf("Payment failed for %s. Order %s was CANCELLED.", name, order.ID)
}

// GetOrderPayments lists every attempt recorded for an existing order.
func (s *Service) GetOrderPayments(ctx context.Context, orderID uuid.UUID) ([]domain.PaymentAttempt, error) {
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.KindDependency, "error fetching order %s", orderID)
	}
	return s.attempts.ListByOrder(ctx, orderID)
}

type TypePayload struct {
	Name string `json:"name"`
}

func (s *Service) CreateType(ctx context.Context, payload TypePayload) (domain.PaymentType, error) {
	if payload.Name == "" {
		return domain.PaymentType{}, apperror.New(apperror.KindValidation, "payment type name is required")
	}
	return s.types.Create(ctx, domain.PaymentType{
		ID:        uuid.New(),
		Name:      payload.Name,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.PaymentType, error) {
	return s.types.List(ctx)
}
