package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/events"
)

type fakeAttempts struct {
	saved   []domain.PaymentAttempt
	saveErr error
}

func (f *fakeAttempts) SaveAll(_ context.Context, attempts []domain.PaymentAttempt) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, attempts...)
	return nil
}

func (f *fakeAttempts) ListByOrder(_ context.Context, orderID uuid.UUID) ([]domain.PaymentAttempt, error) {
	var out []domain.PaymentAttempt
	for _, a := range f.saved {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeTypes struct {
	known map[uuid.UUID]domain.PaymentType
}

func (f *fakeTypes) Create(_ context.Context, t domain.PaymentType) (domain.PaymentType, error) {
	f.known[t.ID] = t
	return t, nil
}

func (f *fakeTypes) Get(_ context.Context, id uuid.UUID) (domain.PaymentType, error) {
	t, ok := f.known[id]
	if !ok {
		return domain.PaymentType{}, apperror.New(apperror.KindNotFound, "payment type not found")
	}
	return t, nil
}

func (f *fakeTypes) List(_ context.Context) ([]domain.PaymentType, error) {
	var out []domain.PaymentType
	for _, t := range f.known {
		out = append(out, t)
	}
	return out, nil
}

type fakeOrders struct {
	orders    map[uuid.UUID]application.OrderSnapshot
	getErr    error
	updateErr error
	updates   []string
}

func (f *fakeOrders) Get(_ context.Context, id uuid.UUID) (application.OrderSnapshot, error) {
	if f.getErr != nil {
		return application.OrderSnapshot{}, f.getErr
	}
	o, ok := f.orders[id]
	if !ok {
		return application.OrderSnapshot{}, apperror.New(apperror.KindNotFound, "order not found")
	}
	return o, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	o := f.orders[id]
	o.Status = status
	f.orders[id] = o
	f.updates = append(f.updates, status)
	return nil
}

type fakeNames struct {
	name string
	err  error
}

func (f *fakeNames) Name(context.Context, uuid.UUID) (string, error) { return f.name, f.err }

// scriptedGateway returns its outcomes in order, then keeps approving.
type scriptedGateway struct {
	outcomes []bool
	calls    int
}

func (g *scriptedGateway) Charge(context.Context, uuid.UUID, uuid.UUID, decimal.Decimal) bool {
	g.calls++
	if g.calls <= len(g.outcomes) {
		return g.outcomes[g.calls-1]
	}
	return true
}

type fakePropagator struct {
	published []events.Event
}

func (f *fakePropagator) Propagate(_ context.Context, ev events.Event) {
	f.published = append(f.published, ev)
}

type fixture struct {
	svc        *application.Service
	attempts   *fakeAttempts
	types      *fakeTypes
	orders     *fakeOrders
	gateway    *scriptedGateway
	propagator *fakePropagator

	orderID uuid.UUID
	typeID  uuid.UUID
}

func newFixture(outcomes ...bool) *fixture {
	orderID := uuid.New()
	typeID := uuid.New()

	f := &fixture{
		attempts: &fakeAttempts{},
		types: &fakeTypes{known: map[uuid.UUID]domain.PaymentType{
			typeID: {ID: typeID, Name: "credit_card"},
		}},
		orders: &fakeOrders{orders: map[uuid.UUID]application.OrderSnapshot{
			orderID: {
				ID:       orderID,
				ClientID: uuid.New(),
				Status:   "AWAITING_PAYMENT",
				Total:    decimal.RequireFromString("100.00"),
				Items:    []application.OrderItemSummary{{ProductName: "Mouse", Quantity: 2, Subtotal: decimal.RequireFromString("100.00")}},
			},
		}},
		gateway:    &scriptedGateway{outcomes: outcomes},
		propagator: &fakePropagator{},
		orderID:    orderID,
		typeID:     typeID,
	}
	f.svc = application.NewService(slog.Default(), f.attempts, f.types, f.orders,
		&fakeNames{name: "Maria Silva"}, f.gateway, f.propagator)
	return f
}

func instruction(typeID uuid.UUID, amount string) application.Instruction {
	return application.Instruction{TypePaymentID: typeID, Amount: decimal.RequireFromString(amount)}
}

func TestProcessPaymentAllApprovedMarksPaid(t *testing.T) {
	f := newFixture(true, true)

	result, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "60.00"),
		instruction(f.typeID, "40.00"),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "PAID", result.Status)
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, []string{"PAID"}, f.orders.updates)
	assert.Len(t, f.attempts.saved, 2)
	assert.Contains(t, result.Message, "Maria Silva")
	assert.Contains(t, result.Message, "PAID")

	require.Len(t, f.propagator.published, 1)
	assert.Equal(t, events.TypePaymentProcessed, f.propagator.published[0].Type)
	payload := f.propagator.published[0].Data.(events.PaymentProcessed)
	assert.True(t, payload.Success)
	assert.Equal(t, f.orderID.String(), payload.OrderID)
}

func TestProcessPaymentOneDeclineCancelsOrder(t *testing.T) {
	f := newFixture(true, false)

	result, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "60.00"),
		instruction(f.typeID, "40.00"),
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.Equal(t, []string{"CANCELLED"}, f.orders.updates)

	// both attempts are recorded, including the approved one
	require.Len(t, f.attempts.saved, 2)
	assert.Equal(t, domain.AttemptSuccess, f.attempts.saved[0].Status)
	assert.Equal(t, domain.AttemptFailed, f.attempts.saved[1].Status)

	payload := f.propagator.published[0].Data.(events.PaymentProcessed)
	assert.False(t, payload.Success)
	assert.Equal(t, "CANCELLED", payload.Status)
}

func TestProcessPaymentValidation(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name         string
		instructions []application.Instruction
	}{
		{"no payments", nil},
		{"missing type id", []application.Instruction{{Amount: decimal.RequireFromString("10.00")}}},
		{"zero amount", []application.Instruction{instruction(f.typeID, "0")}},
		{"negative amount", []application.Instruction{instruction(f.typeID, "-5.00")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ProcessPayment(context.Background(), f.orderID, tt.instructions)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
	assert.Empty(t, f.attempts.saved)
	assert.Empty(t, f.orders.updates)
}

func TestProcessPaymentExceedsOrderTotal(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "100.01"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
	assert.Empty(t, f.attempts.saved)
}

func TestProcessPaymentUnknownOrder(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ProcessPayment(context.Background(), uuid.New(), []application.Instruction{
		instruction(f.typeID, "10.00"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "got %v", err)
}

func TestProcessPaymentRejectsNonAwaitingOrder(t *testing.T) {
	f := newFixture()
	o := f.orders.orders[f.orderID]
	o.Status = "PAID"
	f.orders.orders[f.orderID] = o

	_, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "10.00"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict), "got %v", err)
	assert.Empty(t, f.attempts.saved)
}

func TestProcessPaymentUnknownOrderWinsOverBadPayload(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ProcessPayment(context.Background(), uuid.New(), nil)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "got %v", err)
}

func TestProcessPaymentSettledOrderWinsOverBadPayload(t *testing.T) {
	f := newFixture()
	o := f.orders.orders[f.orderID]
	o.Status = "PAID"
	f.orders.orders[f.orderID] = o

	_, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "0.00"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict), "got %v", err)
	assert.Empty(t, f.attempts.saved)
}

func TestProcessPaymentUnknownType(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(uuid.New(), "10.00"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "got %v", err)
	assert.Empty(t, f.attempts.saved, "no charge may run against an unknown payment type")
}

func TestProcessPaymentStatusUpdateFailureKeepsAttempts(t *testing.T) {
	f := newFixture(true)
	f.orders.updateErr = errors.New("orders service timeout")

	_, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "10.00"),
	})
	require.True(t, apperror.IsKind(err, apperror.KindStatusUpdate), "got %v", err)
	assert.Len(t, f.attempts.saved, 1, "attempts are not rolled back")
	assert.Empty(t, f.propagator.published, "no processed event when the order state is unknown")
}

func TestProcessPaymentReceiptFallsBackWithoutClientName(t *testing.T) {
	f := newFixture(true)
	svc := application.NewService(slog.Default(), f.attempts, f.types, f.orders,
		&fakeNames{err: errors.New("clients service down")}, f.gateway, f.propagator)

	result, err := svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "10.00"),
	})
	require.NoError(t, err)
	assert.Contains(t, result.Message, "customer")
}

func TestGetOrderPayments(t *testing.T) {
	f := newFixture(true)

	_, err := f.svc.ProcessPayment(context.Background(), f.orderID, []application.Instruction{
		instruction(f.typeID, "10.00"),
	})
	require.NoError(t, err)
	// the order left AWAITING_PAYMENT, listing must still work
	attempts, err := f.svc.GetOrderPayments(context.Background(), f.orderID)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)

	_, err = f.svc.GetOrderPayments(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "got %v", err)
}

func TestCreateTypeRequiresName(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateType(context.Background(), application.TypePayload{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)

	created, err := f.svc.CreateType(context.Background(), application.TypePayload{Name: "pix"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	types, err := f.svc.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 2)
}
