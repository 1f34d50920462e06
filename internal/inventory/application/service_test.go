package application_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

type fakeRepo struct {
	products map[uuid.UUID]domain.Product
	reserved [][]domain.ReservationLine
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: map[uuid.UUID]domain.Product{}}
}

func (f *fakeRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok || p.IsDeleted {
		return domain.Product{}, apperror.New(apperror.KindNotFound, "product not found")
	}
	return p, nil
}

func (f *fakeRepo) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		if !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, p domain.Product) (domain.Product, error) {
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) UpdateStock(_ context.Context, id uuid.UUID, stock int) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok || p.IsDeleted {
		return domain.Product{}, apperror.New(apperror.KindNotFound, "product not found")
	}
	p.Stock = stock
	f.products[id] = p
	return p, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := f.products[id]
	if !ok || p.IsDeleted {
		return apperror.New(apperror.KindNotFound, "product not found")
	}
	p.IsDeleted = true
	f.products[id] = p
	return nil
}

func (f *fakeRepo) ReserveBatch(_ context.Context, lines []domain.ReservationLine) error {
	f.reserved = append(f.reserved, lines)
	return nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateProductValidation(t *testing.T) {
	svc := application.NewService(newFakeRepo())

	tests := []struct {
		name    string
		payload application.ProductPayload
	}{
		{"empty name", application.ProductPayload{Price: price("10.00"), Stock: 1}},
		{"blank name", application.ProductPayload{Name: "   ", Price: price("10.00"), Stock: 1}},
		{"zero price", application.ProductPayload{Name: "Mouse", Price: decimal.Zero, Stock: 1}},
		{"negative price", application.ProductPayload{Name: "Mouse", Price: price("-1.00"), Stock: 1}},
		{"negative stock", application.ProductPayload{Name: "Mouse", Price: price("10.00"), Stock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.payload)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
}

func TestUpdateDoesNotTouchStock(t *testing.T) {
	repo := newFakeRepo()
	svc := application.NewService(repo)

	created, err := svc.Create(context.Background(), application.ProductPayload{
		Name: "Mouse", Price: price("10.00"), Stock: 7,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, application.ProductPayload{
		Name: "Gaming Mouse", Price: price("15.00"), Stock: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, "Gaming Mouse", updated.Name)
	assert.True(t, updated.Price.Equal(price("15.00")))
	assert.Equal(t, 7, updated.Stock, "stock only changes through UpdateStock or reservations")
}

func TestUpdateStock(t *testing.T) {
	repo := newFakeRepo()
	svc := application.NewService(repo)

	created, err := svc.Create(context.Background(), application.ProductPayload{
		Name: "Mouse", Price: price("10.00"), Stock: 7,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStock(context.Background(), created.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	_, err = svc.UpdateStock(context.Background(), created.ID, -1)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
}

func TestReserveValidatesBatchShape(t *testing.T) {
	repo := newFakeRepo()
	svc := application.NewService(repo)
	id := uuid.New()

	tests := []struct {
		name  string
		lines []domain.ReservationLine
	}{
		{"empty batch", nil},
		{"missing product id", []domain.ReservationLine{{Quantity: 1}}},
		{"zero quantity", []domain.ReservationLine{{ProductID: id, Quantity: 0}}},
		{"negative quantity", []domain.ReservationLine{{ProductID: id, Quantity: -3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Reserve(context.Background(), tt.lines)
			assert.True(t, apperror.IsKind(err, apperror.KindValidation), "got %v", err)
		})
	}
	assert.Empty(t, repo.reserved, "invalid batches never reach the repository")

	err := svc.Reserve(context.Background(), []domain.ReservationLine{{ProductID: id, Quantity: 2}})
	require.NoError(t, err)
	assert.Len(t, repo.reserved, 1)
}

func TestRemoveThenGet(t *testing.T) {
	repo := newFakeRepo()
	svc := application.NewService(repo)

	created, err := svc.Create(context.Background(), application.ProductPayload{
		Name: "Mouse", Price: price("10.00"), Stock: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), created.ID))

	_, err = svc.Get(context.Background(), created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound), "got %v", err)
}
