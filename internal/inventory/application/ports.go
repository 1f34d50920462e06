package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) (domain.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// ReserveBatch decrements stock for every line or none. Stock never goes
	// negative; a single short line fails the whole batch.
	ReserveBatch(ctx context.Context, lines []domain.ReservationLine) error
}
