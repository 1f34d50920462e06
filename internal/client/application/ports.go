package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/client/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, c domain.Client) (domain.Client, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Update(ctx context.Context, c domain.Client) (domain.Client, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
