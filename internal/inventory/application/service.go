package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

type ProductPayload struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func (p ProductPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.New(apperror.KindValidation, "product name is required")
	}
	if !p.Price.IsPositive() {
		return apperror.New(apperror.KindValidation, "product price must be positive")
	}
	if p.Stock < 0 {
		return apperror.New(apperror.KindValidation, "product stock must not be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, payload ProductPayload) (domain.Product, error) {
	if err := payload.validate(); err != nil {
		return domain.Product{}, err
	}
	return s.repo.Create(ctx, domain.Product{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(payload.Name),
		Price: payload.Price,
		Stock: payload.Stock,
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Update changes name and price only; stock moves through UpdateStock or
// ReserveBatch so concurrent decrements are never overwritten by a stale read.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload ProductPayload) (domain.Product, error) {
	if err := payload.validate(); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	existing.Name = strings.TrimSpace(payload.Name)
	existing.Price = payload.Price
	return s.repo.Update(ctx, existing)
}

func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (domain.Product, error) {
	if stock < 0 {
		return domain.Product{}, apperror.New(apperror.KindValidation, "product stock must not be negative")
	}
	return s.repo.UpdateStock(ctx, id, stock)
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Reserve validates the batch shape and delegates the all-or-nothing
// decrement to the repository transaction.
func (s *Service) Reserve(ctx context.Context, lines []domain.ReservationLine) error {
	if len(lines) == 0 {
		return apperror.New(apperror.KindValidation, "reservation must contain at least 1 product")
	}
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return apperror.New(apperror.KindValidation, "reservation product id is required")
		}
		if line.Quantity <= 0 {
			return apperror.New(apperror.KindValidation, "reservation quantity must be a positive integer")
		}
	}
	return s.repo.ReserveBatch(ctx, lines)
}
