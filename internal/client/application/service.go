package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/client/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

type Service struct {
	repo ClientRepository
}

func NewService(repo ClientRepository) *Service {
	return &Service{repo: repo}
}

type ClientPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p ClientPayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.New(apperror.KindValidation, "client name is required")
	}
	if !domain.ValidEmail(p.Email) {
		return apperror.New(apperror.KindValidation, "client email is invalid")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, payload ClientPayload) (domain.Client, error) {
	if err := payload.validate(); err != nil {
		return domain.Client{}, err
	}
	return s.repo.Create(ctx, domain.Client{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(payload.Name),
		Email: strings.TrimSpace(payload.Email),
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, payload ClientPayload) (domain.Client, error) {
	if err := payload.validate(); err != nil {
		return domain.Client{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	existing.Name = strings.TrimSpace(payload.Name)
	existing.Email = strings.TrimSpace(payload.Email)
	return s.repo.Update(ctx, existing)
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Validate reports whether the client exists and is not soft-deleted. Lookup
// failures other than not-found surface as dependency errors to callers.
func (s *Service) Validate(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
