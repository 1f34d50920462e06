package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/client/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

const uniqueViolation = "23505"

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Create(ctx context.Context, c domain.Client) (domain.Client, error) {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `INSERT INTO clients (id, name, email, is_deleted, created_at, updated_at)
		VALUES ($1,$2,$3,false,$4,$5)`,
		c.ID, c.Name, c.Email, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, apperror.New(apperror.KindConflict, "a client with email %q already exists", c.Email)
		}
		return domain.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	var c domain.Client
	err := r.pool.QueryRow(ctx, `SELECT id, name, email, is_deleted, created_at, updated_at
		FROM clients WHERE id=$1 AND is_deleted=false`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Client{}, apperror.New(apperror.KindNotFound, "client not found")
		}
		return domain.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email, is_deleted, created_at, updated_at
		FROM clients WHERE is_deleted=false ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, c domain.Client) (domain.Client, error) {
	c.UpdatedAt = time.Now().UTC()

	ct, err := r.pool.Exec(ctx, `UPDATE clients SET name=$2, email=$3, updated_at=$4
		WHERE id=$1 AND is_deleted=false`,
		c.ID, c.Name, c.Email, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Client{}, apperror.New(apperror.KindConflict, "a client with email %q already exists", c.Email)
		}
		return domain.Client{}, fmt.Errorf("update client: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.Client{}, apperror.New(apperror.KindNotFound, "client not found")
	}
	return c, nil
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `UPDATE clients SET is_deleted=true, updated_at=$2 WHERE id=$1 AND is_deleted=false`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.New(apperror.KindNotFound, "client not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
