package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const productColumns = `id, name, price, stock, is_deleted, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `INSERT INTO products (id, name, price, stock, is_deleted, created_at, updated_at)
		VALUES ($1,$2,$3,$4,false,$5,$6)`,
		p.ID, p.Name, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1 AND is_deleted=false`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, apperror.New(apperror.KindNotFound, "product not found")
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE is_deleted=false ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.UpdatedAt = time.Now().UTC()

	ct, err := r.pool.Exec(ctx, `UPDATE products SET name=$2, price=$3, updated_at=$4
		WHERE id=$1 AND is_deleted=false`,
		p.ID, p.Name, p.Price, p.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.Product{}, apperror.New(apperror.KindNotFound, "product not found")
	}
	return p, nil
}

func (r *Repository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (domain.Product, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE products SET stock=$2, updated_at=$3 WHERE id=$1 AND is_deleted=false`,
		id, stock, time.Now().UTC())
	if err != nil {
		return domain.Product{}, fmt.Errorf("update stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.Product{}, apperror.New(apperror.KindNotFound, "product not found")
	}
	return r.Get(ctx, id)
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `UPDATE products SET is_deleted=true, updated_at=$2 WHERE id=$1 AND is_deleted=false`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.New(apperror.KindNotFound, "product not found")
	}
	return nil
}

// ReserveBatch runs all decrements in one transaction with a stock guard on
// each UPDATE. Any line that cannot be satisfied rolls back every previous
// decrement, so the batch is all-or-nothing and stock never goes negative.
func (r *Repository) ReserveBatch(ctx context.Context, lines []domain.ReservationLine) (txErr error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin reserve tx: %w", err)
	}
	defer func() {
		if txErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()
	for _, line := range lines {
		ct, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2, updated_at=$3
			WHERE id=$1 AND is_deleted=false AND stock >= $2`,
			line.ProductID, line.Quantity, now)
		if err != nil {
			return fmt.Errorf("reserve product %s: %w", line.ProductID, err)
		}
		if ct.RowsAffected() == 0 {
			return r.reservationFailure(ctx, tx, line)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reserve tx: %w", err)
	}
	return nil
}

// reservationFailure distinguishes a missing product from a short one so the
// caller gets the business error the contract promises.
func (r *Repository) reservationFailure(ctx context.Context, tx pgx.Tx, line domain.ReservationLine) error {
	var name string
	var stock int
	err := tx.QueryRow(ctx, `SELECT name, stock FROM products WHERE id=$1 AND is_deleted=false`, line.ProductID).
		Scan(&name, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.New(apperror.KindNotFound, "product %s not found", line.ProductID)
		}
		return fmt.Errorf("inspect product %s: %w", line.ProductID, err)
	}

	return apperror.New(apperror.KindInsufficientStock,
		"insufficient stock for product '%s'. Available: %d, Required: %d", name, stock, line.Quantity).
		WithMeta("productId", line.ProductID.String()).
		WithMeta("available", stock).
		WithMeta("required", line.Quantity)
}
