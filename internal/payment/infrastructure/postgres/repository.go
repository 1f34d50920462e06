package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

const uniqueViolation = "23505"

type AttemptRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewAttemptRepository(log *slog.Logger, pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{log: log, pool: pool}
}

// SaveAll writes the whole batch in one transaction so an order's attempts
// land together.
func (r *AttemptRepository) SaveAll(ctx context.Context, attempts []domain.PaymentAttempt) (txErr error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin attempts tx: %w", err)
	}
	defer func() {
		if txErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, a := range attempts {
		batch.Queue(`INSERT INTO payment_attempts (id, order_id, type_payment_id, amount, status, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			a.ID, a.OrderID, a.TypePaymentID, a.Amount, a.Status, a.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert payment attempts: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit attempts tx: %w", err)
	}
	return nil
}

func (r *AttemptRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.PaymentAttempt, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, type_payment_id, amount, status, created_at
		FROM payment_attempts WHERE order_id=$1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payment attempts: %w", err)
	}
	defer rows.Close()

	var out []domain.PaymentAttempt
	for rows.Next() {
		var a domain.PaymentAttempt
		if err := rows.Scan(&a.ID, &a.OrderID, &a.TypePaymentID, &a.Amount, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type TypeRepository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewTypeRepository(log *slog.Logger, pool *pgxpool.Pool) *TypeRepository {
	return &TypeRepository{log: log, pool: pool}
}

func (r *TypeRepository) Create(ctx context.Context, t domain.PaymentType) (domain.PaymentType, error) {
	_, err := r.pool.Exec(ctx, `INSERT INTO payment_types (id, name, created_at) VALUES ($1,$2,$3)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.PaymentType{}, apperror.New(apperror.KindConflict, "payment type %q already exists", t.Name)
		}
		return domain.PaymentType{}, fmt.Errorf("insert payment type: %w", err)
	}
	return t, nil
}

func (r *TypeRepository) Get(ctx context.Context, id uuid.UUID) (domain.PaymentType, error) {
	var t domain.PaymentType
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM payment_types WHERE id=$1`, id).
		Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PaymentType{}, apperror.New(apperror.KindNotFound, "payment type not found")
		}
		return domain.PaymentType{}, fmt.Errorf("get payment type: %w", err)
	}
	return t, nil
}

func (r *TypeRepository) List(ctx context.Context) ([]domain.PaymentType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM payment_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list payment types: %w", err)
	}
	defer rows.Close()

	var out []domain.PaymentType
	for rows.Next() {
		var t domain.PaymentType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
