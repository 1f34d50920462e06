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

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const orderColumns = `id, client_id, status, total, is_deleted, created_at, updated_at`

// Create persists the order header and every item in one transaction; a
// partially written order is never observable.
func (r *Repository) Create(ctx context.Context, o domain.Order) (_ domain.Order, txErr error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	defer func() {
		if txErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, client_id, status, total, is_deleted, created_at, updated_at)
		VALUES ($1,$2,$3,$4,false,$5,$6)`,
		o.ID, o.ClientID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.Subtotal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Order{}, fmt.Errorf("insert order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("commit order tx: %w", err)
	}
	return o, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 AND is_deleted=false`, id).
		Scan(&o.ID, &o.ClientID, &o.Status, &o.Total, &o.IsDeleted, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, apperror.New(apperror.KindNotFound, "order not found")
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE is_deleted=false ORDER BY created_at DESC`)
}

func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Order, error) {
	return r.list(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE client_id=$1 AND is_deleted=false ORDER BY created_at DESC`,
		clientID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []uuid.UUID
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.Status, &o.Total, &o.IsDeleted, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *Repository) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT order_id, product_id, product_name, quantity, unit_price, subtotal
		FROM order_items WHERE order_id = ANY($1)`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID uuid.UUID
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.Order, error) {
	ct, err := r.pool.Exec(ctx, `UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1 AND is_deleted=false`,
		id, status, time.Now().UTC())
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.Order{}, apperror.New(apperror.KindNotFound, "order not found")
	}
	return r.Get(ctx, id)
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `UPDATE orders SET is_deleted=true, updated_at=$2 WHERE id=$1 AND is_deleted=false`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.New(apperror.KindNotFound, "order not found")
	}
	return nil
}
