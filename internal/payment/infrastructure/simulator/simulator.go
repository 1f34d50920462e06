package simulator

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway approves a configurable fraction of charges at random. It stands in
// for a real acquirer integration.
type Gateway struct {
	log         *slog.Logger
	successRate float64
}

func New(log *slog.Logger, successRate float64) *Gateway {
	return &Gateway{log: log, successRate: successRate}
}

func (g *Gateway) Charge(_ context.Context, orderID, typeID uuid.UUID, amount decimal.Decimal) bool {
	approved := rand.Float64() < g.successRate
	g.log.Info("simulated charge",
		slog.String("order_id", orderID.String()),
		slog.String("type_payment_id", typeID.String()),
		slog.String("amount", amount.String()),
		slog.Bool("approved", approved),
	)
	return approved
}
