package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

// Inventory talks to the products service for catalog reads and batch stock
// reservation.
type Inventory struct {
	baseURL string
	client  *http.Client
}

func NewInventory(baseURL string, client *http.Client) *Inventory {
	return &Inventory{baseURL: baseURL, client: client}
}

func (g *Inventory) Product(ctx context.Context, id uuid.UUID) (application.ProductInfo, error) {
	var info application.ProductInfo
	err := getJSON(ctx, g.client, fmt.Sprintf("%s/v1/products/%s", g.baseURL, id), &info)
	return info, err
}

// Reserve asks the products service to decrement every line atomically. A
// business refusal (missing product, short stock) comes back with its kind
// intact; transport failures surface as dependency errors.
func (g *Inventory) Reserve(ctx context.Context, lines []application.ReservationLine) error {
	payload, err := json.Marshal(map[string]any{"products": lines})
	if err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "encode reservation")
	}

	url := g.baseURL + "/v1/products/check-stock"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "call %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return remoteError(resp)
	}
	return nil
}
