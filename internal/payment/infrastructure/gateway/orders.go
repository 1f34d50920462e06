package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/payment/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

// Orders reads and transitions orders through the orders service REST
// surface.
type Orders struct {
	baseURL string
	client  *http.Client
}

func NewOrders(baseURL string, client *http.Client) *Orders {
	return &Orders{baseURL: baseURL, client: client}
}

func (g *Orders) Get(ctx context.Context, orderID uuid.UUID) (application.OrderSnapshot, error) {
	var snapshot application.OrderSnapshot
	err := getJSON(ctx, g.client, fmt.Sprintf("%s/v1/orders/%s", g.baseURL, orderID), &snapshot)
	return snapshot, err
}

func (g *Orders) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	payload, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "encode status update")
	}

	url := fmt.Sprintf("%s/v1/orders/%s/status", g.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
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
