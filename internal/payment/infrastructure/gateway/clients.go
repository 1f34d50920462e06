package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

// Clients resolves client display names for payment receipts.
type Clients struct {
	baseURL string
	client  *http.Client
}

func NewClients(baseURL string, client *http.Client) *Clients {
	return &Clients{baseURL: baseURL, client: client}
}

func (g *Clients) Name(ctx context.Context, id uuid.UUID) (string, error) {
	var body struct {
		Name string `json:"name"`
	}
	err := getJSON(ctx, g.client, fmt.Sprintf("%s/v1/clients/%s", g.baseURL, id), &body)
	if err != nil {
		return "", err
	}
	return body.Name, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "build request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "call %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return remoteError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperror.Wrap(err, apperror.KindDependency, "decode response from %s", url)
	}
	return nil
}

// remoteError rebuilds the downstream service's {code, message} body as a
// local error so kinds survive the service boundary.
func remoteError(resp *http.Response) error {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Code == "" {
		return apperror.New(apperror.KindDependency, "unexpected status %d from %s", resp.StatusCode, resp.Request.URL)
	}

	switch kind := apperror.Kind(body.Code); kind {
	case apperror.KindValidation, apperror.KindNotFound, apperror.KindConflict:
		return apperror.New(kind, "%s", body.Message)
	default:
		return apperror.New(apperror.KindDependency, "%s", body.Message)
	}
}
