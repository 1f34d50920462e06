package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

// ClientDirectory talks to the clients service over its REST surface.
type ClientDirectory struct {
	baseURL string
	client  *http.Client
}

func NewClientDirectory(baseURL string, client *http.Client) *ClientDirectory {
	return &ClientDirectory{baseURL: baseURL, client: client}
}

func (d *ClientDirectory) Validate(ctx context.Context, id uuid.UUID) (bool, error) {
	var body struct {
		Valid bool `json:"valid"`
	}
	err := getJSON(ctx, d.client, fmt.Sprintf("%s/v1/clients/%s/validate", d.baseURL, id), &body)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return body.Valid, nil
}

func (d *ClientDirectory) Get(ctx context.Context, id uuid.UUID) (application.ClientInfo, error) {
	var info application.ClientInfo
	err := getJSON(ctx, d.client, fmt.Sprintf("%s/v1/clients/%s", d.baseURL, id), &info)
	return info, err
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
	case apperror.KindValidation, apperror.KindNotFound, apperror.KindConflict, apperror.KindInsufficientStock:
		return apperror.New(kind, "%s", body.Message)
	default:
		return apperror.New(apperror.KindDependency, "%s", body.Message)
	}
}
