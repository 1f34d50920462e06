package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperror.New(apperror.KindValidation, "items required"), http.StatusBadRequest},
		{"insufficient stock", apperror.New(apperror.KindInsufficientStock, "no stock"), http.StatusBadRequest},
		{"not found", apperror.New(apperror.KindNotFound, "order not found"), http.StatusNotFound},
		{"conflict", apperror.New(apperror.KindConflict, "email taken"), http.StatusConflict},
		{"dependency", apperror.New(apperror.KindDependency, "clients service down"), http.StatusInternalServerError},
		{"status update", apperror.New(apperror.KindStatusUpdate, "order status not updated"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", apperror.New(apperror.KindNotFound, "gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperror.HTTPStatus(tt.err))
		})
	}
}

func TestKindOf(t *testing.T) {
	err := apperror.Wrap(errors.New("dial tcp"), apperror.KindDependency, "error validating client")

	assert.Equal(t, apperror.KindDependency, apperror.KindOf(err))
	assert.True(t, apperror.IsKind(err, apperror.KindDependency))
	assert.False(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("boom")))
}

func TestMessageOfHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := apperror.Wrap(cause, apperror.KindDependency, "error checking stock")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "error checking stock", apperror.MessageOf(err))
	assert.Equal(t, "internal error", apperror.MessageOf(cause))
}

func TestWithMeta(t *testing.T) {
	err := apperror.New(apperror.KindInsufficientStock, "insufficient stock for product 'Mouse'").
		WithMeta("available", 5).
		WithMeta("required", 10)

	assert.Equal(t, 5, err.Meta["available"])
	assert.Equal(t, 10, err.Meta["required"])
}
