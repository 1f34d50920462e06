package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/inventory/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/check-stock", h.reserve)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Put("/{id}/stock", h.updateStock)
	r.Delete("/{id}", h.remove)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload application.ProductPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	product, err := h.service.Create(r.Context(), payload)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, product)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var payload application.ProductPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var body struct {
		Stock int `json:"stock"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, err)
		return
	}

	product, err := h.service.UpdateStock(r.Context(), id, body.Stock)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

// reserve is the atomic all-or-nothing stock decrement used by the order saga.
func (h *Handler) reserve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Products []domain.ReservationLine `json:"products"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.service.Reserve(r.Context(), body.Products); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "stock reserved successfully",
	})
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindValidation, "invalid product id")
	}
	return id, nil
}
