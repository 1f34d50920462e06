package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/application"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/internal/order/domain"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("orders-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Get("/client/{clientId}", h.listByClient)
	r.Put("/{id}/status", h.updateStatus)
	r.Delete("/{id}", h.remove)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var payload application.CreateOrderPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}

	order, err := h.service.CreateOrder(ctx, payload)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id", "invalid order id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := parseID(r, "clientId", "invalid client id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	orders, err := h.service.GetOrdersByClient(r.Context(), clientID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

type updateStatusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	id, err := parseID(r, "id", "invalid order id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var payload updateStatusPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.WriteError(w, err)
		return
	}
	status, err := domain.ToStatus(payload.Status)
	if err != nil {
		httpx.WriteError(w, apperror.New(apperror.KindValidation, "invalid order status %q", payload.Status))
		return
	}

	order, err := h.service.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id", "invalid order id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "order deleted successfully"})
}

func parseID(r *http.Request, param, msg string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.KindValidation, "%s", msg)
	}
	return id, nil
}
