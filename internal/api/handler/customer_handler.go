package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/notifyhub/dashcore/internal/api/middleware"
	"github.com/notifyhub/dashcore/internal/domain"
	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/service"
)

// Sender dispatches a request through the mediator pipeline.
type Sender interface {
	Send(ctx context.Context, request mediator.Request) (mediator.Response, error)
}

// CustomerHandler translates HTTP calls into customer commands and queries.
type CustomerHandler struct {
	sender Sender
	logger *zap.Logger
}

func NewCustomerHandler(sender Sender, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{sender: sender, logger: logger}
}

// Create handles POST /api/v1/customers
//
// @Summary  Create a customer
// @Tags     customers
// @Accept   json
// @Produce  json
// @Param    body  body      service.CreateCustomerCommand  true  "Customer payload"
// @Success  201   {object}  service.CustomerDTO
// @Failure  409   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd service.CreateCustomerCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.send(w, r, &cmd, http.StatusCreated)
}

// Update handles PUT /api/v1/customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd service.UpdateCustomerCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	cmd.ID = chi.URLParam(r, "id")
	h.send(w, r, &cmd, http.StatusOK)
}

// GetByID handles GET /api/v1/customers/{id}
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &service.GetCustomerByIDQuery{ID: chi.URLParam(r, "id")}, http.StatusOK)
}

// List handles GET /api/v1/customers
//
// @Summary  List customers with keyword search, ordering and pagination
// @Tags     customers
// @Produce  json
// @Param    keyword         query  string  false  "Matches name, email, phone, country or description"
// @Param    order_by        query  string  false  "name | email | country | created_at"
// @Param    sort_direction  query  string  false  "asc | desc"
// @Param    page            query  int     false  "Page number (default 1)"
// @Param    page_size       query  int     false  "Items per page (default 15, max 100)"
// @Router   /api/v1/customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &service.ListCustomersQuery{Filter: parseCustomerFilter(r)}, http.StatusOK)
}

// Delete handles DELETE /api/v1/customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, []string{chi.URLParam(r, "id")})
}

// DeleteMany handles DELETE /api/v1/customers with a body of {"ids": [...]}
func (h *CustomerHandler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var cmd service.DeleteCustomerCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	h.remove(w, r, cmd.IDs)
}

func (h *CustomerHandler) remove(w http.ResponseWriter, r *http.Request, ids []string) {
	if _, err := h.sender.Send(r.Context(), &service.DeleteCustomerCommand{IDs: ids}); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) send(w http.ResponseWriter, r *http.Request, req mediator.Request, status int) {
	resp, err := h.sender.Send(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, status, resp)
}

func (h *CustomerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsClientError(err) {
		h.logger.Error("customer request failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
	}
	mapError(w, err)
}

func parseCustomerFilter(r *http.Request) domain.CustomerFilter {
	q := r.URL.Query()
	filter := domain.CustomerFilter{
		Keyword:       q.Get("keyword"),
		OrderBy:       q.Get("order_by"),
		SortDirection: q.Get("sort_direction"),
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = p
	}
	if s, err := strconv.Atoi(q.Get("page_size")); err == nil {
		filter.PageSize = s
	}
	return filter.Normalize()
}
