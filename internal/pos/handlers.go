package pos

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-kafe/internal/common"
	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/order"
	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// Handler wires the POS service to HTTP.
type Handler struct {
	Svc *Service
}

var errNotConfigured = &common.AppError{
	Code:       "INTERNAL",
	Message:    "pos service not configured",
	HTTPStatus: http.StatusInternalServerError,
}

type addLineRequest struct {
	Name string `json:"name" validate:"required"`
	Qty  int    `json:"qty" validate:"required,gt=0"`
}

type checkoutRequest struct {
	Paid pricing.Money `json:"paid" validate:"required,gt=0"`
}

// Menu returns the items and combos on offer.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil || h.Svc.Catalog == nil {
		common.WriteAppError(w, errNotConfigured)
		return
	}
	items := make([]map[string]any, 0)
	for _, it := range h.Svc.Catalog.Items() {
		entry := map[string]any{
			"name":  it.Name(),
			"price": it.Price(),
		}
		if it.Limited() {
			entry["stock"] = it.Stock()
		}
		items = append(items, entry)
	}
	combos := make([]map[string]any, 0)
	for _, c := range h.Svc.Catalog.Combos() {
		combos = append(combos, map[string]any{
			"name":     c.Name(),
			"beverage": c.Beverage().Name(),
			"muffin":   c.Muffin().Name(),
			"discount": c.Discount(),
			"price":    c.UnitTotal(),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"items": items, "combos": combos},
	})
}

// Create opens a new order session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.Svc.Open()
	if err != nil {
		common.WriteAppError(w, common.NewAppError("INTERNAL", "unable to open order", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{"orderId": id},
	})
}

// AddItem handles POST /orders/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload addLineRequest
	if !h.decodeLine(w, r, &payload) {
		return
	}
	result, err := h.Svc.AddItem(chi.URLParam(r, "id"), payload.Name, payload.Qty)
	if err != nil {
		h.writeLineError(w, err, result)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"reserved": result.Reserved, "available": result.Available},
	})
}

// AddCombo handles POST /orders/{id}/combos.
func (h *Handler) AddCombo(w http.ResponseWriter, r *http.Request) {
	var payload addLineRequest
	if !h.decodeLine(w, r, &payload) {
		return
	}
	result, err := h.Svc.AddCombo(chi.URLParam(r, "id"), payload.Name, payload.Qty)
	if err != nil {
		h.writeLineError(w, err, result)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"reserved": result.Reserved, "available": result.Available},
	})
}

// Quote handles GET /orders/{id}/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.Quote(chi.URLParam(r, "id"))
	if err != nil {
		h.writeLineError(w, err, AddResult{})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"subtotal": summary.Subtotal,
			"discount": summary.Discount,
			"total":    summary.Total,
		},
	})
}

// Checkout handles POST /orders/{id}/checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var payload checkoutRequest
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.WriteAppError(w, common.NewAppError("BAD_REQUEST", "invalid request body", http.StatusBadRequest, err))
		return
	}
	if details, err := common.ValidateStruct(payload); err != nil {
		common.WriteAppError(w, &common.AppError{
			Code:       "VALIDATION",
			Message:    "invalid payload",
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
			Details:    details,
		})
		return
	}
	receipt, err := h.Svc.Checkout(r.Context(), chi.URLParam(r, "id"), payload.Paid)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		common.WriteAppError(w, common.NewAppError("NOT_FOUND", "order session not found", http.StatusNotFound, err))
		return
	case errors.Is(err, ErrEmptyOrder):
		common.WriteAppError(w, common.NewAppError("EMPTY_ORDER", "order has no lines to check out", http.StatusConflict, err))
		return
	case errors.Is(err, ErrInsufficientPayment):
		common.WriteAppError(w, &common.AppError{
			Code:       "INSUFFICIENT_PAYMENT",
			Message:    "payment does not cover the total",
			HTTPStatus: http.StatusConflict,
			Err:        err,
			Details: map[string]any{
				"total": receipt.Summary.Total,
				"paid":  receipt.Paid,
			},
		})
		return
	default:
		common.WriteAppError(w, common.NewAppError("INTERNAL", "checkout failed", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"subtotal": receipt.Summary.Subtotal,
			"discount": receipt.Summary.Discount,
			"total":    receipt.Summary.Total,
			"paid":     receipt.Paid,
			"change":   receipt.Change,
		},
	})
}

func (h *Handler) decodeLine(w http.ResponseWriter, r *http.Request, payload *addLineRequest) bool {
	if h.Svc == nil {
		common.WriteAppError(w, errNotConfigured)
		return false
	}
	if err := common.DecodeJSON(r, payload); err != nil {
		common.WriteAppError(w, common.NewAppError("BAD_REQUEST", "invalid request body", http.StatusBadRequest, err))
		return false
	}
	if details, err := common.ValidateStruct(*payload); err != nil {
		common.WriteAppError(w, &common.AppError{
			Code:       "VALIDATION",
			Message:    "invalid payload",
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
			Details:    details,
		})
		return false
	}
	return true
}

// lineError maps add/quote failures onto the API error envelope.
func lineError(err error, result AddResult) *common.AppError {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return common.NewAppError("NOT_FOUND", "order session not found", http.StatusNotFound, err)
	case errors.Is(err, menu.ErrUnknownItem), errors.Is(err, menu.ErrUnknownCombo):
		return common.NewAppError("UNKNOWN_PRODUCT", "not on the menu", http.StatusNotFound, err)
	case errors.Is(err, order.ErrInsufficientStock):
		return &common.AppError{
			Code:       "INSUFFICIENT_STOCK",
			Message:    "not enough stock remaining",
			HTTPStatus: http.StatusConflict,
			Err:        err,
			Details:    map[string]any{"available": result.Available},
		}
	case errors.Is(err, order.ErrInvalidQuantity):
		return common.NewAppError("VALIDATION", "quantity must be positive", http.StatusUnprocessableEntity, err)
	default:
		return common.NewAppError("INTERNAL", "internal error", http.StatusInternalServerError, err)
	}
}

func (h *Handler) writeLineError(w http.ResponseWriter, err error, result AddResult) {
	common.WriteAppError(w, lineError(err, result))
}
