package pos

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-kafe/internal/common"
	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// AdminHandler exposes the bake, price update, and report endpoints.
type AdminHandler struct {
	Svc *Service
}

type priceRequest struct {
	// Price in minor units. Zero cancels the update without error.
	Price pricing.Money `json:"price" validate:"gte=0"`
}

// Bake handles POST /admin/bake: one batch of muffins onto the tray.
func (h *AdminHandler) Bake(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.WriteAppError(w, errNotConfigured)
		return
	}
	it, err := h.Svc.Bake(r.Context())
	if err != nil {
		common.WriteAppError(w, common.NewAppError("INTERNAL", "bake failed", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"item": it.Name(), "stock": it.Stock()},
	})
}

// UpdatePrice handles PATCH /admin/items/{name}/price. A zero price is the
// cancel sentinel: acknowledged, nothing changes. Negative prices are
// rejected before they reach the ledger.
func (h *AdminHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.WriteAppError(w, errNotConfigured)
		return
	}
	var payload priceRequest
	if err := common.DecodeJSON(r, &payload); err != nil {
		common.WriteAppError(w, common.NewAppError("BAD_REQUEST", "invalid request body", http.StatusBadRequest, err))
		return
	}
	name := chi.URLParam(r, "name")
	if payload.Price < 0 {
		common.WriteAppError(w, common.NewAppError("INVALID_PRICE", "price must not be negative", http.StatusUnprocessableEntity, nil))
		return
	}
	if payload.Price == 0 {
		common.JSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"item": name, "updated": false},
		})
		return
	}
	it, err := h.Svc.UpdatePrice(r.Context(), name, payload.Price)
	switch {
	case err == nil:
	case errors.Is(err, menu.ErrUnknownItem):
		common.WriteAppError(w, common.NewAppError("UNKNOWN_PRODUCT", "not on the menu", http.StatusNotFound, err))
		return
	case errors.Is(err, menu.ErrInvalidPrice):
		common.WriteAppError(w, common.NewAppError("INVALID_PRICE", "price must be positive", http.StatusUnprocessableEntity, err))
		return
	default:
		common.WriteAppError(w, common.NewAppError("INTERNAL", "price update failed", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"item": it.Name(), "price": it.Price(), "updated": true},
	})
}

// SalesReport handles GET /admin/reports/sales.
func (h *AdminHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.WriteAppError(w, errNotConfigured)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.SalesReport()})
}
