package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/model"
)

type cartResponse struct {
	Loading bool        `json:"loading"`
	Cart    *model.Cart `json:"cart"`
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) writeCart(w http.ResponseWriter) {
	st := h.carts.State()
	writeJSON(w, http.StatusOK, cartResponse{Loading: st.Loading, Cart: st.Cart})
}

// GetCart возвращает текущий снимок корзины без обращения к серверу.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

// RefreshCart перечитывает корзину с сервера.
func (h *Handler) RefreshCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Refresh(r.Context()); err != nil {
		h.writeAPIError(w, "refresh cart", err)
		return
	}
	h.writeCart(w)
}

// AddItem добавляет товар в корзину.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.ProductID <= 0 {
		writeFieldErrors(w, map[string][]string{"product_id": {"This field is required."}})
		return
	}

	if err := h.carts.AddItem(r.Context(), req.ProductID, req.Quantity); err != nil {
		h.writeAPIError(w, "add cart item", err)
		return
	}

	h.logger.Debug("cart item added", zap.Int64("productID", req.ProductID), zap.Int("quantity", req.Quantity))
	h.writeCart(w)
}

// UpdateItem задаёт количество позиции корзины.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	var req updateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carts.UpdateItem(r.Context(), itemID, req.Quantity); err != nil {
		h.writeAPIError(w, "update cart item", err)
		return
	}
	h.writeCart(w)
}

// RemoveItem удаляет позицию корзины.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(r.Context(), itemID); err != nil {
		h.writeAPIError(w, "remove cart item", err)
		return
	}
	h.writeCart(w)
}

// ClearCart очищает корзину.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context()); err != nil {
		h.writeAPIError(w, "clear cart", err)
		return
	}
	h.writeCart(w)
}
