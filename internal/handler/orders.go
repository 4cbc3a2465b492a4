package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/model"
)

type orderView struct {
	model.Order
	StatusLabel string `json:"status_label"`
	StatusColor string `json:"status_color"`
}

func newOrderView(o model.Order) orderView {
	return orderView{
		Order:       o,
		StatusLabel: o.Status.Label(),
		StatusColor: o.Status.Color(),
	}
}

// ListOrders возвращает заказы текущего пользователя.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.writeAPIError(w, "list orders", err)
		return
	}

	resp := make([]orderView, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, newOrderView(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.writeAPIError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(*order))
}

type createOrderResponse struct {
	Message string    `json:"message"`
	Order   orderView `json:"order"`
}

// CreateOrder оформляет заказ из текущей корзины и перечитывает корзину.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fields := map[string][]string{}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		fields["shipping_address"] = []string{"This field may not be blank."}
	}
	if strings.TrimSpace(req.Phone) == "" {
		fields["phone"] = []string{"This field may not be blank."}
	}
	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}

	resp, err := h.orders.Create(r.Context(), req)
	if err != nil {
		h.writeAPIError(w, "create order", err)
		return
	}

	if err := h.carts.Refresh(r.Context()); err != nil {
		h.logger.Warn("refresh cart after order error", zap.Error(err), zap.Int64("orderID", resp.Order.ID))
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{Message: resp.Message, Order: newOrderView(resp.Order)})
}
