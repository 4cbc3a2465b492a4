package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/transport"
)

// OrderClient обращается к эндпоинтам /orders/.
type OrderClient struct {
	t Doer
}

// NewOrderClient создаёт клиент заказов.
func NewOrderClient(t Doer) *OrderClient {
	return &OrderClient{t: t}
}

// List возвращает заказы текущего пользователя. Сервер может вернуть как массив,
// так и страницу вида {"results": [...]}.
func (c *OrderClient) List(ctx context.Context) ([]model.Order, error) {
	var raw json.RawMessage
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/orders/"}, &raw); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders, err := decodeOrders(raw)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func decodeOrders(raw json.RawMessage) ([]model.Order, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var orders []model.Order
		if err := json.Unmarshal(trimmed, &orders); err != nil {
			return nil, fmt.Errorf("decode orders: %w", err)
		}
		return orders, nil
	}

	var page struct {
		Results []model.Order `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("decode orders page: %w", err)
	}
	return page.Results, nil
}

// Get возвращает заказ по идентификатору.
func (c *OrderClient) Get(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/orders/%d/", id),
		Route:  "/orders/{id}/",
	}, &o)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}

// Create оформляет заказ из текущей корзины.
func (c *OrderClient) Create(ctx context.Context, req model.CreateOrderRequest) (*model.OrderResponse, error) {
	var resp model.OrderResponse
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/orders/create/",
		Body:   req,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &resp, nil
}
