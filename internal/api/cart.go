package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/transport"
)

// CartClient обращается к эндпоинтам /cart/.
type CartClient struct {
	t Doer
}

// NewCartClient создаёт клиент корзины.
func NewCartClient(t Doer) *CartClient {
	return &CartClient{t: t}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Get возвращает текущую корзину.
func (c *CartClient) Get(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/cart/"}, &cart); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &cart, nil
}

// Add добавляет товар в корзину.
func (c *CartClient) Add(ctx context.Context, productID int64, quantity int) (*model.CartResponse, error) {
	return c.mutate(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/cart/add/",
		Body:   addItemRequest{ProductID: productID, Quantity: quantity},
	}, "add to cart")
}

// Update задаёт новое количество позиции корзины.
func (c *CartClient) Update(ctx context.Context, itemID int64, quantity int) (*model.CartResponse, error) {
	return c.mutate(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/cart/update/%d/", itemID),
		Route:  "/cart/update/{id}/",
		Body:   updateItemRequest{Quantity: quantity},
	}, "update cart item")
}

// Remove удаляет позицию из корзины.
func (c *CartClient) Remove(ctx context.Context, itemID int64) (*model.CartResponse, error) {
	return c.mutate(ctx, transport.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/cart/remove/%d/", itemID),
		Route:  "/cart/remove/{id}/",
	}, "remove cart item")
}

// Clear удаляет все позиции корзины.
func (c *CartClient) Clear(ctx context.Context) (*model.CartResponse, error) {
	return c.mutate(ctx, transport.Request{Method: http.MethodDelete, Path: "/cart/clear/"}, "clear cart")
}

func (c *CartClient) mutate(ctx context.Context, r transport.Request, op string) (*model.CartResponse, error) {
	var resp model.CartResponse
	if err := c.t.Do(ctx, r, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}
