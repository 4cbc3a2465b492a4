package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/transport"
)

// ProductClient обращается к эндпоинтам каталога.
type ProductClient struct {
	t Doer
}

// NewProductClient создаёт клиент каталога.
func NewProductClient(t Doer) *ProductClient {
	return &ProductClient{t: t}
}

// List возвращает страницу товаров по фильтру.
func (c *ProductClient) List(ctx context.Context, f model.ProductFilter) (*model.ProductPage, error) {
	var page model.ProductPage
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/products/",
		Query:  filterQuery(f),
		Public: true,
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &page, nil
}

func filterQuery(f model.ProductFilter) url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// Get возвращает карточку товара.
func (c *ProductClient) Get(ctx context.Context, id int64) (*model.ProductDetail, error) {
	var p model.ProductDetail
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/products/%d/", id),
		Route:  "/products/{id}/",
		Public: true,
	}, &p)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// Featured возвращает рекомендуемые товары.
func (c *ProductClient) Featured(ctx context.Context) ([]model.Product, error) {
	var res []model.Product
	err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/products/featured/", Public: true}, &res)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	return res, nil
}

// Search выполняет полнотекстовый поиск товаров.
func (c *ProductClient) Search(ctx context.Context, query string) ([]model.Product, error) {
	var res []model.Product
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/products/search/",
		Query:  url.Values{"q": {query}},
		Public: true,
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return res, nil
}

// Categories возвращает все категории.
func (c *ProductClient) Categories(ctx context.Context) ([]model.Category, error) {
	var res []model.Category
	err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/categories/", Public: true}, &res)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return res, nil
}

// AddReview публикует отзыв о товаре от имени текущего пользователя.
func (c *ProductClient) AddReview(ctx context.Context, productID int64, req model.ReviewRequest) (*model.Review, error) {
	var r model.Review
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/products/%d/reviews/", productID),
		Route:  "/products/{id}/reviews/",
		Body:   req,
	}, &r)
	if err != nil {
		return nil, fmt.Errorf("add review for product %d: %w", productID, err)
	}
	return &r, nil
}
