package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/validation"
)

// parseFilter читает параметры выборки товаров из строки запроса.
func parseFilter(r *http.Request) (model.ProductFilter, validation.FieldErrors) {
	q := r.URL.Query()
	f := model.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}
	errs := validation.FieldErrors{}

	price := func(name string) *float64 {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			errs[name] = append(errs[name], "A valid number is required.")
			return nil
		}
		return &v
	}
	f.MinPrice = price("min_price")
	f.MaxPrice = price("max_price")

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errs["page"] = append(errs["page"], "Invalid page.")
		} else {
			f.Page = page
		}
	}

	if len(errs) > 0 {
		return f, errs
	}
	return f, nil
}

// ListProducts возвращает страницу каталога.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f, errs := parseFilter(r)
	if errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	page, err := h.catalog.List(r.Context(), f)
	if err != nil {
		h.writeAPIError(w, "list products", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// FeaturedProducts возвращает рекомендуемые товары.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Featured(r.Context())
	if err != nil {
		h.writeAPIError(w, "featured products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// SearchProducts выполняет полнотекстовый поиск. Пустой запрос даёт пустой список.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []model.Product{})
		return
	}

	products, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		h.writeAPIError(w, "search products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct возвращает карточку товара.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.writeAPIError(w, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// AddReview публикует отзыв о товаре от имени текущего пользователя.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.ReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.Review(req); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	review, err := h.catalog.AddReview(r.Context(), id, req)
	if err != nil {
		h.writeAPIError(w, "add review", err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// ListCategories возвращает все категории.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.writeAPIError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
