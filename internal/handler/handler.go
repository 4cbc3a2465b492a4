// Package handler содержит HTTP-обработчики локального JSON API витрины.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/cart"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/session"
	"github.com/mmeshcher/storefront/internal/transport"
	"github.com/mmeshcher/storefront/internal/validation"
)

// SessionStore определяет операции хранилища сессии, используемые обработчиками.
type SessionStore interface {
	State() session.State
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, req model.RegisterRequest) error
	Logout(ctx context.Context) error
	UpdateUser(patch model.UserPatch)
}

// CartStore определяет операции хранилища корзины, используемые обработчиками.
type CartStore interface {
	State() cart.State
	Refresh(ctx context.Context) error
	AddItem(ctx context.Context, productID int64, quantity int) error
	UpdateItem(ctx context.Context, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
}

// ProfileAPI определяет запросы профиля, не меняющие сессию.
type ProfileAPI interface {
	UpdateProfile(ctx context.Context, patch model.UserPatch) (*model.User, error)
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error
}

// CatalogAPI определяет запросы каталога.
type CatalogAPI interface {
	List(ctx context.Context, f model.ProductFilter) (*model.ProductPage, error)
	Get(ctx context.Context, id int64) (*model.ProductDetail, error)
	Featured(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, query string) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	AddReview(ctx context.Context, productID int64, req model.ReviewRequest) (*model.Review, error)
}

// OrderAPI определяет запросы заказов.
type OrderAPI interface {
	List(ctx context.Context) ([]model.Order, error)
	Get(ctx context.Context, id int64) (*model.Order, error)
	Create(ctx context.Context, req model.CreateOrderRequest) (*model.OrderResponse, error)
}

// Handler реализует HTTP-обработчики API витрины.
type Handler struct {
	sessions SessionStore
	carts    CartStore
	profile  ProfileAPI
	catalog  CatalogAPI
	orders   OrderAPI
	logger   *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(sessions SessionStore, carts CartStore, profile ProfileAPI, catalog CatalogAPI, orders OrderAPI, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		carts:    carts,
		profile:  profile,
		catalog:  catalog,
		orders:   orders,
		logger:   logger,
	}
}

type errorResponse struct {
	Detail string              `json:"detail,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFieldErrors(w http.ResponseWriter, fields validation.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Fields: fields})
}

// writeAPIError переводит ошибку API в ответ: 401, 400 с ошибками по полям, 404 или 502.
// Ошибки вне транспорта считаются внутренними.
func (h *Handler) writeAPIError(w http.ResponseWriter, op string, err error) {
	var apiErr *transport.Error
	if !errors.As(err, &apiErr) {
		h.logger.Error(op+" error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	switch apiErr.Kind {
	case transport.KindUnauthorized:
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: apiErr.Detail})
	case transport.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: apiErr.Detail, Fields: apiErr.Fields})
	case transport.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: apiErr.Detail})
	default:
		h.logger.Error(op+" error", zap.Error(err), zap.Int("status", apiErr.StatusCode))
		writeJSON(w, http.StatusBadGateway, errorResponse{Detail: http.StatusText(http.StatusBadGateway)})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
