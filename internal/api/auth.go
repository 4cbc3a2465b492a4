// Package api содержит клиенты ресурсов REST API витрины: аутентификация, каталог, корзина и заказы.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/transport"
)

// Doer выполняет запрос к API. Реализуется *transport.Client.
type Doer interface {
	Do(ctx context.Context, r transport.Request, out any) error
}

// AuthClient обращается к эндпоинтам /auth/.
type AuthClient struct {
	t Doer
}

// NewAuthClient создаёт клиент аутентификации.
func NewAuthClient(t Doer) *AuthClient {
	return &AuthClient{t: t}
}

// Login выполняет вход по email и паролю.
func (c *AuthClient) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/login/",
		Body:   req,
		Public: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя.
func (c *AuthClient) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/register/",
		Body:   req,
		Public: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout просит сервер аннулировать токен обновления.
func (c *AuthClient) Logout(ctx context.Context, refreshToken string) error {
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/logout/",
		Body:   logoutRequest{RefreshToken: refreshToken},
	}, nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// GetProfile возвращает профиль владельца текущего токена.
func (c *AuthClient) GetProfile(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.t.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/auth/profile/"}, &u); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &u, nil
}

// UpdateProfile частично обновляет профиль и возвращает его серверную версию.
func (c *AuthClient) UpdateProfile(ctx context.Context, patch model.UserPatch) (*model.User, error) {
	var u model.User
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPatch,
		Path:   "/auth/profile/",
		Body:   patch,
	}, &u)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

// ChangePassword меняет пароль текущего пользователя.
func (c *AuthClient) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	err := c.t.Do(ctx, transport.Request{
		Method: http.MethodPut,
		Path:   "/auth/change-password/",
		Body:   req,
	}, nil)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
