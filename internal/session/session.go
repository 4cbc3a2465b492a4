// Package session реализует хранилище сессии: текущий пользователь и пара токенов,
// сохраняемая между перезапусками.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/metrics"
	"github.com/mmeshcher/storefront/internal/model"
)

// AuthAPI описывает эндпоинты аутентификации, используемые хранилищем.
type AuthAPI interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context) (*model.User, error)
}

// CredentialStore описывает долговременное хранилище токенов.
type CredentialStore interface {
	Load(ctx context.Context) (model.Credentials, bool, error)
	Save(ctx context.Context, c model.Credentials) error
	Clear(ctx context.Context) error
}

// Listener вызывается при смене признака аутентификации.
type Listener func(ctx context.Context, authenticated bool)

// Store хранит сведения о текущем пользователе.
// Параллельные Login не согласуются: применяется ответ, пришедший последним.
type Store struct {
	api    AuthAPI
	creds  CredentialStore
	logger *zap.Logger

	mu        sync.Mutex
	state     State
	listeners []Listener
}

// NewStore создаёт хранилище в состоянии StatusLoading.
func NewStore(api AuthAPI, creds CredentialStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    api,
		creds:  creds,
		logger: logger,
		state:  State{Status: StatusLoading},
	}
}

// State возвращает текущий снимок.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// IsAuthenticated сообщает, выполнен ли вход.
func (s *Store) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// Subscribe регистрирует обработчик смены признака аутентификации.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Initialize восстанавливает сессию по сохранённому токену. Отказ сервера в профиле
// не считается ошибкой: токены удаляются, сессия становится неаутентифицированной.
func (s *Store) Initialize(ctx context.Context) error {
	_, ok, err := s.creds.Load(ctx)
	if err != nil {
		s.dispatch(ctx, clearUser{})
		return fmt.Errorf("load credentials: %w", err)
	}

	if !ok {
		s.dispatch(ctx, clearUser{})
		return nil
	}

	user, err := s.api.GetProfile(ctx)
	if !s.loading() {
		// Login или Register завершились раньше; их результат не перезаписывается.
		s.logger.Info("session settled while restoring, stored session ignored")
		return nil
	}
	if err != nil {
		s.logger.Info("stored session rejected, signing out", zap.Error(err))
		if clearErr := s.creds.Clear(ctx); clearErr != nil {
			s.logger.Error("clear credentials error", zap.Error(clearErr))
		}
		s.dispatch(ctx, clearUser{})
		return nil
	}

	s.dispatch(ctx, setUser{user: *user})
	return nil
}

func (s *Store) loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsLoading()
}

// Login выполняет вход. При ошибке состояние не меняется.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.authenticate(ctx, resp)
}

// Register регистрирует пользователя и выполняет вход. При ошибке состояние не меняется.
func (s *Store) Register(ctx context.Context, req model.RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.authenticate(ctx, resp)
}

func (s *Store) authenticate(ctx context.Context, resp *model.AuthResponse) error {
	err := s.creds.Save(ctx, model.Credentials{Access: resp.Access, Refresh: resp.Refresh})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.dispatch(ctx, setUser{user: resp.User})
	return nil
}

// Logout завершает сессию. Ошибка уведомления сервера только логируется;
// локальные токены удаляются в любом случае.
func (s *Store) Logout(ctx context.Context) error {
	creds, ok, err := s.creds.Load(ctx)
	if err != nil {
		s.logger.Warn("load credentials on logout error", zap.Error(err))
	}

	if ok && creds.Refresh != "" {
		if err := s.api.Logout(ctx, creds.Refresh); err != nil {
			s.logger.Warn("logout notification failed", zap.Error(err))
		}
	}

	clearErr := s.creds.Clear(ctx)
	s.dispatch(ctx, clearUser{})

	if clearErr != nil {
		return fmt.Errorf("clear credentials: %w", clearErr)
	}
	return nil
}

// UpdateUser объединяет подтверждённые сервером поля профиля с текущим пользователем.
// Запросов не выполняет.
func (s *Store) UpdateUser(patch model.UserPatch) {
	s.dispatch(context.Background(), updateUser{patch: patch})
}

// dispatch применяет действие и уведомляет подписчиков, если изменился признак аутентификации.
// Подписчики вызываются вне блокировки.
func (s *Store) dispatch(ctx context.Context, a action) {
	s.mu.Lock()
	prev := s.state
	s.state = reduce(prev, a)
	next := s.state
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	if prev.Status != next.Status {
		metrics.SessionTransitionsTotal.WithLabelValues(next.Status.String()).Inc()
		s.logger.Info("session state changed",
			zap.Stringer("from", prev.Status),
			zap.Stringer("to", next.Status))
	}

	if prev.IsAuthenticated() == next.IsAuthenticated() {
		return
	}
	for _, l := range listeners {
		l(ctx, next.IsAuthenticated())
	}
}
