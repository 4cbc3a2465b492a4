// Package cart реализует хранилище корзины, отражающее серверную корзину текущей сессии.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/metrics"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/validation"
)

// API описывает эндпоинты корзины, используемые хранилищем.
type API interface {
	Get(ctx context.Context) (*model.Cart, error)
	Add(ctx context.Context, productID int64, quantity int) (*model.CartResponse, error)
	Update(ctx context.Context, itemID int64, quantity int) (*model.CartResponse, error)
	Remove(ctx context.Context, itemID int64) (*model.CartResponse, error)
	Clear(ctx context.Context) (*model.CartResponse, error)
}

// Ordering задаёт, какой из параллельных ответов попадает в снимок.
type Ordering int

const (
	// LastResolvedWins применяет каждый успешный ответ в порядке получения.
	LastResolvedWins Ordering = iota
	// LastIssuedWins отбрасывает ответ, если уже применён ответ на более поздний запрос.
	LastIssuedWins
)

// ParseOrdering разбирает значение настройки "last-resolved" или "last-issued".
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "last-resolved":
		return LastResolvedWins, nil
	case "last-issued":
		return LastIssuedWins, nil
	default:
		return 0, fmt.Errorf("unknown cart ordering %q", s)
	}
}

func (o Ordering) String() string {
	if o == LastIssuedWins {
		return "last-issued"
	}
	return "last-resolved"
}

// Store хранит снимок корзины. Каждая успешная операция заменяет снимок целиком
// корзиной из ответа сервера; неуспешная оставляет его без изменений.
type Store struct {
	api      API
	logger   *zap.Logger
	ordering Ordering

	mu            sync.Mutex
	state         State
	authenticated bool
	issued        uint64
	applied       uint64
}

// Option настраивает Store.
type Option func(*Store)

// WithOrdering задаёт политику применения параллельных ответов.
func WithOrdering(o Ordering) Option {
	return func(s *Store) {
		s.ordering = o
	}
}

// WithLogger задаёт логгер хранилища.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore создаёт хранилище без корзины для неаутентифицированной сессии.
func NewStore(api API, opts ...Option) *Store {
	s := &Store{
		api:    api,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State возвращает копию текущего снимка.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Cart != nil {
		c := *st.Cart
		if c.Items != nil {
			c.Items = append(make([]model.CartItem, 0, len(c.Items)), c.Items...)
		}
		st.Cart = &c
	}
	return st
}

// OnAuthChange реагирует на смену признака аутентификации: при входе выполняет ровно одно
// обновление корзины, при выходе сбрасывает снимок без сетевых запросов.
// Подходит как session.Listener.
func (s *Store) OnAuthChange(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	s.authenticated = authenticated
	s.mu.Unlock()

	if !authenticated {
		s.reset()
		return
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("refresh cart after sign in error", zap.Error(err))
	}
}

// Refresh загружает корзину с сервера. Без аутентификации сбрасывает снимок без запроса.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		s.reset()
		return nil
	}
	seq := s.nextSeqLocked()
	s.state = reduce(s.state, setLoading{loading: true})
	s.mu.Unlock()

	c, err := s.api.Get(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = reduce(s.state, setLoading{loading: false})
		s.mu.Unlock()
		return err
	}

	s.apply(seq, *c)
	return nil
}

// AddItem добавляет товар в корзину. Количество меньше единицы заменяется единицей.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) error {
	quantity = validation.ClampQuantity(quantity)
	return s.mutate(func() (*model.CartResponse, error) {
		return s.api.Add(ctx, productID, quantity)
	})
}

// UpdateItem задаёт количество позиции. Значение ограничивается снизу единицей до отправки запроса.
func (s *Store) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	quantity = validation.ClampQuantity(quantity)
	return s.mutate(func() (*model.CartResponse, error) {
		return s.api.Update(ctx, itemID, quantity)
	})
}

// RemoveItem удаляет позицию из корзины.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) error {
	return s.mutate(func() (*model.CartResponse, error) {
		return s.api.Remove(ctx, itemID)
	})
}

// Clear очищает корзину на сервере.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(func() (*model.CartResponse, error) {
		return s.api.Clear(ctx)
	})
}

func (s *Store) mutate(call func() (*model.CartResponse, error)) error {
	s.mu.Lock()
	seq := s.nextSeqLocked()
	s.mu.Unlock()

	resp, err := call()
	if err != nil {
		return err
	}

	s.apply(seq, resp.Cart)
	return nil
}

func (s *Store) nextSeqLocked() uint64 {
	s.issued++
	return s.issued
}

// apply заменяет снимок, если это допускает политика упорядочивания.
func (s *Store) apply(seq uint64, c model.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ordering == LastIssuedWins && seq <= s.applied {
		metrics.CartSnapshotsTotal.WithLabelValues("dropped").Inc()
		s.logger.Debug("stale cart response dropped",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", s.applied))
		return
	}

	if seq > s.applied {
		s.applied = seq
	}
	s.state = reduce(s.state, setCart{cart: c})
	metrics.CartSnapshotsTotal.WithLabelValues("applied").Inc()
}

// reset сбрасывает снимок. Ответы на запросы, отправленные до сброса, при LastIssuedWins отбрасываются.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = s.issued
	s.state = reduce(s.state, clearCart{})
}
