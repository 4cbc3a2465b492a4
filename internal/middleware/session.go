package middleware

import (
	"context"
	"net/http"

	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/session"
)

type contextKey string

const userKey contextKey = "user"

// SessionSource отдаёт текущий снимок сессии.
type SessionSource interface {
	State() session.State
}

// SessionGate пропускает запрос только при аутентифицированной сессии.
// Пока сессия восстанавливается, отвечает 503; без входа отвечает 401.
func SessionGate(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := src.State()
			switch {
			case st.IsLoading():
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			case !st.IsAuthenticated() || st.User == nil:
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, *st.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext извлекает пользователя, добавленного SessionGate.
func GetUserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey).(model.User)
	return u, ok
}
