package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mmeshcher/storefront/internal/middleware"
	"github.com/mmeshcher/storefront/internal/model"
	"github.com/mmeshcher/storefront/internal/validation"
)

type sessionResponse struct {
	Status        string      `json:"status"`
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
}

func (h *Handler) writeSession(w http.ResponseWriter) {
	st := h.sessions.State()
	writeJSON(w, http.StatusOK, sessionResponse{
		Status:        st.Status.String(),
		Authenticated: st.IsAuthenticated(),
		User:          st.User,
	})
}

// GetSession возвращает текущее состояние сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.writeSession(w)
}

// Login выполняет вход по email и паролю.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.Login(req); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	if err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		h.writeAPIError(w, "login", err)
		return
	}

	h.writeSession(w)
}

// Register регистрирует пользователя и выполняет вход.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.Register(req); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	if err := h.sessions.Register(r.Context(), req); err != nil {
		h.writeAPIError(w, "register", err)
		return
	}

	h.writeSession(w)
}

// Logout завершает сессию.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.logger.Error("logout error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile сохраняет поля профиля на сервере и переносит подтверждённые значения в сессию.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch model.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	user, err := h.profile.UpdateProfile(r.Context(), patch)
	if err != nil {
		h.writeAPIError(w, "update profile", err)
		return
	}

	h.sessions.UpdateUser(model.PatchFromUser(*user))
	h.writeSession(w)
}

// ChangePassword меняет пароль текущего пользователя.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ChangePassword(req); errs != nil {
		writeFieldErrors(w, errs)
		return
	}

	if err := h.profile.ChangePassword(r.Context(), req); err != nil {
		u, _ := middleware.GetUserFromContext(r.Context())
		h.logger.Info("change password rejected", zap.Int64("userID", u.ID))
		h.writeAPIError(w, "change password", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
