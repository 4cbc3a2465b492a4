// Package validation содержит проверки запросов, выполняемые до отправки на сервер.
package validation

import (
	"net/mail"
	"strings"

	"github.com/mmeshcher/storefront/internal/model"
)

// MinQuantity задаёт минимальное количество товара в позиции корзины.
const MinQuantity = 1

// ClampQuantity ограничивает количество снизу значением MinQuantity.
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	return q
}

// FieldErrors содержит ошибки по полям в том же виде, что возвращает сервер.
type FieldErrors map[string][]string

func (f FieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

// IsValidEmail проверяет, что строка является одиночным адресом электронной почты.
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// Login проверяет запрос входа.
func Login(req model.LoginRequest) FieldErrors {
	errs := FieldErrors{}
	if !IsValidEmail(strings.TrimSpace(req.Email)) {
		errs.add("email", "Enter a valid email address.")
	}
	if req.Password == "" {
		errs.add("password", "This field may not be blank.")
	}
	return nilIfEmpty(errs)
}

// Register проверяет запрос регистрации.
func Register(req model.RegisterRequest) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		errs.add("username", "This field may not be blank.")
	}
	if !IsValidEmail(strings.TrimSpace(req.Email)) {
		errs.add("email", "Enter a valid email address.")
	}
	if req.Password == "" {
		errs.add("password", "This field may not be blank.")
	}
	if req.Password != req.PasswordConfirm {
		errs.add("password", "Password fields didn't match.")
	}
	return nilIfEmpty(errs)
}

// ChangePassword проверяет запрос смены пароля.
func ChangePassword(req model.ChangePasswordRequest) FieldErrors {
	errs := FieldErrors{}
	if req.OldPassword == "" {
		errs.add("old_password", "This field may not be blank.")
	}
	if req.NewPassword == "" {
		errs.add("new_password", "This field may not be blank.")
	}
	if req.NewPassword != req.NewPasswordConfirm {
		errs.add("new_password", "Password fields didn't match.")
	}
	return nilIfEmpty(errs)
}

// Review проверяет оценку отзыва.
func Review(req model.ReviewRequest) FieldErrors {
	if req.Rating < 1 || req.Rating > 5 {
		return FieldErrors{"rating": {"Ensure this value is between 1 and 5."}}
	}
	return nil
}

func nilIfEmpty(errs FieldErrors) FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
