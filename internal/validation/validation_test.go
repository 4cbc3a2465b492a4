package validation

import (
	"testing"

	"github.com/mmeshcher/storefront/internal/model"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{99, 99},
	}

	for _, tt := range tests {
		if got := ClampQuantity(tt.in); got != tt.want {
			t.Errorf("ClampQuantity(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"a@b.com", true},
		{"user.name@example.org", true},
		{"", false},
		{"no-at-sign", false},
		{"Ann <a@b.com>", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.valid {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
		}
	}
}

func TestRegister(t *testing.T) {
	ok := model.RegisterRequest{
		Username:        "ann",
		Email:           "a@b.com",
		Password:        "secret",
		PasswordConfirm: "secret",
	}
	if errs := Register(ok); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}

	bad := ok
	bad.PasswordConfirm = "other"
	bad.Email = "nope"
	errs := Register(bad)
	if len(errs["password"]) != 1 {
		t.Fatalf("expected password mismatch error, got %v", errs)
	}
	if len(errs["email"]) != 1 {
		t.Fatalf("expected email error, got %v", errs)
	}
}

func TestLoginAndChangePassword(t *testing.T) {
	if errs := Login(model.LoginRequest{Email: "a@b.com", Password: "x"}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := Login(model.LoginRequest{Email: "a@b.com"}); len(errs["password"]) == 0 {
		t.Fatalf("expected blank password error, got %v", errs)
	}

	errs := ChangePassword(model.ChangePasswordRequest{OldPassword: "a", NewPassword: "b", NewPasswordConfirm: "c"})
	if len(errs["new_password"]) != 1 {
		t.Fatalf("expected mismatch error, got %v", errs)
	}
}

func TestReview(t *testing.T) {
	if errs := Review(model.ReviewRequest{Rating: 5}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if errs := Review(model.ReviewRequest{Rating: 0}); errs == nil {
		t.Fatalf("expected rating error")
	}
}
