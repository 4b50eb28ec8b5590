package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"todoapi/internal/auth"
	"todoapi/internal/repo"
)

func newUserService() (*UserService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "todoapi", "todoclient", time.Hour)
	return NewUserService(repo.NewMemUserRepo(), tokens), tokens
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService()

	reg, err := svc.Register(ctx, "alice@example.com", "Alice", "s3cret!")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Token == "" || reg.User.ID == 0 {
		t.Fatalf("expected token and user id, got %+v", reg)
	}
	if reg.User.PasswordHash == "s3cret!" {
		t.Fatal("password stored in plaintext")
	}

	res, err := svc.Login(ctx, "alice@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Fatalf("login returned user %d, registered %d", res.User.ID, reg.User.ID)
	}

	subject, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subject != reg.User.ID {
		t.Fatalf("token subject %d, want %d", subject, reg.User.ID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	if _, err := svc.Register(ctx, "real@x.com", "Real", "rightpass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nonexistent@x.com", "anything")
	_, errWrongPass := svc.Login(ctx, "real@x.com", "wrongpass")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrongPass)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	if _, err := svc.Register(ctx, "bob@example.com", "Bob", "password"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "bob@example.com", "Other Bob", "password2")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Register(ctx, "race@example.com", "Racer", "password")
		}(i)
	}
	wg.Wait()

	var succeeded, taken int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrEmailTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", succeeded)
	}
	if taken != attempts-1 {
		t.Fatalf("expected %d ErrEmailTaken, got %d", attempts-1, taken)
	}
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	reg, err := svc.Register(ctx, "carol@example.com", "Carol", "password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.GetUserByID(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Email != "carol@example.com" || u.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := svc.GetUserByID(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestLoginEmptyInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService()

	if _, err := svc.Login(ctx, "", "pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty email: got %v", err)
	}
	if _, err := svc.Login(ctx, "a@b.c", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty password: got %v", err)
	}
}
