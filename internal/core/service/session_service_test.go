package service

import (
	"context"
	"errors"
	"testing"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

func TestLogin_Success(t *testing.T) {
	remote := newMockRemoteStore(nil)
	store := &memLocalStore{}
	svc := NewSessionService(remote, store, newTestLogger())

	cred, err := svc.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if cred.Token != "tok-123" {
		t.Errorf("expected tok-123, got %q", cred.Token)
	}
	if remote.Token() != "tok-123" {
		t.Error("expected token to be attached to the remote store")
	}
	if store.token != "tok-123" {
		t.Error("expected token to be persisted")
	}
	if !svc.IsAuthenticated() {
		t.Error("expected authenticated session")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	remote := newMockRemoteStore(nil)
	store := &memLocalStore{}
	svc := NewSessionService(remote, store, newTestLogger())

	_, err := svc.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got: %v", err)
	}
	if svc.IsAuthenticated() || store.token != "" {
		t.Error("failed login must not change session state")
	}
}

func TestLogoutAndRestore(t *testing.T) {
	ctx := context.Background()
	store := &memLocalStore{token: "persisted"}

	remote := newMockRemoteStore(nil)
	svc := NewSessionService(remote, store, newTestLogger())

	ok, err := svc.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("expected restored session, got ok=%v err=%v", ok, err)
	}
	if remote.Token() != "persisted" {
		t.Errorf("expected restored token, got %q", remote.Token())
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if svc.IsAuthenticated() || store.token != "" {
		t.Error("expected token cleared in memory and in storage")
	}

	ok, err = svc.Restore(ctx)
	if err != nil || ok {
		t.Errorf("expected nothing to restore, got ok=%v err=%v", ok, err)
	}
}
