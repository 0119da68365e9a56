package session_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-ninecms/internal/session"
)

func TestPopIsReadOnce(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "s1", "contact_form_post", map[string]string{"name": "G"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	value, ok := store.Pop(ctx, "s1", "contact_form_post")
	if !ok || value == nil {
		t.Fatalf("expected stored value, got %v %v", value, ok)
	}
	if _, ok := store.Pop(ctx, "s1", "contact_form_post"); ok {
		t.Fatalf("second pop should miss")
	}
}

func TestSlotsAreSessionScoped(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "s1", "login_form_post", "a"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := store.Pop(ctx, "s2", "login_form_post"); ok {
		t.Fatalf("value leaked across sessions")
	}
	if _, ok := store.Pop(ctx, "s1", "login_form_post"); !ok {
		t.Fatalf("value lost for owning session")
	}
}
