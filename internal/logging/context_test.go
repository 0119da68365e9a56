package logging_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-ninecms/internal/logging"
)

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"method": "GET",
		"path":   "/about/",
	})
	ctx = logging.ContextWithFields(ctx, map[string]any{
		"path": "/contact/",
		"node": int64(7),
	})

	fields := logging.ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("fields = %v", fields)
	}
	if fields["method"] != "GET" || fields["path"] != "/contact/" || fields["node"] != int64(7) {
		t.Fatalf("unexpected merge result %v", fields)
	}
}

func TestContextFieldsReturnsCopy(t *testing.T) {
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"path": "/"})

	first := logging.ContextFields(ctx)
	first["path"] = "mutated"

	if got := logging.ContextFields(ctx)["path"]; got != "/" {
		t.Fatalf("context fields leaked mutation: %q", got)
	}
}

func TestContextFieldsAbsent(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); fields != nil {
		t.Fatalf("expected nil, got %v", fields)
	}
	if fields := logging.ContextFields(nil); fields != nil {
		t.Fatalf("expected nil for nil context, got %v", fields)
	}
}
