package signals_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-ninecms/internal/signals"
)

func TestLastNonNilResponseWins(t *testing.T) {
	reg := signals.NewRegistry()

	reg.Connect("render", func(context.Context, signals.Signal) (any, error) {
		return "X", nil
	})
	reg.Connect("render", func(context.Context, signals.Signal) (any, error) {
		return "Y", nil
	})

	got := reg.Send(context.Background(), signals.Signal{Name: "render"})
	if got != "Y" {
		t.Fatalf("response = %v, want Y", got)
	}
}

func TestNilResponsesDoNotOverride(t *testing.T) {
	reg := signals.NewRegistry()

	reg.Connect("render", func(context.Context, signals.Signal) (any, error) {
		return "X", nil
	})
	reg.Connect("render", func(context.Context, signals.Signal) (any, error) {
		return nil, nil
	})

	if got := reg.Send(context.Background(), signals.Signal{Name: "render"}); got != "X" {
		t.Fatalf("response = %v, want X", got)
	}
}

func TestListenerErrorIsSkipped(t *testing.T) {
	reg := signals.NewRegistry()

	reg.Connect("render", func(context.Context, signals.Signal) (any, error) {
		return "X", nil
	})
	reg.Connect("render", func(context.Context, signals.Signal) (any, error) {
		return "boom", errors.New("listener exploded")
	})

	if got := reg.Send(context.Background(), signals.Signal{Name: "render"}); got != "X" {
		t.Fatalf("response = %v, want X", got)
	}
}

func TestNoListenersMeansNil(t *testing.T) {
	reg := signals.NewRegistry()
	if got := reg.Send(context.Background(), signals.Signal{Name: "unknown"}); got != nil {
		t.Fatalf("response = %v, want nil", got)
	}
}
