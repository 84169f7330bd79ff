package module

import (
	"context"
	"errors"
	"testing"

	"github.com/cv-dev/cv/pkg/vdom"
)

func label(text string) vdom.Component {
	return func(args vdom.ComponentArgs) *vdom.Node {
		return args.Engine.H("span", nil, text)
	}
}

func TestRegistryLoad(t *testing.T) {
	r := NewRegistry()
	r.Register("ui/badge", vdom.Namespace{vdom.DefaultExport: label("badge")})
	r.RegisterComponent("ui/badge", "Small", label("small"))

	mod, err := r.Load(context.Background(), "ui/badge")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{vdom.DefaultExport, "Small"} {
		if _, ok := mod.Export(name); !ok {
			t.Errorf("Export(%q) missing", name)
		}
	}
	if _, ok := mod.Export("Large"); ok {
		t.Error("Export(Large) found, want missing")
	}

	if got := r.Specifiers(); len(got) != 1 || got[0] != "ui/badge" {
		t.Errorf("Specifiers() = %v", got)
	}
}

func TestRegistryNotFound(t *testing.T) {
	_, err := NewRegistry().Load(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRegistryCancelled(t *testing.T) {
	r := NewRegistry()
	r.RegisterComponent("x", vdom.DefaultExport, label("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Load(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestChain(t *testing.T) {
	first := NewRegistry()
	second := NewRegistry()
	second.RegisterComponent("b", vdom.DefaultExport, label("b"))

	boom := errors.New("boom")
	failing := vdom.LoaderFunc(func(context.Context, string) (vdom.Module, error) {
		return nil, boom
	})

	tests := []struct {
		name    string
		chain   Chain
		spec    string
		wantErr error
	}{
		{"falls through", Chain{first, nil, second}, "b", nil},
		{"not found", Chain{first, second}, "c", ErrNotFound},
		{"empty", Chain{}, "b", ErrNotFound},
		{"stops on error", Chain{failing, second}, "b", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := tt.chain.Load(context.Background(), tt.spec)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if _, ok := mod.Export(vdom.DefaultExport); !ok {
				t.Error("default export missing")
			}
		})
	}
}
