package registry

import (
	"context"
	"testing"

	"github.com/ekato-labs/tradecore/internal/domain/account"
)

type stubApp struct{ name string }

func (a *stubApp) Name() string { return a.name }

func (a *stubApp) Open(_ account.CredentialBundle) (CommandSet, error) {
	return CommandSet{
		CmdGetBalance: func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{"balance": 0.0}, nil
		},
	}, nil
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	if err := r.Register(&stubApp{name: "paper"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	app, ok := r.Get("paper")
	if !ok {
		t.Fatal("Get(paper) not found")
	}
	if app.Name() != "paper" {
		t.Errorf("Name = %q, want paper", app.Name())
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) found an app")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	if err := r.Register(&stubApp{name: "paper"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&stubApp{name: "paper"}); err == nil {
		t.Fatal("duplicate Register did not fail")
	}
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	r := New()
	if err := r.Register(&stubApp{}); err == nil {
		t.Fatal("empty name Register did not fail")
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	r := New()
	r.MustRegister(&stubApp{name: "paper"})

	defer func() {
		if recover() == nil {
			t.Error("MustRegister did not panic on duplicate")
		}
	}()
	r.MustRegister(&stubApp{name: "paper"})
}

func TestListIsSorted(t *testing.T) {
	r := New()
	r.MustRegister(&stubApp{name: "solana"})
	r.MustRegister(&stubApp{name: "paper"})

	got := r.List()
	if len(got) != 2 || got[0] != "paper" || got[1] != "solana" {
		t.Errorf("List = %v, want [paper solana]", got)
	}
	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
}

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("instantBuy")
	if !ok || cmd != CmdInstantBuy {
		t.Errorf("ParseCommand(instantBuy) = %v, %v", cmd, ok)
	}
	if _, ok := ParseCommand("dropTables"); ok {
		t.Error("ParseCommand accepted an unknown name")
	}
	// Vocabulary is case sensitive on the wire.
	if _, ok := ParseCommand("getbalance"); ok {
		t.Error("ParseCommand accepted a lowercased name")
	}
}

func TestCommandsVocabulary(t *testing.T) {
	cmds := Commands()
	if len(cmds) != 9 {
		t.Fatalf("vocabulary size = %d, want 9", len(cmds))
	}
	seen := make(map[Command]bool, len(cmds))
	for _, c := range cmds {
		if seen[c] {
			t.Errorf("duplicate command %q", c)
		}
		seen[c] = true
	}
}
