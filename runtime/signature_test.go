package runtime

import (
	"testing"

	"github.com/wippyai/wasm-memory/errors"
	"github.com/wippyai/wasm-memory/view"
)

func TestParseSignatures(t *testing.T) {
	witText := `
		package test:example@1.0.0;

		interface calc {
			export add: func(a: s32, b: s32) -> s32;
			export sub: func(x: s32, y: s32) -> s32;
			export get-value: func() -> u64;
		}
	`

	funcs, err := parseSignatures(witText)
	if err != nil {
		t.Fatalf("parseSignatures error: %v", err)
	}

	if len(funcs) != 3 {
		t.Errorf("expected 3 functions, got %d", len(funcs))
	}

	addSig, ok := funcs["add"]
	if !ok {
		t.Error("add function not found")
	} else {
		if len(addSig.params) != 2 {
			t.Errorf("add: expected 2 params, got %d", len(addSig.params))
		}
		if len(addSig.results) != 1 {
			t.Errorf("add: expected 1 result, got %d", len(addSig.results))
		}
	}

	if sig, ok := funcs["get-value"]; !ok {
		t.Error("get-value function not found")
	} else if len(sig.params) != 0 || len(sig.results) != 1 {
		t.Errorf("get-value: got %d params, %d results", len(sig.params), len(sig.results))
	}
}

func TestParseSignatures_NoFunctions(t *testing.T) {
	witText := `
		package test:example@1.0.0;
		interface empty {}
	`

	_, err := parseSignatures(witText)
	if err == nil {
		t.Error("expected error for WIT with no functions")
	}
}

func TestParseSignatures_TupleResult(t *testing.T) {
	funcs, err := parseSignatures(`export divmod: func(a: s32, b: s32) -> (s32, s32);`)
	if err != nil {
		t.Fatalf("parseSignatures error: %v", err)
	}

	sig, ok := funcs["divmod"]
	if !ok {
		t.Fatal("divmod function not found")
	}
	if len(sig.params) != 2 {
		t.Errorf("expected 2 params, got %d", len(sig.params))
	}
	if len(sig.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(sig.results))
	}
}

func TestParseSignatures_NamedAndEmptyResults(t *testing.T) {
	sigs, err := parseSignatures(`
		export store: func(addr: u32, value: s16) -> ();
		export pair: func() -> (lo: u8, hi: u8);
	`)
	if err != nil {
		t.Fatalf("parseSignatures error: %v", err)
	}

	if sig := sigs["store"]; len(sig.params) != 2 || len(sig.results) != 0 {
		t.Errorf("store: got %d params, %d results", len(sig.params), len(sig.results))
	}
	if sig := sigs["pair"]; len(sig.params) != 0 || len(sig.results) != 2 {
		t.Errorf("pair: got %d params, %d results", len(sig.params), len(sig.results))
	}
	if k, ok := view.KindOfWit(sigs["pair"].results[0]); !ok || k != view.Uint8 {
		t.Errorf("pair result = %T, want u8", sigs["pair"].results[0])
	}
}

func TestParseSignatures_UnknownType(t *testing.T) {
	_, err := parseSignatures(`export f: func(a: not-a-type) -> u8;`)
	if err == nil {
		t.Fatal("expected error for unknown param type")
	}
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindInvalidData {
		t.Fatalf("expected invalid_data error, got %v", err)
	}
	if len(e.Path) != 2 || e.Path[0] != "f" || e.Path[1] != "param" {
		t.Errorf("Path = %v, want [f param]", e.Path)
	}
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a: u8", []string{"a: u8"}},
		{"a: u8, b: s32", []string{"a: u8", "b: s32"}},
		{"a: tuple<u8, u8>, b: u32", []string{"a: tuple<u8, u8>", "b: u32"}},
		{" u8 ,, s8 ", []string{"u8", "s8"}},
	}

	for _, tt := range tests {
		got := splitTopLevel(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitTopLevel(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitTopLevel(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
