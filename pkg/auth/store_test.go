package auth

import (
	"errors"
	"testing"
)

func TestStaticResolver(t *testing.T) {
	r := NewStaticResolver(map[string]string{"alice": "digest-a"})

	store, ok, err := r.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected source to be present")
	}
	if store["alice"] != "digest-a" {
		t.Errorf("expected alice entry, got %v", store)
	}
}

func TestStaticResolver_EmptyNotPresent(t *testing.T) {
	_, ok, err := NewStaticResolver(nil).Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected empty table to report not-present")
	}
}

func TestDelimitedResolver(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		present bool
		want    map[string]string
	}{
		{
			name:    "two entries",
			raw:     "alice:aaa,bob:bbb",
			present: true,
			want:    map[string]string{"alice": "aaa", "bob": "bbb"},
		},
		{
			name:    "malformed entry skipped",
			raw:     "demo:abc,bad_entry,user2:xyz",
			present: true,
			want:    map[string]string{"demo": "abc", "user2": "xyz"},
		},
		{
			name:    "whitespace trimmed",
			raw:     " alice : aaa , bob : bbb ",
			present: true,
			want:    map[string]string{"alice": "aaa", "bob": "bbb"},
		},
		{
			name:    "digest keeps embedded colon",
			raw:     "alice:aaa:bbb",
			present: true,
			want:    map[string]string{"alice": "aaa:bbb"},
		},
		{
			name:    "empty string not present",
			raw:     "",
			present: false,
		},
		{
			name:    "only malformed entries not present",
			raw:     "garbage,more garbage",
			present: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, ok, err := NewDelimitedResolver(tt.raw).Resolve()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.present {
				t.Fatalf("present = %v, want %v", ok, tt.present)
			}
			if !tt.present {
				return
			}
			if len(store) != len(tt.want) {
				t.Fatalf("got %d entries, want %d: %v", len(store), len(tt.want), store)
			}
			for user, digest := range tt.want {
				if store[user] != digest {
					t.Errorf("store[%q] = %q, want %q", user, store[user], digest)
				}
			}
		})
	}
}

func TestDemoResolver(t *testing.T) {
	store, ok, err := DemoResolver{}.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("demo resolver must always be present")
	}
	if len(store) != 1 {
		t.Fatalf("expected exactly one entry, got %v", store)
	}
	if !Verify(DemoUser, "demo123", store, DefaultKey) {
		t.Error("demo entry must verify against demo123 under the default key")
	}
}

func TestChainResolver_FirstPresentWins(t *testing.T) {
	// Both sources configured: the structured table wins outright,
	// no entry-level merging.
	chain := NewChainResolver(
		NewStaticResolver(map[string]string{"alice": "aaa"}),
		NewDelimitedResolver("bob:bbb"),
	)

	store, ok, err := chain.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if _, found := store["bob"]; found {
		t.Error("delimited entries must not leak into the resolved store")
	}
	if store["alice"] != "aaa" {
		t.Errorf("expected alice from the structured table, got %v", store)
	}
}

func TestChainResolver_FallsThrough(t *testing.T) {
	chain := NewChainResolver(
		NewStaticResolver(nil),
		NewDelimitedResolver("bob:bbb"),
	)

	store, ok, err := chain.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if store["bob"] != "bbb" {
		t.Errorf("expected bob from the delimited source, got %v", store)
	}
}

func TestChainResolver_ErrorStopsChain(t *testing.T) {
	expectedErr := errors.New("secret backend down")

	called := false
	chain := NewChainResolver(
		ResolverFunc(func() (Store, bool, error) {
			return nil, false, expectedErr
		}),
		ResolverFunc(func() (Store, bool, error) {
			called = true
			return Store{"bob": "bbb"}, true, nil
		}),
	)

	_, ok, err := chain.Resolve()
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if ok {
		t.Error("expected resolution to fail")
	}
	if called {
		t.Error("later resolvers must not run after an error")
	}
}

func TestDefaultChain_FallbackDemo(t *testing.T) {
	store, ok, err := DefaultChain(nil, "").Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("default chain must always resolve")
	}
	if len(store) != 1 {
		t.Fatalf("expected exactly the demo entry, got %v", store)
	}
	if _, found := store[DemoUser]; !found {
		t.Errorf("expected demo user, got %v", store)
	}
}
