package filter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rushteam/recbatch/store"
)

func TestBlacklist_Keep(t *testing.T) {
	f := NewBlacklist([]string{"bot"}, []string{"promo_1"})

	tests := []struct {
		user string
		item string
		want bool
	}{
		{"u1", "i1", true},
		{"bot", "i1", false},
		{"u1", "promo_1", false},
		{"bot", "promo_1", false},
	}
	for _, tt := range tests {
		got, err := f.Keep(tt.user, tt.item, 1.0)
		if err != nil {
			t.Fatalf("Keep: %v", err)
		}
		if got != tt.want {
			t.Errorf("Keep(%q, %q) = %v, want %v", tt.user, tt.item, got, tt.want)
		}
	}
}

func TestLoadBlacklist(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	users, _ := json.Marshal([]string{"bot"})
	if err := s.Set(ctx, "bl:users", users); err != nil {
		t.Fatal(err)
	}

	// items 名单缺失：视为空名单
	f, err := LoadBlacklist(ctx, s, "bl")
	if err != nil {
		t.Fatalf("LoadBlacklist: %v", err)
	}
	if keep, _ := f.Keep("bot", "i1", 1.0); keep {
		t.Error("blacklisted user kept")
	}
	if keep, _ := f.Keep("u1", "i1", 1.0); !keep {
		t.Error("clean interaction dropped")
	}
}

func TestLoadBlacklist_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	if err := s.Set(ctx, "bl:items", []byte("not-json")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBlacklist(ctx, s, "bl"); err == nil {
		t.Error("want error for corrupt payload")
	}
}

func TestChain_Keep(t *testing.T) {
	cel, err := New("value >= 3.0")
	if err != nil {
		t.Fatal(err)
	}
	chain := Chain{cel, NewBlacklist(nil, []string{"promo_1"})}

	tests := []struct {
		item  string
		value float64
		want  bool
	}{
		{"i1", 5.0, true},
		{"i1", 1.0, false},
		{"promo_1", 5.0, false},
	}
	for _, tt := range tests {
		got, err := chain.Keep("u1", tt.item, tt.value)
		if err != nil {
			t.Fatalf("Keep: %v", err)
		}
		if got != tt.want {
			t.Errorf("Keep(%q, %v) = %v, want %v", tt.item, tt.value, got, tt.want)
		}
	}
}
