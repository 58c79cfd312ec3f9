package enums

import "testing"

func TestTierKeyRequiredQuantity(t *testing.T) {
	tests := []struct {
		key  TierKey
		want int
	}{
		{TierKeyGet2, 2},
		{TierKeyGet3, 3},
		{TierKeyGet4, 4},
		{TierKeyGet5, 5},
		{TierKey("get12"), 12},
		{TierKey("get1"), 0},
		{TierKey("get0"), 0},
		{TierKey("buy2"), 0},
		{TierKey(""), 0},
		{TierKey("getx"), 0},
	}

	for _, tt := range tests {
		if got := tt.key.RequiredQuantity(); got != tt.want {
			t.Fatalf("key %q: expected %d, got %d", tt.key, tt.want, got)
		}
	}
}

func TestParseTierKey(t *testing.T) {
	key, err := ParseTierKey("  GET3 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != TierKeyGet3 {
		t.Fatalf("expected get3, got %q", key)
	}

	if _, err := ParseTierKey("get1"); err == nil {
		t.Fatal("expected error for sub-bundle threshold")
	}
	if _, err := ParseTierKey("weekly"); err == nil {
		t.Fatal("expected error for unknown shape")
	}
}
