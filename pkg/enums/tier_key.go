package enums

import (
	"fmt"
	"strconv"
	"strings"
)

// TierKey labels a "buy N" bundle discount threshold.
type TierKey string

const (
	TierKeyGet2 TierKey = "get2"
	TierKeyGet3 TierKey = "get3"
	TierKeyGet4 TierKey = "get4"
	TierKeyGet5 TierKey = "get5"
)

const tierKeyPrefix = "get"

// String implements fmt.Stringer.
func (t TierKey) String() string {
	return string(t)
}

// RequiredQuantity returns the unit count a shopper must buy to qualify,
// or zero when the key is malformed.
func (t TierKey) RequiredQuantity() int {
	raw, ok := strings.CutPrefix(string(t), tierKeyPrefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 2 {
		return 0
	}
	return n
}

// IsValid reports whether the key encodes a usable threshold.
func (t TierKey) IsValid() bool {
	return t.RequiredQuantity() >= 2
}

// ParseTierKey validates and normalizes a raw tier key value.
func ParseTierKey(raw string) (TierKey, error) {
	key := TierKey(strings.ToLower(strings.TrimSpace(raw)))
	if !key.IsValid() {
		return "", fmt.Errorf("invalid tier key %q", raw)
	}
	return key, nil
}
