package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims carries the subset of the identity provider's claims the
// cart backend cares about: which account the shopper belongs to.
type AccessTokenClaims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// ParsedAccountID validates and returns the account id claim.
func (c AccessTokenClaims) ParsedAccountID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.AccountID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account_id claim: %w", err)
	}
	return id, nil
}
