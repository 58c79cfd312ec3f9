package middleware

import (
	"net/http"
	"strings"

	"github.com/mcruzdev/bundlecart-backend/api/responses"
	pkgerrors "github.com/mcruzdev/bundlecart-backend/pkg/errors"
	"github.com/mcruzdev/bundlecart-backend/pkg/logger"
)

const guestCartIDHeader = "X-Guest-Cart-Id"

const maxGuestCartIDLength = 128

// GuestCart requires the guest cart id header and seeds the request context
// with it. The id is an opaque client-generated token, not a server secret.
func GuestCart(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guestCartID := strings.TrimSpace(r.Header.Get(guestCartIDHeader))
			if guestCartID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing X-Guest-Cart-Id header"))
				return
			}
			if len(guestCartID) > maxGuestCartIDLength {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest cart id too long"))
				return
			}

			ctx := WithGuestCartID(r.Context(), guestCartID)
			if logg != nil {
				ctx = logg.WithGuestCartID(ctx, guestCartID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
