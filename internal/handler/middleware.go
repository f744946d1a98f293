package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/saludaldia/appointment-booking-service/internal/domain"
	"github.com/sirupsen/logrus"
)

type contextKey string

const accountIDKey contextKey = "accountId"

// Authenticate verifies the bearer token signature and places the subject
// claim in the request context as the acting account. The core never
// authenticates beyond this; it trusts the identity the session provider
// issued.
func Authenticate(secret []byte, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				BuildErrorResponse(logger, w, domain.Auth("missing bearer token"))
				return
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				BuildErrorResponse(logger, w, domain.Auth("invalid session token"))
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountID returns the acting account placed in the context by Authenticate.
func AccountID(ctx context.Context) string {
	accountID, _ := ctx.Value(accountIDKey).(string)
	return accountID
}
