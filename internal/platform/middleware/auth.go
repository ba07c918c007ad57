package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/agusdc111/arreglocuil/pkg/domainerrors"
	"github.com/agusdc111/arreglocuil/pkg/platform/httputil"
	"github.com/agusdc111/arreglocuil/pkg/requestcontext"
)

// JWTValidator validates a bearer token and returns its claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the claims the middleware needs from a validated token.
type JWTClaims struct {
	ChannelID string
}

// RequireAuth rejects requests without a valid bearer token. When
// allowedChannels is non-empty, the token's channel must also appear in
// the allow list. The authenticated channel ID is injected into the
// request context for services and audit records.
func RequireAuth(validator JWTValidator, allowedChannels []string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, domainerrors.New(domainerrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, domainerrors.New(domainerrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			if len(allowedChannels) > 0 && !slices.Contains(allowedChannels, claims.ChannelID) {
				logger.WarnContext(ctx, "forbidden access - channel not allowed",
					"channel_id", claims.ChannelID,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, domainerrors.New(domainerrors.CodeForbidden, "Channel is not allowed to use this service"))
				return
			}

			ctx = requestcontext.WithChannelID(ctx, claims.ChannelID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
