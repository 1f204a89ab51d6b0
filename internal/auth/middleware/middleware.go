// Package middleware authenticates HTTP and websocket-upgrade requests by
// session token, and gates chat operations by membership role.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	authdomain "github.com/code19m/pulsechat/internal/auth/domain"
	chatdomain "github.com/code19m/pulsechat/internal/chat/domain"
	"github.com/code19m/pulsechat/pkg/errs"
	"github.com/code19m/pulsechat/pkg/httpx"
	"github.com/code19m/pulsechat/pkg/token"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	membershipKey
)

// UserIDFromContext returns the authenticated user ID attached by
// RequireAuth, or false if the request was never authenticated.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// MembershipFromContext returns the membership attached by RequireMembership.
func MembershipFromContext(ctx context.Context) (*chatdomain.Membership, bool) {
	m, ok := ctx.Value(membershipKey).(*chatdomain.Membership)
	return m, ok
}

// Auth verifies the bearer session token on every request: a missing header
// is Forbidden (no credential offered at all), a malformed or revoked/expired
// token is Unauthorized, and an unknown or soft-deleted user is Unauthorized.
type Auth struct {
	tokens   *token.Service
	userRepo authdomain.UserRepository
}

func NewAuth(tokens *token.Service, userRepo authdomain.UserRepository) *Auth {
	return &Auth{tokens: tokens, userRepo: userRepo}
}

// RequireAuth attaches the authenticated user ID to the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.HandleError(w, errs.NewForbiddenError("missing bearer token"))
			return
		}

		claims, err := a.tokens.Verify(r.Context(), raw)
		if err != nil || claims.Kind != token.KindAccess {
			httpx.HandleError(w, errs.NewUnauthorizedError("invalid or expired session"))
			return
		}

		user, err := a.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil || user.IsDeleted() {
			httpx.HandleError(w, errs.NewUnauthorizedError("invalid or expired session"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads the session token from the Authorization header, falling
// back to the access_token query parameter for the websocket upgrade request
// (browsers cannot set custom headers on the handshake).
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return r.URL.Query().Get("access_token")
}

// RequireMembership resolves the {chat_id} path value against membershipRepo
// and attaches the membership to the request context, rejecting non-members
// with Forbidden.
func RequireMembership(membershipRepo chatdomain.MembershipRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				httpx.HandleError(w, errs.NewForbiddenError("missing bearer token"))
				return
			}

			chatID, err := strconv.Atoi(r.PathValue("chat_id"))
			if err != nil {
				httpx.HandleError(w, errs.NewField(errs.KindBadRequest, "chat_id", "invalid chat id"))
				return
			}

			membership, err := membershipRepo.Get(r.Context(), chatID, userID)
			if err != nil {
				httpx.HandleError(w, errs.NewForbiddenError("not a member of this chat"))
				return
			}

			ctx := context.WithValue(r.Context(), membershipKey, membership)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose context membership (attached by
// RequireMembership) does not hold one of allowed.
func RequireRole(allowed ...chatdomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			membership, ok := MembershipFromContext(r.Context())
			if !ok {
				httpx.HandleError(w, errs.NewForbiddenError("not a member of this chat"))
				return
			}

			for _, role := range allowed {
				if membership.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			httpx.HandleError(w, errs.NewForbiddenError("insufficient role for this operation"))
		})
	}
}
