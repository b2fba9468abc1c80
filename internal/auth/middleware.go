package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the login value.
type contextKey string

const loginKey contextKey = "login"

// CookieName is the HttpOnly cookie carrying the session JWT.
const CookieName = "token"

// RequireAuth enforces authentication on protected routes. It reads the JWT
// from the session cookie, validates it, and stores the login (email) in
// the request context. Missing or invalid token → 401, chain stops.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, err := extractLogin(r, tokens)
			if err != nil {
				// http.Error would reset Content-Type to text/plain.
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthenticated","message":"valid authentication required"}` + "\n"))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithLogin(r.Context(), login)))
		})
	}
}

// ContextWithLogin returns a copy of ctx carrying the given login, the same
// way RequireAuth stores it. Tests use it to fabricate authenticated
// requests without a real token.
func ContextWithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginKey, login)
}

// LoginFromContext retrieves the authenticated login from the request
// context. Returns ("", false) for anonymous requests.
func LoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey).(string)
	return login, ok && login != ""
}

// extractLogin reads the JWT cookie and validates it.
func extractLogin(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		// http.ErrNoCookie — anonymous request
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
