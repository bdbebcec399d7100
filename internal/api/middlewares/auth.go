package middlewares

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	jwtutil "github.com/openshelf/catalog-api/internal/security/jwt"
)

// OptionalAuth attaches the user ID when a valid Bearer token is presented and
// otherwise lets the request through as anonymous. Write handlers decide for
// themselves whether an anonymous caller is acceptable.
func OptionalAuth(db *sql.DB, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		tokenStr, err := bearer(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := jwtutil.ParseAccess(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		// Tokens minted before the user's current token_version are revoked.
		var dbVer int
		err = db.QueryRowContext(r.Context(),
			`SELECT COALESCE(token_version,1) FROM users WHERE id = $1`, claims.Subject).Scan(&dbVer)
		if err != nil || claims.TokenVersion != dbVer {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
	})
}

func bearer(h string) (string, error) {
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", errors.New("no bearer")
	}
	return strings.TrimSpace(h[len("Bearer "):]), nil
}
