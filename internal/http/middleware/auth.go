package middlewarex

import (
	"crypto/subtle"
	"net/http"

	"ipspay/internal/config"
)

// AdminAuth guards the administrative verify/sweep endpoints with the
// deployment's admin token.
func AdminAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if cfg.Sec.AdminToken == "" ||
				subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Sec.AdminToken)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
