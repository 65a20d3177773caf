package middleware

import (
	"net/http"
	"strings"

	"github.com/notifyhub/dashcore/internal/pipeline"
)

// Principal builds the caller identity from X-User-ID and the comma separated
// X-User-Permissions header. Requests without X-User-ID stay anonymous and
// are rejected by secured handlers.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		var perms []string
		for _, p := range strings.Split(r.Header.Get("X-User-Permissions"), ",") {
			if p = strings.TrimSpace(p); p != "" {
				perms = append(perms, p)
			}
		}
		ctx := pipeline.WithPrincipal(r.Context(), pipeline.Principal{UserID: userID, Permissions: perms})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
