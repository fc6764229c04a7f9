package middleware

import (
	"net/http"

	"github.com/angelmondragon/warehouse-console/internal/resource"
)

// Notices attaches a collector so mutation toasts can be returned with the
// response body.
func Notices() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _ := resource.WithCollector(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
