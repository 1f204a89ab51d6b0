package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps next with an rs/cors handler permissive enough for a browser or
// desktop-client frontend served from a different origin during
// development; AllowedOrigins should be tightened via config in production.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler
}
