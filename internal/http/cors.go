package http

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

func newCORS(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		// browsers refuse credentials with a wildcard origin
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           600,
	})
	return c.Handler
}
