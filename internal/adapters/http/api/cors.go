package api

import (
	"net/http"
	"strings"
)

// Route applies the CORS headers every endpoint sends, answers preflight
// requests, and rejects methods other than allowed with 405.
func Route(allowed string, next http.HandlerFunc) http.HandlerFunc {
	allowMethods := strings.Join([]string{allowed, http.MethodOptions}, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		case allowed:
			next(w, r)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		}
	}
}
