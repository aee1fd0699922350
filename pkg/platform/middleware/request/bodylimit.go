package request

import (
	"net/http"

	"linkboard/pkg/validation"
)

// BodyLimit caps request bodies with http.MaxBytesReader. A non-positive
// maxBytes uses validation.MaxBodySize. Apply before any handler decodes JSON.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = validation.MaxBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
