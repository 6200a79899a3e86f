package middleware

import (
	"net/http"

	"github.com/hillview-school/school-cms/api/responses"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
	"github.com/hillview-school/school-cms/pkg/logger"
)

// BodyLimit caps request bodies at maxBytes. Declared lengths over the cap
// are rejected before the handler runs; streamed bodies fail on read.
func BodyLimit(maxBytes int64, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeTooLarge, "request body too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
