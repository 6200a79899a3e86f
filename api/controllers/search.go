package controllers

import (
	"context"
	"net/http"

	"github.com/hillview-school/school-cms/api/responses"
	"github.com/hillview-school/school-cms/api/validators"
	"github.com/hillview-school/school-cms/internal/search"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/pagination"
)

type searcher interface {
	Search(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

// Search ranks recent content titles across every collection.
func Search(svc searcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hits, err := svc.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, hits)
	}
}
