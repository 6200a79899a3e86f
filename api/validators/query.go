package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hillview-school/school-cms/internal/content"
	pkgerrors "github.com/hillview-school/school-cms/pkg/errors"
	"github.com/hillview-school/school-cms/pkg/pagination"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseListParams reads page, limit, search and the form's filter keys.
// Out-of-range page and limit values are clamped rather than rejected.
func ParseListParams(r *http.Request, form content.Form) (content.ListParams, error) {
	query := r.URL.Query()

	page, err := lenientInt(query.Get("page"), "page")
	if err != nil {
		return content.ListParams{}, err
	}
	limit, err := lenientInt(query.Get("limit"), "limit")
	if err != nil {
		return content.ListParams{}, err
	}

	search := strings.TrimSpace(query.Get("q"))
	if search == "" {
		search = strings.TrimSpace(query.Get("search"))
	}

	params := content.ListParams{
		Params: pagination.Params{Page: page, Limit: limit}.Normalize(),
		Search: search,
	}
	for _, key := range form.Filters {
		if value := strings.TrimSpace(query.Get(key)); value != "" {
			if params.Filters == nil {
				params.Filters = map[string]string{}
			}
			params.Filters[key] = value
		}
	}
	return params, nil
}

func lenientInt(raw, key string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseID reads the {id} route parameter. Anything but a positive integer
// that fits a bigint column is a 400.
func ParseID(r *http.Request) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid ID").WithDetails(map[string]any{"id": raw})
	}
	return uint(id), nil
}
