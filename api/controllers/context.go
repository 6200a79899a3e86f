package controllers

import (
	"context"
	"net/http"

	"github.com/hillview-school/school-cms/pkg/logger"
)

func entityContext(r *http.Request, entity string, logg *logger.Logger) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithEntity(r.Context(), entity)
}
