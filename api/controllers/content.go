package controllers

import (
	"net/http"

	"github.com/hillview-school/school-cms/api/responses"
	"github.com/hillview-school/school-cms/api/validators"
	"github.com/hillview-school/school-cms/internal/content"
	"github.com/hillview-school/school-cms/pkg/logger"
	"github.com/hillview-school/school-cms/pkg/types"
)

// ListContent serves GET /api/{entity}.
func ListContent[T any](svc content.Service[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := entityContext(r, svc.Entity(), logg)

		params, err := validators.ParseListParams(r, svc.Form())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		pageMeta := page.Pagination
		responses.WriteEnvelope(w, http.StatusOK, types.SuccessEnvelope{
			Data:       page.Items,
			Pagination: &pageMeta,
		})
	}
}

// GetContent serves GET /api/{entity}/{id}.
func GetContent[T any](svc content.Service[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := entityContext(r, svc.Entity(), logg)

		id, err := validators.ParseID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeOutcome(w, http.StatusOK, "", out)
	}
}

// CreateContent serves POST /api/{entity}.
func CreateContent[T any](svc content.Service[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := entityContext(r, svc.Entity(), logg)

		sub, err := validators.DecodeSubmission(r, svc.Form())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out, err := svc.Create(ctx, sub)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeOutcome(w, http.StatusCreated, "Created successfully", out)
	}
}

// UpdateContent serves PUT and PATCH /api/{entity}/{id}.
func UpdateContent[T any](svc content.Service[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := entityContext(r, svc.Entity(), logg)

		id, err := validators.ParseID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sub, err := validators.DecodeSubmission(r, svc.Form())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out, err := svc.Update(ctx, id, sub)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeOutcome(w, http.StatusOK, "Updated successfully", out)
	}
}

// DeleteContent serves DELETE /api/{entity}/{id}.
func DeleteContent[T any](svc content.Service[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := entityContext(r, svc.Entity(), logg)

		id, err := validators.ParseID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		out, err := svc.Delete(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteEnvelope(w, http.StatusOK, types.SuccessEnvelope{
			Message:  "Deleted successfully",
			Data:     out,
			Warnings: out.Warnings,
		})
	}
}

func writeOutcome[T any](w http.ResponseWriter, status int, message string, out *content.Outcome[T]) {
	env := types.SuccessEnvelope{
		Message:  message,
		Data:     out.Record,
		Warnings: out.Warnings,
	}
	if len(out.Files) > 0 {
		env.Files = out.Files
		env.FileCounts = out.FileCounts
	}
	responses.WriteEnvelope(w, status, env)
}
