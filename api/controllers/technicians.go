package controllers

import (
	"net/http"

	"github.com/fixpointhq/fixpoint-backend/api/responses"
	"github.com/fixpointhq/fixpoint-backend/api/validators"
	"github.com/fixpointhq/fixpoint-backend/internal/technicians"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
)

func ListTechnicians(repo technicians.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		techs, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing technicians"))
			return
		}
		if limit > 0 && len(techs) > limit {
			techs = techs[:limit]
		}
		responses.WriteSuccess(w, map[string]any{"technicians": techs})
	}
}
