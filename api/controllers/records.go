package controllers

import (
	"net/http"
	"strconv"

	"github.com/fixpointhq/fixpoint-backend/api/middleware"
	"github.com/fixpointhq/fixpoint-backend/api/responses"
	"github.com/fixpointhq/fixpoint-backend/api/validators"
	"github.com/fixpointhq/fixpoint-backend/internal/lifecycle"
	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type transitionRequest struct {
	TargetStatus string `json:"target_status" validate:"required"`
	TechnicianID *int64 `json:"technician_id"`
}

type filterRequest struct {
	Status string `json:"status" validate:"required"`
}

type recordsView struct {
	Records []lifecycle.Record `json:"records"`
	Filter  string             `json:"filter"`
	Stale   bool               `json:"stale"`
}

func viewOfController(ctrl *lifecycle.Controller) recordsView {
	return recordsView{
		Records: ctrl.Records(),
		Filter:  ctrl.Filter(),
		Stale:   ctrl.Stale(),
	}
}

func resolveController(r *http.Request, registry *lifecycle.Registry) (*lifecycle.Controller, error) {
	kind, err := enums.ParseRecordKind(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown record kind")
	}

	role := middleware.RoleFromContext(r.Context())
	if role == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "role required")
	}

	ctrl, err := registry.Get(r.Context(), kind, role)
	if ctrl == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving controller")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading records")
	}
	return ctrl, nil
}

func ListRecords(registry *lifecycle.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := resolveController(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOfController(ctrl))
	}
}

func SetRecordFilter(registry *lifecycle.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := resolveController(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req filterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.SetFilter(req.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOfController(ctrl))
	}
}

func RefreshRecords(registry *lifecycle.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := resolveController(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOfController(ctrl))
	}
}

func TransitionRecord(registry *lifecycle.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := resolveController(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordID, err := strconv.ParseInt(chi.URLParam(r, "recordID"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid record id"))
			return
		}

		var req transitionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.RequestTransition(r.Context(), recordID, req.TargetStatus, req.TechnicianID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"record_id":     recordID,
			"target_status": req.TargetStatus,
		})
	}
}

func DeactivateRecords(registry *lifecycle.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := enums.ParseRecordKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown record kind"))
			return
		}

		role := middleware.RoleFromContext(r.Context())
		if role == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "role required"))
			return
		}

		registry.Deactivate(kind, role)
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
