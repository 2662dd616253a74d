package middleware

import (
	"context"
	"net/http"

	"github.com/fixpointhq/fixpoint-backend/api/responses"
	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
)

const roleHeader = "X-Role"

type contextKey string

const ctxRole contextKey = "actor_role"

// Role reads the actor role from the X-Role header and injects it into the
// request context. The application shell authenticates users; this layer only
// needs to know which role is acting.
func Role(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(roleHeader)
			if raw == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "role header required"))
				return
			}

			role, err := enums.ParseRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown role"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxRole, role)
			if logg != nil {
				ctx = logg.WithRole(ctx, role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleFromContext returns the acting role injected by Role, or the zero value.
func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if role, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return role
	}
	return ""
}
