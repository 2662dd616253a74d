package lifecycle

import (
	"fmt"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
)

// transitionRule describes the single forward step allowed out of a status
// and the roles permitted to take it.
type transitionRule struct {
	next               string
	roles              []enums.Role
	requiresTechnician bool
}

var transitionRules = map[enums.RecordKind]map[string]transitionRule{
	enums.RecordKindOrder: {
		enums.OrderStatusPending.String(): {
			next:               enums.OrderStatusAssigned.String(),
			roles:              []enums.Role{enums.RoleServiceManager, enums.RoleDispatchManager},
			requiresTechnician: true,
		},
		enums.OrderStatusAssigned.String(): {
			next:  enums.OrderStatusCompleted.String(),
			roles: []enums.Role{enums.RoleTechnician},
		},
	},
	enums.RecordKindRepair: {
		enums.RepairStatusPending.String(): {
			next:               enums.RepairStatusAssigned.String(),
			roles:              []enums.Role{enums.RoleServiceManager, enums.RoleDispatchManager},
			requiresTechnician: true,
		},
		enums.RepairStatusAssigned.String(): {
			next:  enums.RepairStatusInProgress.String(),
			roles: []enums.Role{enums.RoleTechnician},
		},
		enums.RepairStatusInProgress.String(): {
			next:  enums.RepairStatusCompleted.String(),
			roles: []enums.Role{enums.RoleTechnician},
		},
	},
	enums.RecordKindDispatch: {
		enums.DispatchStatusPending.String(): {
			next:  enums.DispatchStatusInTransit.String(),
			roles: []enums.Role{enums.RoleDispatchManager},
		},
		enums.DispatchStatusInTransit.String(): {
			next:  enums.DispatchStatusDelivered.String(),
			roles: []enums.Role{enums.RoleDispatchManager},
		},
	},
}

// NextStatus returns the only status reachable from current for the kind.
// Terminal and unknown statuses have no next step.
func NextStatus(kind enums.RecordKind, current string) (string, bool) {
	rule, ok := transitionRules[kind][current]
	if !ok {
		return "", false
	}
	return rule.next, true
}

// StatusValid reports whether value names a known status for the kind.
func StatusValid(kind enums.RecordKind, value string) bool {
	switch kind {
	case enums.RecordKindOrder:
		_, err := enums.ParseOrderStatus(value)
		return err == nil
	case enums.RecordKindRepair:
		_, err := enums.ParseRepairStatus(value)
		return err == nil
	case enums.RecordKindDispatch:
		_, err := enums.ParseDispatchStatus(value)
		return err == nil
	default:
		return false
	}
}

// ValidateTransition checks adjacency and the role gate for one requested
// status change. Transitions only move one forward step at a time; roles not
// listed for a step, supervisors included, are rejected as forbidden.
// technicianAttached reports whether the request carries a technician id;
// assignment steps require one and every other step refuses one.
func ValidateTransition(kind enums.RecordKind, role enums.Role, current, target string, technicianAttached bool) error {
	rule, ok := transitionRules[kind][current]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("no transitions allowed from status %q", current))
	}
	if rule.next != target {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move from %q to %q", current, target))
	}
	if !roleAllowed(role, rule.roles) {
		return pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("role %q may not perform this transition", role))
	}
	if rule.requiresTechnician && !technicianAttached {
		return pkgerrors.New(pkgerrors.CodeValidation, "technician id required for assignment")
	}
	if !rule.requiresTechnician && technicianAttached {
		return pkgerrors.New(pkgerrors.CodeValidation, "technician id only accepted on assignment")
	}
	return nil
}

func roleAllowed(role enums.Role, allowed []enums.Role) bool {
	for _, candidate := range allowed {
		if candidate == role {
			return true
		}
	}
	return false
}
