package lifecycle

import (
	"testing"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
)

func TestValidateTransitionTable(t *testing.T) {
	tech := true
	noTech := false

	cases := []struct {
		name     string
		kind     enums.RecordKind
		role     enums.Role
		from     string
		to       string
		withTech bool
		wantCode pkgerrors.Code
	}{
		{"order assign by service manager", enums.RecordKindOrder, enums.RoleServiceManager, "pending", "assigned", tech, ""},
		{"order assign by dispatch manager", enums.RecordKindOrder, enums.RoleDispatchManager, "pending", "assigned", tech, ""},
		{"order assign without technician", enums.RecordKindOrder, enums.RoleServiceManager, "pending", "assigned", noTech, pkgerrors.CodeValidation},
		{"order assign by technician", enums.RecordKindOrder, enums.RoleTechnician, "pending", "assigned", tech, pkgerrors.CodeForbidden},
		{"order complete by technician", enums.RecordKindOrder, enums.RoleTechnician, "assigned", "completed", noTech, ""},
		{"order complete with technician id", enums.RecordKindOrder, enums.RoleTechnician, "assigned", "completed", tech, pkgerrors.CodeValidation},
		{"order complete by supervisor", enums.RecordKindOrder, enums.RoleSupervisor, "assigned", "completed", noTech, pkgerrors.CodeForbidden},
		{"order skip to completed", enums.RecordKindOrder, enums.RoleTechnician, "pending", "completed", noTech, pkgerrors.CodeStateConflict},
		{"order backwards", enums.RecordKindOrder, enums.RoleServiceManager, "assigned", "pending", tech, pkgerrors.CodeStateConflict},
		{"order from terminal", enums.RecordKindOrder, enums.RoleTechnician, "completed", "assigned", noTech, pkgerrors.CodeStateConflict},
		{"repair start by technician", enums.RecordKindRepair, enums.RoleTechnician, "assigned", "in_progress", noTech, ""},
		{"repair start with technician id", enums.RecordKindRepair, enums.RoleTechnician, "assigned", "in_progress", tech, pkgerrors.CodeValidation},
		{"repair finish by technician", enums.RecordKindRepair, enums.RoleTechnician, "in_progress", "completed", noTech, ""},
		{"repair skip in_progress", enums.RecordKindRepair, enums.RoleTechnician, "assigned", "completed", noTech, pkgerrors.CodeStateConflict},
		{"repair start by customer", enums.RecordKindRepair, enums.RoleCustomer, "assigned", "in_progress", noTech, pkgerrors.CodeForbidden},
		{"dispatch depart", enums.RecordKindDispatch, enums.RoleDispatchManager, "pending", "in_transit", noTech, ""},
		{"dispatch deliver", enums.RecordKindDispatch, enums.RoleDispatchManager, "in_transit", "delivered", noTech, ""},
		{"dispatch deliver by service manager", enums.RecordKindDispatch, enums.RoleServiceManager, "in_transit", "delivered", noTech, pkgerrors.CodeForbidden},
		{"dispatch from terminal", enums.RecordKindDispatch, enums.RoleDispatchManager, "delivered", "in_transit", noTech, pkgerrors.CodeStateConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.kind, tc.role, tc.from, tc.to, tc.withTech)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected transition allowed, got %v", err)
				}
				return
			}
			appErr := pkgerrors.As(err)
			if appErr == nil {
				t.Fatalf("expected coded error, got %v", err)
			}
			if appErr.Code() != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, appErr.Code())
			}
		})
	}
}

func TestNextStatusWalksEachChain(t *testing.T) {
	chains := map[enums.RecordKind][]string{
		enums.RecordKindOrder:    {"pending", "assigned", "completed"},
		enums.RecordKindRepair:   {"pending", "assigned", "in_progress", "completed"},
		enums.RecordKindDispatch: {"pending", "in_transit", "delivered"},
	}

	for kind, chain := range chains {
		for i := 0; i < len(chain)-1; i++ {
			next, ok := NextStatus(kind, chain[i])
			if !ok || next != chain[i+1] {
				t.Fatalf("%s: expected %s after %s, got %s (ok=%v)", kind, chain[i+1], chain[i], next, ok)
			}
		}
		terminal := chain[len(chain)-1]
		if _, ok := NextStatus(kind, terminal); ok {
			t.Fatalf("%s: terminal status %s must have no next step", kind, terminal)
		}
	}
}

func TestStatusValidPerKind(t *testing.T) {
	if !StatusValid(enums.RecordKindRepair, "in_progress") {
		t.Fatalf("in_progress is a repair status")
	}
	if StatusValid(enums.RecordKindOrder, "in_progress") {
		t.Fatalf("in_progress is not an order status")
	}
	if StatusValid(enums.RecordKindDispatch, "assigned") {
		t.Fatalf("assigned is not a dispatch status")
	}
}
