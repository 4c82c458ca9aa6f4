package enrich

import (
	"testing"

	"insight-copilot-be/internal/entity"

	"github.com/google/uuid"
)

func TestEnrichSetsUserRole(t *testing.T) {
	principal := &entity.Principal{Subject: uuid.New(), Role: "analyst"}

	got := Enrich(map[string]interface{}{"page": "/dashboards/revenue"}, principal)

	if got[UserRoleKey] != "analyst" {
		t.Errorf("userRole = %v, want analyst", got[UserRoleKey])
	}
	if got["page"] != "/dashboards/revenue" {
		t.Errorf("page = %v, want /dashboards/revenue", got["page"])
	}
}

func TestEnrichOverwritesClientSuppliedRole(t *testing.T) {
	principal := &entity.Principal{Subject: uuid.New(), Role: "viewer"}

	got := Enrich(map[string]interface{}{UserRoleKey: "admin"}, principal)

	if got[UserRoleKey] != "viewer" {
		t.Errorf("userRole = %v, client-supplied value must be overwritten", got[UserRoleKey])
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	principal := &entity.Principal{Subject: uuid.New(), Role: "analyst"}
	input := map[string]interface{}{"page": "/reports/1"}

	Enrich(input, principal)

	if _, ok := input[UserRoleKey]; ok {
		t.Error("Enrich wrote into the caller's map")
	}
}

func TestEnrichNilContext(t *testing.T) {
	principal := &entity.Principal{Subject: uuid.New(), Role: "analyst"}

	got := Enrich(nil, principal)

	if len(got) != 1 || got[UserRoleKey] != "analyst" {
		t.Errorf("Enrich(nil) = %v, want only the userRole field", got)
	}
}
