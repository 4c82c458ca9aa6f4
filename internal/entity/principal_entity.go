package entity

import (
	"time"

	"github.com/google/uuid"
)

// DataScope bounds which entities and geographies a principal may query.
type DataScope struct {
	EntityIds []string `json:"entity_ids"`
	GeoCodes  []string `json:"geo_codes"`
}

// Principal is the authenticated identity produced by the external auth
// collaborator. The engine never mutates it.
type Principal struct {
	Subject     uuid.UUID
	OrgId       uuid.UUID
	Role        string
	Permissions []string
	Scope       DataScope
	ExpiresAt   time.Time
}
