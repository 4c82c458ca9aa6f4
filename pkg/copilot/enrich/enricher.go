package enrich

import "insight-copilot-be/internal/entity"

// UserRoleKey is the context field the enricher owns. The principal is the
// authoritative source for it; any client-supplied value is overwritten.
const UserRoleKey = "userRole"

// Enrich returns a copy of the client context with the authenticated
// principal's role written into the userRole field. All other fields pass
// through unchanged. No persistence, no external calls.
func Enrich(clientContext map[string]interface{}, principal *entity.Principal) map[string]interface{} {
	enriched := make(map[string]interface{}, len(clientContext)+1)
	for k, v := range clientContext {
		enriched[k] = v
	}
	enriched[UserRoleKey] = principal.Role
	return enriched
}
