package intent

import (
	"strings"

	"insight-copilot-be/internal/constant"
)

// rule maps trigger keywords to an intent label. Rules are evaluated in
// order and the first match wins, so broader categories must come after
// more specific ones (a query with both "why" and "help" is an explain).
type rule struct {
	keywords []string
	intent   string
}

var rules = []rule{
	{keywords: []string{"why", "explain", "what is"}, intent: constant.IntentExplain},
	{keywords: []string{"summarize", "summary", "overview"}, intent: constant.IntentSummarize},
	{keywords: []string{"how do i", "where", "navigate"}, intent: constant.IntentNavigate},
	{keywords: []string{"help", "guide", "tutorial"}, intent: constant.IntentGuide},
	{keywords: []string{"validate", "check", "verify"}, intent: constant.IntentValidate},
}

// Classify labels a query with its intent. Matching is case-insensitive
// substring matching against the raw query text; no rule matching falls
// back to "guide". Deterministic, no side effects.
func Classify(query string) string {
	q := strings.ToLower(query)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				return r.intent
			}
		}
	}
	return constant.IntentGuide
}
