package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"

	// MaxQueryLength is the upper bound for a single chat query.
	MaxQueryLength = 2000

	// HistoryWindow is how many recent messages are handed to the generator.
	HistoryWindow = 10
)

// Intent labels produced by the classifier.
const (
	IntentExplain   = "explain"
	IntentSummarize = "summarize"
	IntentNavigate  = "navigate"
	IntentGuide     = "guide"
	IntentValidate  = "validate"
)

// Principal roles issued by the external auth collaborator.
const (
	RoleAnalyst  = "analyst"
	RoleAuditor  = "auditor"
	RoleSupplier = "supplier"
	RoleManager  = "manager"
)

// Event topics on the internal bus.
const (
	TopicChatExchangeCompleted = "CHAT_EXCHANGE_COMPLETED"
)
