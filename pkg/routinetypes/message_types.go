package routinetypes

// Role tags a conversation entry.
type Role string

const (
	// RoleUser marks entries typed by the user or injected on their behalf.
	RoleUser Role = "user"
	// RoleAssistant marks replies from the remote assistant.
	RoleAssistant Role = "assistant"
	// RoleSystem marks instruction entries.
	RoleSystem Role = "system"
)

// IsValid reports whether r is one of the three known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// String returns the wire form of the role.
func (r Role) String() string {
	return string(r)
}

// Message is a single conversation entry as it travels on the wire.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// OutboundPayload is the request body sent to the remote assistant.
type OutboundPayload struct {
	Messages []Message        `json:"messages"`
	Products []ResolvedProduct `json:"products"`
}
