package domain

import (
	"time"

	susp "github.com/moto-tune/suspension-backend/internal/suspension/domain"
)

// Step is the phase of a guided tuning conversation.
type Step string

const (
	StepCollecte     Step = "collecte"
	StepVerification Step = "verification"
	StepProposition  Step = "proposition"
	StepTest         Step = "test"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepCollecte, StepVerification, StepProposition, StepTest:
		return true
	}
	return false
}

// ConfigMode is how the rider wants the assistant to walk through settings.
type ConfigMode string

const (
	ModeRapide  ConfigMode = "rapide"
	ModePasAPas ConfigMode = "pas-a-pas"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is the persisted state of one guided chat. The platform record is
// the source of truth; nothing here is cached between requests.
type Conversation struct {
	ID         string      `json:"id"`
	OwnerUID   string      `json:"owner_uid"`
	KitID      *string     `json:"kit_id,omitempty"`
	Title      string      `json:"title"`
	Step       Step        `json:"step"`
	ConfigMode *ConfigMode `json:"config_mode,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Message is one chat turn.
type Message struct {
	ID             string                `json:"id"`
	ConversationID string                `json:"conversation_id"`
	Role           string                `json:"role"`
	Content        string                `json:"content"`
	Settings       *susp.PartialSettings `json:"settings,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// PhaseUpdate is the intended write against a conversation record.
type PhaseUpdate struct {
	Step       *Step
	ConfigMode *ConfigMode
}
