// Package phase computes the next step of a guided tuning conversation.
package phase

import "github.com/moto-tune/suspension-backend/internal/conversation/domain"

// Exchange is one completed user/assistant round trip.
type Exchange struct {
	Step          domain.Step
	UserText      string
	AssistantText string
	HasSettings   bool
}

// Transition is the intended change after an exchange. It does not enforce
// forward-only movement; callers passing a stale step get a stale answer.
type Transition struct {
	From       domain.Step
	To         domain.Step
	ConfigMode *domain.ConfigMode
}

// StepChanged reports whether the step moved.
func (t Transition) StepChanged() bool {
	return t.From != t.To
}

// NeedsWrite reports whether the conversation record must be updated.
func (t Transition) NeedsWrite() bool {
	return t.StepChanged() || t.ConfigMode != nil
}

// Update returns the fields to write, nil when nothing changed.
func (t Transition) Update() *domain.PhaseUpdate {
	if !t.NeedsWrite() {
		return nil
	}
	u := &domain.PhaseUpdate{ConfigMode: t.ConfigMode}
	if t.StepChanged() {
		to := t.To
		u.Step = &to
	}
	return u
}

// Machine evaluates transitions with a pluggable classifier.
type Machine struct {
	classifier IntentClassifier
}

// NewMachine returns a machine using c, or KeywordClassifier when c is nil.
func NewMachine(c IntentClassifier) *Machine {
	if c == nil {
		c = KeywordClassifier{}
	}
	return &Machine{classifier: c}
}

// Next evaluates the rules of the current step only.
func (m *Machine) Next(ex Exchange) Transition {
	t := Transition{From: ex.Step, To: ex.Step}

	switch ex.Step {
	case domain.StepCollecte:
		if mode, ok := m.classifier.ConfigMode(ex.UserText); ok {
			t.ConfigMode = &mode
		}
		switch {
		case ex.HasSettings:
			t.To = domain.StepProposition
		case !m.classifier.AsksTerrain(ex.AssistantText) && m.classifier.StartsVerification(ex.AssistantText):
			t.To = domain.StepVerification
		}
	case domain.StepVerification:
		if ex.HasSettings {
			t.To = domain.StepProposition
		}
	case domain.StepProposition:
		if m.classifier.InvitesTest(ex.AssistantText) {
			t.To = domain.StepTest
		}
	}

	return t
}
