package phase

import (
	"strings"

	"github.com/moto-tune/suspension-backend/internal/conversation/domain"
)

// IntentClassifier reads intent out of free text. The machine only depends on
// this interface so keyword matching can be replaced by structured output from
// the completion provider.
type IntentClassifier interface {
	// ConfigMode returns the mode requested in a user message, if any.
	ConfigMode(userText string) (domain.ConfigMode, bool)
	// AsksTerrain reports whether the assistant is still asking about terrain.
	AsksTerrain(assistantText string) bool
	// StartsVerification reports whether the assistant moved on to checking context.
	StartsVerification(assistantText string) bool
	// InvitesTest reports whether the assistant sent the rider off to try settings.
	InvitesTest(assistantText string) bool
}

var (
	modeKeywords         = []string{"rapide", "direct", "pas-à-pas", "complet"}
	fastModeKeywords     = []string{"rapide", "direct"}
	terrainKeywords      = []string{"type de terrain", "quel terrain"}
	verificationKeywords = []string{"vérifions", "vérification"}
	testKeywords         = []string{"après ton essai", "dis-moi comment ça se passe"}
)

// KeywordClassifier matches fixed French phrases, case-insensitively.
type KeywordClassifier struct{}

func (KeywordClassifier) ConfigMode(userText string) (domain.ConfigMode, bool) {
	text := strings.ToLower(userText)
	if !containsAny(text, modeKeywords) {
		return "", false
	}
	if containsAny(text, fastModeKeywords) {
		return domain.ModeRapide, true
	}
	return domain.ModePasAPas, true
}

func (KeywordClassifier) AsksTerrain(assistantText string) bool {
	return containsAny(strings.ToLower(assistantText), terrainKeywords)
}

func (KeywordClassifier) StartsVerification(assistantText string) bool {
	return containsAny(strings.ToLower(assistantText), verificationKeywords)
}

func (KeywordClassifier) InvitesTest(assistantText string) bool {
	return containsAny(strings.ToLower(assistantText), testKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
