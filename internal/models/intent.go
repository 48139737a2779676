// ABOUTME: Intent is the conversational classification of a single utterance
// ABOUTME: A closed tagged union; only the fields relevant to Kind are populated
package models

// IntentKind tags an Intent variant
type IntentKind string

const (
	IntentCall          IntentKind = "CALL"
	IntentEmailDraft    IntentKind = "EMAIL_DRAFT"
	IntentWhatsAppDraft IntentKind = "WHATSAPP_DRAFT"
	IntentFactAdd       IntentKind = "FACT_ADD"
	IntentFactQuery     IntentKind = "FACT_QUERY"
	IntentMood          IntentKind = "MOOD"
	IntentSmalltalk     IntentKind = "SMALLTALK"
)

// Intent is the result of classifying one utterance
type Intent struct {
	Kind IntentKind `json:"kind"`

	// CALL, EMAIL_DRAFT, WHATSAPP_DRAFT
	Contact string `json:"contact,omitempty"`
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`

	// FACT_ADD, FACT_QUERY (Subject is shared with EMAIL_DRAFT)
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// MOOD
	Emotion string `json:"emotion,omitempty"`

	// SMALLTALK
	Text string `json:"text,omitempty"`
}
