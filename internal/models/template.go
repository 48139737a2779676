// ABOUTME: Reply templates, usage counters and template-use audit events
// ABOUTME: Templates are immutable once seeded; usage counters are upserted
package models

import "time"

// TemplateKind is the conversational situation a template is written for
type TemplateKind string

const (
	KindGreeting TemplateKind = "greeting"
	KindCheckin  TemplateKind = "checkin"
	KindBirthday TemplateKind = "birthday"
	KindFestival TemplateKind = "festival"
)

// Placeholders substituted by the draft engine
const (
	PlaceholderName     = "{name}"
	PlaceholderDayPart  = "{day_part}"
	PlaceholderFestival = "{festival}"
)

// Template is a canned phrase keyed by kind and locale
type Template struct {
	ID     int64        `json:"id" yaml:"id"`
	Kind   TemplateKind `json:"kind" yaml:"kind"`
	Locale string       `json:"locale" yaml:"locale"`
	Text   string       `json:"text" yaml:"text"`
}

// UsageCounter is a generic key/value cell with overwrite semantics
type UsageCounter struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TemplateUseEvent is a write-only audit record of a chosen template
type TemplateUseEvent struct {
	Kind       TemplateKind `json:"kind"`
	TemplateID int64        `json:"template_id"`
	UsedAt     time.Time    `json:"used_at"`
}

// LastIDsKey returns the usage key holding recently used template ids for a kind
func LastIDsKey(kind TemplateKind) string {
	return "last_" + string(kind) + "_ids"
}

// LastOpenerKey is the usage key holding the most recent composed opener
const LastOpenerKey = "last_opener_text"
