// ABOUTME: Mood playbooks and persona guidance used as generation hints
package core

import "github.com/harper/nova/internal/models"

// Playbook is a set of tone hints for one mood.
type Playbook struct {
	Validate []string `json:"validate"`
	Ask      []string `json:"ask"`
	Action   []string `json:"action"`
	OptOut   []string `json:"optout"`
}

var playbooks = map[string]Playbook{
	"sad": {
		Validate: []string{"That sounds really heavy.", "I'm sorry you're going through that."},
		Ask:      []string{"What part feels toughest right now?"},
		Action:   []string{"Want a tiny step, like a 2-minute break?"},
		OptOut:   []string{"If you'd rather skip it, that's okay too."},
	},
	"stressed": {
		Validate: []string{"Totally get why that's overwhelming."},
		Ask:      []string{"Is it the deadline or the uncertainty that's tougher?"},
		Action:   []string{"We can list 3 items and pick one small win."},
		OptOut:   []string{"Say the word if you prefer a distraction instead."},
	},
	"happy": {
		Validate: []string{"Love that for you!", "That's awesome!"},
		Ask:      []string{"What made it click?"},
		Action:   []string{"Want me to note this as a highlight?"},
		OptOut:   []string{"Or we can just enjoy the moment and move on!"},
	},
}

// PlaybookFor returns the playbook for mood, empty when none exists
func PlaybookFor(mood models.Mood) Playbook {
	return playbooks[string(mood)]
}

// Personas
const (
	PersonaFriendly = "friendly"
	PersonaCaring   = "caring"
	PersonaFunny    = "funny"
	PersonaSerious  = "serious"
)

// StyleFactKey is the "me" fact holding the persona vibe
const StyleFactKey = "style"

// Guidance maps a persona to the style phrase given to the model
func Guidance(persona string) string {
	switch persona {
	case PersonaFunny:
		return "a touch of playful humor"
	case PersonaCaring:
		return "gentle warmth"
	case PersonaSerious:
		return "calm, professional clarity"
	default:
		return "warm and natural"
	}
}

// Persona reads the stored vibe, defaulting to friendly
func Persona(store Store) string {
	if v, ok := store.LatestFact(StyleFactKey, models.DefaultSubject); ok && v != "" {
		return v
	}
	return PersonaFriendly
}
