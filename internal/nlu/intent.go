// ABOUTME: Priority-ordered conversational intent classifier
// ABOUTME: Rules are evaluated in sequence and the first match wins
package nlu

import (
	"regexp"
	"strings"

	"github.com/harper/nova/internal/models"
)

var (
	emotionWord = regexp.MustCompile(`(?i)\b(sad|down|lonely|depressed|anxious|stressed|overwhelmed|upset|angry|mad|furious|tired|exhausted|happy|excited)\b`)
	feelPhrase  = regexp.MustCompile(`(?i)\b(?:i am|i'm|im|feeling|feel)\s+(?:(?:feeling|really|so|very|pretty|kinda|a bit)\s+)*([a-z]+)\b`)

	callVerb   = regexp.MustCompile(`(?i)\b(call|dial|ring|phone)\b`)
	callMe     = regexp.MustCompile(`(?i)\bcall me\b`)
	callTarget = regexp.MustCompile(`(?i)(?:call|dial|ring|phone)\s+(.+)`)
	emailVerb  = regexp.MustCompile(`(?i)\b(email|mail)\b`)
	emailTo    = regexp.MustCompile(`(?i)(?:email|mail)\s+(?:to\s+)?(\S+)?`)
	emailAbout = regexp.MustCompile(`(?i)(?:about|subject)\s+(.+)`)
	waVerb     = regexp.MustCompile(`(?i)\b(whatsapp|wa msg|wa)\b`)
	waTo       = regexp.MustCompile(`(?i)(?:whatsapp|wa msg|wa)\s+(?:to\s+)?(\S+)?`)
	waTextTo   = regexp.MustCompile(`(?i)\b(?:text|message|msg)\s+(\S+)\s+(?:on|via|over)\s+(?:whatsapp|wa)\b`)
	waSay      = regexp.MustCompile(`(?i)\bsay\s+(.+)`)
	waMessage  = regexp.MustCompile(`(?i)(?:message|text)\s+(.+)`)

	punct         = regexp.MustCompile(`[.,!?]`)
	trailingPunct = regexp.MustCompile(`[.,!?]+$`)

	possessiveFact = regexp.MustCompile(`(?i)([a-z][\w .'-]{0,40})'s\s+([a-z][a-z\s\-]+?)\s*(?:\bis\b|=)\s*(.+)$`)
	imperativeFact = regexp.MustCompile(`(?i)\b(?:set|save|remember)\s+([a-z][\w .'-]{0,40})\s+([a-z][a-z\s\-]+?)\s*(?:\bto\b|=)\s*(.+)$`)
	firstPerFact   = regexp.MustCompile(`(?i)\bmy\s+([a-z][a-z\s\-]+?)\s*(?:\bis\b|=)\s*(.+)$`)
	nameShortcut   = regexp.MustCompile(`(?i)\b(?:my name is|call me)\s+([a-z][\w .'-]{0,40})\b`)

	myKeyQuery      = regexp.MustCompile(`(?i)\bwhat(?:'s| is)?\s+my\s+([a-z][a-z\s\-]+)\b`)
	possessiveQuery = regexp.MustCompile(`(?i)\bwhat(?:'s| is)?\s+([a-z][\w .'-]{0,40})'s\s+([a-z][a-z\s\-]+)\b`)
	rememberQuery   = regexp.MustCompile(`(?i)\bwhat.*remember(?:\s+about\s+([a-z][\w .'-]{0,40}))?`)

	apostrophes = strings.NewReplacer("’", "'", "‘", "'")
)

// isEmotion reports whether s contains an emotion word
func isEmotion(s string) bool {
	return emotionWord.MatchString(s)
}

// EmotionLabel maps an emotion word onto the fine-grained MOOD label
func EmotionLabel(word string) string {
	switch strings.ToLower(word) {
	case "happy", "excited":
		return "happy"
	case "angry", "mad", "furious":
		return "angry"
	case "anxious", "stressed", "overwhelmed", "upset":
		return "anxious"
	case "tired", "exhausted":
		return "tired"
	case "lonely":
		return "lonely"
	default:
		return "sad"
	}
}

type intentRule func(text string) (models.Intent, bool)

// intentRules is the disambiguation policy; reordering changes behavior.
// Action verbs match anywhere in the text, so fact statements go first:
// "Mom's phone number is ..." and "my email is ..." are facts, not actions.
var intentRules = []intentRule{
	matchEmotion,
	matchPossessiveFact,
	matchImperativeFact,
	matchFirstPersonFact,
	matchCall,
	matchEmail,
	matchWhatsApp,
	matchNameShortcut,
	matchFactQuery,
}

// ClassifyIntent converts one utterance into an Intent. Unmatched text is SMALLTALK.
func ClassifyIntent(text string) models.Intent {
	t := strings.TrimSpace(apostrophes.Replace(text))
	for _, rule := range intentRules {
		if intent, ok := rule(t); ok {
			return intent
		}
	}
	return models.Intent{Kind: models.IntentSmalltalk, Text: t}
}

func matchEmotion(t string) (models.Intent, bool) {
	for _, m := range feelPhrase.FindAllStringSubmatch(t, -1) {
		if emotionWord.MatchString(m[1]) {
			return models.Intent{Kind: models.IntentMood, Emotion: EmotionLabel(m[1]), Text: t}, true
		}
	}
	return models.Intent{}, false
}

// asksForFact reports a question about one stored key, like "what's mom's phone"
func asksForFact(t string) bool {
	return myKeyQuery.MatchString(t) || possessiveQuery.MatchString(t)
}

func matchCall(t string) (models.Intent, bool) {
	if !callVerb.MatchString(t) || callMe.MatchString(t) || asksForFact(t) {
		return models.Intent{}, false
	}
	intent := models.Intent{Kind: models.IntentCall}
	if m := callTarget.FindStringSubmatch(t); m != nil {
		intent.Contact = strings.TrimSpace(punct.ReplaceAllString(m[1], ""))
	}
	return intent, true
}

func matchEmail(t string) (models.Intent, bool) {
	if !emailVerb.MatchString(t) || asksForFact(t) {
		return models.Intent{}, false
	}
	intent := models.Intent{Kind: models.IntentEmailDraft}
	if m := emailTo.FindStringSubmatch(t); m != nil {
		to := trailingPunct.ReplaceAllString(m[1], "")
		if !isMarker(to, "about", "subject") {
			intent.To = to
		}
	}
	if m := emailAbout.FindStringSubmatch(t); m != nil {
		intent.Subject = strings.TrimSpace(m[1])
	}
	return intent, true
}

func matchWhatsApp(t string) (models.Intent, bool) {
	if !waVerb.MatchString(t) || asksForFact(t) {
		return models.Intent{}, false
	}
	intent := models.Intent{Kind: models.IntentWhatsAppDraft}
	textTo := waTextTo.FindStringSubmatch(t)
	if textTo != nil {
		intent.To = textTo[1]
	} else if m := waTo.FindStringSubmatch(t); m != nil && !isMarker(m[1], "say", "message", "text") {
		intent.To = m[1]
	}
	if m := waSay.FindStringSubmatch(t); m != nil {
		intent.Message = strings.TrimSpace(m[1])
	} else if m := waMessage.FindStringSubmatch(t); m != nil && textTo == nil {
		intent.Message = strings.TrimSpace(m[1])
	}
	return intent, true
}

func matchPossessiveFact(t string) (models.Intent, bool) {
	m := possessiveFact.FindStringSubmatch(t)
	if m == nil {
		return models.Intent{}, false
	}
	return factAdd(NormalizeSubject(m[1]), SlugKey(m[2]), CleanValue(m[3]))
}

func matchImperativeFact(t string) (models.Intent, bool) {
	m := imperativeFact.FindStringSubmatch(t)
	// "remember to call mom" is a request, not a fact
	if m == nil || strings.HasPrefix(strings.ToLower(m[1]), "to ") {
		return models.Intent{}, false
	}
	return factAdd(NormalizeSubject(m[1]), SlugKey(m[2]), CleanValue(m[3]))
}

func matchFirstPersonFact(t string) (models.Intent, bool) {
	m := firstPerFact.FindStringSubmatch(t)
	if m == nil {
		return models.Intent{}, false
	}
	return factAdd(models.DefaultSubject, SlugKey(m[1]), CleanValue(m[2]))
}

func matchNameShortcut(t string) (models.Intent, bool) {
	m := nameShortcut.FindStringSubmatch(t)
	if m == nil || isEmotion(m[1]) {
		return models.Intent{}, false
	}
	return factAdd(models.DefaultSubject, "name", CleanValue(m[1]))
}

func factAdd(subject, key, value string) (models.Intent, bool) {
	if value == "" {
		return models.Intent{}, false
	}
	return models.Intent{Kind: models.IntentFactAdd, Subject: subject, Key: key, Value: value}, true
}

func matchFactQuery(t string) (models.Intent, bool) {
	// "what's my mom's name" belongs to the possessive form
	if loc := myKeyQuery.FindStringSubmatchIndex(t); loc != nil && !strings.HasPrefix(t[loc[1]:], "'s") {
		return models.Intent{
			Kind:    models.IntentFactQuery,
			Subject: models.DefaultSubject,
			Key:     SlugKey(t[loc[2]:loc[3]]),
		}, true
	}
	if m := possessiveQuery.FindStringSubmatch(t); m != nil {
		return models.Intent{
			Kind:    models.IntentFactQuery,
			Subject: NormalizeSubject(m[1]),
			Key:     SlugKey(m[2]),
		}, true
	}
	if m := rememberQuery.FindStringSubmatch(t); m != nil {
		return models.Intent{Kind: models.IntentFactQuery, Subject: NormalizeSubject(m[1])}, true
	}
	return models.Intent{}, false
}

func isMarker(s string, markers ...string) bool {
	for _, m := range markers {
		if strings.EqualFold(s, m) {
			return true
		}
	}
	return false
}
