// ABOUTME: Action-oriented task parser for dispatch beyond conversation
// ABOUTME: Ordered first-match rules; a miss returns nil, never an error
package nlu

import (
	"context"
	"regexp"
	"strings"

	"github.com/harper/nova/internal/models"
)

// Resolver maps free-text app and flight mentions onto canonical values.
// All lookups are best-effort.
type Resolver interface {
	ResolveAppAlias(token string) (string, bool)
	ParseFlight(ctx context.Context, text string) models.FlightRoute
}

var (
	callPrefix     = regexp.MustCompile(`(?i)^call\b`)
	smsPrefix      = regexp.MustCompile(`(?i)^(text|message|sms)\b`)
	whatsappPrefix = regexp.MustCompile(`(?i)^whatsapp\b`)
	emailPrefix    = regexp.MustCompile(`(?i)^(email|mail)\b`)
	foodPrefix     = regexp.MustCompile(`(?i)^(order|food)\b\s*`)
	groceryPrefix  = regexp.MustCompile(`(?i)^(grocery|groceries)\b\s*`)
	shopPrefix     = regexp.MustCompile(`(?i)^(shop|buy)\b\s*`)
	rideBook       = regexp.MustCompile(`(?i)\b(book|get|arrange|call)\s+(?:an?\s+)?(uber|ola|cab|taxi)(?:\s+(?:to|for)\s+(.+))?$`)
	ridePrefix     = regexp.MustCompile(`(?i)^(ride|cab|taxi|uber|ola)\b\s*`)
	navPrefix      = regexp.MustCompile(`(?i)^(navigate|directions|maps|take me to)\b\s*`)
	flightTrigger  = regexp.MustCompile(`(?i)\b(?:book|reserve|get|find|buy)?\s*(?:a\s+)?(?:flight|plane|air\s*ticket|tickets?)\b`)
	calendarPrefix = regexp.MustCompile(`(?i)^(add|create)\s+(event|meeting)\b\s*`)
	remindPrefix   = regexp.MustCompile(`(?i)^remind\b( me\b)?`)
	alarmPrefix    = regexp.MustCompile(`(?i)^(set )?alarm\b`)
	notePrefix     = regexp.MustCompile(`(?i)^(save note|note)\b`)
	openApp        = regexp.MustCompile(`(?i)^open\s+([a-z ][\w .+-]{0,30})$`)

	appHint      = regexp.MustCompile(`(?i)\b(?:in|on)\s+(?:the\s+)?([a-z][\w\s.&+-]{1,30})\b`)
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	singleQuoted = regexp.MustCompile(`'([^']+)'`)
	sayClause    = regexp.MustCompile(`(?i)\b(say|message|text)\s+(.+)$`)
	messageTail  = regexp.MustCompile(`(?i)(".*?"|'.*?'|\b(say|message|text)\s+.+)$`)
	emailToward  = regexp.MustCompile(`(?i)\bto\s+([^\s"']+)`)
	emailSubject = regexp.MustCompile(`(?i)\bsubject\s+([^"']+)`)
	emailBody    = regexp.MustCompile(`(?i)\b(say|body)\s+(.+)$`)
	nonDialable  = regexp.MustCompile(`[^\d+]`)
	dialable     = regexp.MustCompile(`^\+?\d{5,}$`)
	toWord       = regexp.MustCompile(`(?i)\bto\b`)
	noteLead     = regexp.MustCompile(`^[:\- ]+`)
)

type taskRule func(ctx context.Context, t string, r Resolver) *models.Task

// taskRules run in order; the first non-nil task wins.
var taskRules = []taskRule{
	parseCall,
	parseSMS,
	parseWhatsApp,
	parseEmail,
	parseFood,
	parseGrocery,
	parseShop,
	parseRideBooking,
	parseRide,
	parseNavigate,
	parseFlight,
	parseCalendar,
	parseReminder,
	parseAlarm,
	parseNote,
	parseOpenApp,
}

// ParseTask converts an utterance into a Task. A nil result means the text is
// not actionable. r may be nil, in which case hints stay unresolved.
func ParseTask(ctx context.Context, text string, r Resolver) *models.Task {
	t := strings.TrimSpace(apostrophes.Replace(text))
	if t == "" {
		return nil
	}
	for _, rule := range taskRules {
		if task := rule(ctx, t, r); task != nil {
			return task
		}
	}
	return nil
}

// DialableNumber strips everything but digits and '+' and reports whether at
// least five digits remain.
func DialableNumber(s string) (string, bool) {
	digits := nonDialable.ReplaceAllString(s, "")
	return digits, dialable.MatchString(digits)
}

func parseCall(_ context.Context, t string, _ Resolver) *models.Task {
	if !callPrefix.MatchString(t) {
		return nil
	}
	who := strings.TrimSpace(callPrefix.ReplaceAllString(t, ""))
	if digits, ok := DialableNumber(who); ok {
		return &models.Task{Kind: models.TaskCall, Phone: digits}
	}
	return &models.Task{Kind: models.TaskCall, ContactName: who}
}

func parseSMS(_ context.Context, t string, _ Resolver) *models.Task {
	if !smsPrefix.MatchString(t) {
		return nil
	}
	return messageTask(models.TaskSMS, strings.TrimSpace(smsPrefix.ReplaceAllString(t, "")))
}

func parseWhatsApp(_ context.Context, t string, _ Resolver) *models.Task {
	if !whatsappPrefix.MatchString(t) {
		return nil
	}
	return messageTask(models.TaskWhatsApp, strings.TrimSpace(whatsappPrefix.ReplaceAllString(t, "")))
}

// messageTask splits "<recipient> say <body>" or "<recipient> "<body>"".
func messageTask(kind models.TaskKind, rest string) *models.Task {
	task := &models.Task{Kind: kind, Message: messageBody(rest)}
	to := strings.TrimSpace(messageTail.ReplaceAllString(rest, ""))
	if digits, ok := DialableNumber(to); ok {
		task.Phone = digits
	} else {
		task.ContactName = to
	}
	return task
}

func messageBody(rest string) string {
	if m := doubleQuoted.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	if m := singleQuoted.FindStringSubmatch(rest); m != nil {
		return m[1]
	}
	if m := sayClause.FindStringSubmatch(rest); m != nil {
		return m[2]
	}
	return ""
}

func parseEmail(_ context.Context, t string, _ Resolver) *models.Task {
	if !emailPrefix.MatchString(t) {
		return nil
	}
	task := &models.Task{Kind: models.TaskEmail}
	if m := emailToward.FindStringSubmatch(t); m != nil {
		task.To = strings.TrimSpace(m[1])
	}
	if m := emailSubject.FindStringSubmatch(t); m != nil {
		task.Subject = strings.TrimSpace(m[1])
	}
	if m := emailBody.FindStringSubmatch(t); m != nil {
		task.Body = strings.TrimSpace(m[2])
	}
	return task
}

func parseFood(_ context.Context, t string, r Resolver) *models.Task {
	return orderTask(t, foodPrefix, models.TaskFoodOrder, "food", r)
}

func parseGrocery(_ context.Context, t string, r Resolver) *models.Task {
	return orderTask(t, groceryPrefix, models.TaskGroceryOrder, "groceries", r)
}

func parseShop(_ context.Context, t string, r Resolver) *models.Task {
	return orderTask(t, shopPrefix, models.TaskShop, "", r)
}

func orderTask(t string, prefix *regexp.Regexp, kind models.TaskKind, fallback string, r Resolver) *models.Task {
	if !prefix.MatchString(t) {
		return nil
	}
	query := strings.TrimSpace(prefix.ReplaceAllString(t, ""))
	if query == "" {
		query = fallback
	}
	return withAppHint(&models.Task{Kind: kind, Query: query}, t, r)
}

func parseRideBooking(_ context.Context, t string, r Resolver) *models.Task {
	m := rideBook.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	dest := strings.TrimSpace(m[3])
	if dest == "" {
		dest = "nearby"
	}
	task := &models.Task{Kind: models.TaskRide, Service: strings.ToLower(m[2]), Destination: dest}
	return withAppHint(task, t, r)
}

func parseRide(_ context.Context, t string, r Resolver) *models.Task {
	m := ridePrefix.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	dest := strings.TrimSpace(ridePrefix.ReplaceAllString(t, ""))
	if dest == "" {
		dest = "nearby"
	}
	task := &models.Task{Kind: models.TaskRide, Destination: dest}
	if service := strings.ToLower(m[1]); service != "ride" {
		task.Service = service
	}
	return withAppHint(task, t, r)
}

func parseNavigate(_ context.Context, t string, r Resolver) *models.Task {
	if !navPrefix.MatchString(t) {
		return nil
	}
	dest := strings.TrimSpace(navPrefix.ReplaceAllString(t, ""))
	if dest == "" {
		dest = "nearby"
	}
	return withAppHint(&models.Task{Kind: models.TaskNavigate, Destination: dest}, t, r)
}

func parseFlight(ctx context.Context, t string, r Resolver) *models.Task {
	if !flightTrigger.MatchString(t) {
		return nil
	}
	task := &models.Task{Kind: models.TaskFlightBook, Date: DatePhrase(t)}
	if r != nil {
		route := r.ParseFlight(ctx, t)
		task.From = firstNonEmpty(route.FromText, airportCity(route.From))
		task.ToCity = firstNonEmpty(route.ToText, airportCity(route.To))
		task.FromAirport = route.From
		task.ToAirport = route.To
	}
	return withAppHint(task, t, r)
}

func parseCalendar(_ context.Context, t string, r Resolver) *models.Task {
	if !calendarPrefix.MatchString(t) {
		return nil
	}
	title := strings.TrimSpace(calendarPrefix.ReplaceAllString(t, ""))
	if title == "" {
		title = "Event"
	}
	return withAppHint(&models.Task{Kind: models.TaskCalendar, Title: title, Date: DatePhrase(t)}, t, r)
}

func parseReminder(_ context.Context, t string, _ Resolver) *models.Task {
	if !remindPrefix.MatchString(t) {
		return nil
	}
	what := strings.TrimSpace(remindPrefix.ReplaceAllString(t, ""))
	when := whenPhrase.FindString(what)
	text := what
	if when != "" {
		text = replaceFirst(whenPhrase, text, "")
	}
	text = strings.TrimSpace(replaceFirst(toWord, text, ""))
	text = strings.Join(strings.Fields(text), " ")
	return &models.Task{Kind: models.TaskReminder, Text: text, When: when}
}

func parseAlarm(_ context.Context, t string, _ Resolver) *models.Task {
	if !alarmPrefix.MatchString(t) {
		return nil
	}
	task := &models.Task{Kind: models.TaskAlarm}
	if m := clockTime.FindStringSubmatch(t); m != nil {
		task.Time = strings.TrimSpace(m[1])
	}
	return task
}

func parseNote(_ context.Context, t string, _ Resolver) *models.Task {
	if !notePrefix.MatchString(t) {
		return nil
	}
	text := strings.TrimSpace(notePrefix.ReplaceAllString(t, ""))
	return &models.Task{Kind: models.TaskNote, Text: noteLead.ReplaceAllString(text, "")}
}

func parseOpenApp(_ context.Context, t string, r Resolver) *models.Task {
	m := openApp.FindStringSubmatch(t)
	if m == nil {
		return nil
	}
	return &models.Task{Kind: models.TaskOpenApp, App: resolveApp(strings.TrimSpace(m[1]), r)}
}

// withAppHint attaches an "in/on <app>" mention, resolved when possible
func withAppHint(task *models.Task, t string, r Resolver) *models.Task {
	if m := appHint.FindStringSubmatch(t); m != nil {
		task.App = resolveApp(strings.TrimSpace(m[1]), r)
	}
	return task
}

func resolveApp(token string, r Resolver) string {
	if r != nil {
		if id, ok := r.ResolveAppAlias(token); ok {
			return id
		}
	}
	return token
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

func airportCity(a *models.Airport) string {
	if a == nil {
		return ""
	}
	if a.City != "" {
		return a.City
	}
	return a.IATA
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
