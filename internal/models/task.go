// ABOUTME: Task is a structured action request parsed from an utterance
// ABOUTME: Transient; created and consumed within one handling cycle
package models

// TaskKind tags a Task variant
type TaskKind string

const (
	TaskCall         TaskKind = "CALL"
	TaskSMS          TaskKind = "SMS"
	TaskWhatsApp     TaskKind = "WHATSAPP"
	TaskEmail        TaskKind = "EMAIL"
	TaskFoodOrder    TaskKind = "FOOD_ORDER"
	TaskGroceryOrder TaskKind = "GROCERY_ORDER"
	TaskShop         TaskKind = "SHOP"
	TaskRide         TaskKind = "RIDE"
	TaskNavigate     TaskKind = "NAVIGATE"
	TaskFlightBook   TaskKind = "FLIGHT_BOOK"
	TaskCalendar     TaskKind = "CALENDAR"
	TaskReminder     TaskKind = "REMINDER"
	TaskAlarm        TaskKind = "ALARM"
	TaskNote         TaskKind = "NOTE"
	TaskOpenApp      TaskKind = "OPEN_APP"
)

// Airport is a resolved flight endpoint
type Airport struct {
	City string `json:"city" yaml:"city"`
	IATA string `json:"iata" yaml:"iata"`
}

// Task is a parsed action request
type Task struct {
	Kind TaskKind `json:"kind"`

	// CALL, SMS, WHATSAPP
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Message     string `json:"message,omitempty"`

	// EMAIL
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`

	// FOOD_ORDER, GROCERY_ORDER, SHOP
	Query string `json:"query,omitempty"`

	// RIDE, NAVIGATE
	Service     string `json:"service,omitempty"`
	Destination string `json:"destination,omitempty"`

	// FLIGHT_BOOK
	From        string   `json:"from,omitempty"`
	FromAirport *Airport `json:"from_airport,omitempty"`
	ToCity      string   `json:"to_city,omitempty"`
	ToAirport   *Airport `json:"to_airport,omitempty"`

	// CALENDAR, REMINDER, ALARM, NOTE
	Title string `json:"title,omitempty"`
	When  string `json:"when,omitempty"`
	Text  string `json:"text,omitempty"`
	Time  string `json:"time,omitempty"`

	// Date phrase matched locally (FLIGHT_BOOK, CALENDAR, REMINDER)
	Date string `json:"date,omitempty"`

	// App identifier: resolved app hint, or OPEN_APP target
	App string `json:"app,omitempty"`
}

// IsPhone reports whether the task targets a raw phone number
func (t *Task) IsPhone() bool {
	return t != nil && t.Phone != ""
}

// FlightRoute is the endpoint extraction for a flight utterance
type FlightRoute struct {
	FromText string   `json:"from_text,omitempty"`
	ToText   string   `json:"to_text,omitempty"`
	DateText string   `json:"date_text,omitempty"`
	From     *Airport `json:"from,omitempty"`
	To       *Airport `json:"to,omitempty"`
}
