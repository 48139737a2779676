// ABOUTME: Activity records a dispatched action task for the recent-activity feed
package models

import "time"

// ActivityKind groups dispatched tasks for display
type ActivityKind string

const (
	ActivityTravel   ActivityKind = "travel"
	ActivityOrder    ActivityKind = "order"
	ActivityRide     ActivityKind = "ride"
	ActivityReminder ActivityKind = "reminder"
	ActivityNote     ActivityKind = "note"
)

// Activity is a logged dispatch of a Task
type Activity struct {
	ID        int64             `json:"id"`
	Kind      ActivityKind      `json:"kind"`
	Title     string            `json:"title"`
	When      string            `json:"when,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
