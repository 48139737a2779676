// ABOUTME: Action-task parsing and the recent-activity feed
package assistant

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harper/nova/internal/models"
	"github.com/harper/nova/internal/nlu"
)

// Act parses text as an action task and records travel, order, ride,
// reminder and note tasks in the activity feed. A nil task means the
// text is not actionable.
func (a *Assistant) Act(ctx context.Context, text string) *models.Task {
	task := nlu.ParseTask(ctx, text, a.resolver)
	if task == nil {
		return nil
	}

	if activity := activityFor(task); activity != nil {
		a.store.LogActivity(activity)
		a.logger.Debug("logged activity",
			zap.String("kind", string(activity.Kind)),
			zap.String("task", string(task.Kind)))
	}
	return task
}

// RecentActivities returns the newest n activities
func (a *Assistant) RecentActivities(n int) []models.Activity {
	return a.store.RecentActivities(n)
}

// SweepActivities drops activities older than maxAge. Facts and turns are untouched.
func (a *Assistant) SweepActivities(maxAge time.Duration) int64 {
	return a.store.SweepActivities(maxAge)
}

func activityFor(t *models.Task) *models.Activity {
	meta := map[string]string{"task": string(t.Kind)}
	if t.App != "" {
		meta["app"] = t.App
	}

	switch t.Kind {
	case models.TaskFlightBook:
		if t.FromAirport != nil {
			meta["from_iata"] = t.FromAirport.IATA
		}
		if t.ToAirport != nil {
			meta["to_iata"] = t.ToAirport.IATA
		}
		return &models.Activity{
			Kind:  models.ActivityTravel,
			Title: joinNonEmpty(" ", "Flight", prefixed("from ", t.From), prefixed("to ", t.ToCity)),
			When:  t.Date,
			Meta:  meta,
		}
	case models.TaskNavigate:
		return &models.Activity{Kind: models.ActivityTravel, Title: joinNonEmpty(" ", "Directions", prefixed("to ", t.Destination)), Meta: meta}
	case models.TaskFoodOrder, models.TaskGroceryOrder, models.TaskShop:
		meta["query"] = t.Query
		return &models.Activity{Kind: models.ActivityOrder, Title: joinNonEmpty(" ", orderVerb(t.Kind), t.Query), Meta: meta}
	case models.TaskRide:
		if t.Service != "" {
			meta["service"] = t.Service
		}
		return &models.Activity{Kind: models.ActivityRide, Title: joinNonEmpty(" ", "Ride", prefixed("to ", t.Destination)), Meta: meta}
	case models.TaskCalendar, models.TaskReminder, models.TaskAlarm:
		title := firstOf(t.Title, t.Text, t.Time, string(t.Kind))
		return &models.Activity{Kind: models.ActivityReminder, Title: title, When: firstOf(t.When, t.Date, t.Time), Meta: meta}
	case models.TaskNote:
		return &models.Activity{Kind: models.ActivityNote, Title: firstOf(t.Text, t.Title, "Note"), Meta: meta}
	default:
		return nil
	}
}

func orderVerb(kind models.TaskKind) string {
	switch kind {
	case models.TaskGroceryOrder:
		return "Groceries:"
	case models.TaskShop:
		return "Shop:"
	default:
		return "Order:"
	}
}

func prefixed(prefix, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return prefix + v
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
