// ABOUTME: Flight route extraction from free text
// ABOUTME: Pulls "from X", "to Y" and a date phrase, then resolves airports
package resolve

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/harper/nova/internal/models"
)

var (
	cityWord   = regexp.MustCompile(`^[a-z.'-]+$`)
	dateInText = regexp.MustCompile(`(?i)\b(?:today|tomorrow|day after|on\s+\w+\s+\d{1,2}|on\s+\d{4}-\d{2}-\d{2}|\d{1,2}(?::\d{2})?\s*(?:am|pm))\b`)

	// words that end a city name
	routeStops = map[string]bool{
		"from": true, "to": true, "on": true, "for": true, "at": true, "by": true,
		"via": true, "in": true, "with": true, "and": true, "today": true,
		"tomorrow": true, "tonight": true, "next": true, "this": true, "day": true,
	}
	// words that can precede a bare "X to Y" pair
	requestWords = map[string]bool{
		"book": true, "reserve": true, "get": true, "find": true, "buy": true,
		"flight": true, "flights": true, "plane": true, "ticket": true, "tickets": true,
		"air": true, "a": true, "me": true, "please": true,
	}
)

// extractRoute finds the endpoint phrases without resolving them
func extractRoute(text string) models.FlightRoute {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	route := models.FlightRoute{DateText: dateInText.FindString(text)}

	for i, w := range words {
		switch w {
		case "from":
			if route.FromText == "" {
				route.FromText = cityAfter(words, i+1)
			}
		case "to":
			if route.ToText == "" {
				route.ToText = cityAfter(words, i+1)
			}
		}
	}

	if route.FromText == "" {
		for i, w := range words {
			if w == "to" {
				route.FromText = cityBefore(words, i)
				break
			}
		}
	}
	return route
}

func cityAfter(words []string, start int) string {
	var city []string
	for _, w := range words[start:] {
		w = strings.Trim(w, ",!?")
		if routeStops[w] || !cityWord.MatchString(w) {
			break
		}
		city = append(city, w)
	}
	return strings.Join(city, " ")
}

func cityBefore(words []string, end int) string {
	start := end
	for start > 0 {
		w := strings.Trim(words[start-1], ",!?")
		if routeStops[w] || requestWords[w] || !cityWord.MatchString(w) {
			break
		}
		start--
	}
	return strings.Join(words[start:end], " ")
}

// resolvePair looks up both endpoints concurrently
func (r *Resolver) resolvePair(ctx context.Context, from, to string) (*models.Airport, *models.Airport) {
	var fromA, toA *models.Airport

	g, _ := errgroup.WithContext(ctx)
	if from != "" {
		g.Go(func() error {
			fromA = r.ResolveAirport(from)
			return nil
		})
	}
	if to != "" {
		g.Go(func() error {
			toA = r.ResolveAirport(to)
			return nil
		})
	}
	_ = g.Wait()

	return fromA, toA
}
