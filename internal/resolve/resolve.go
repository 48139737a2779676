// ABOUTME: Airport and app-alias resolution backed by embedded YAML tables
// ABOUTME: Exact matches win; fuzzy similarity is the last resort
package resolve

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/harper/nova/internal/lexical"
	"github.com/harper/nova/internal/models"
)

const (
	// AirportThreshold is the minimum similarity for a fuzzy airport match
	AirportThreshold = 0.8
	// AppThreshold is the minimum similarity for a fuzzy app match
	AppThreshold = 0.85
)

//go:embed data/airports.yaml
var airportsYAML []byte

//go:embed data/apps.yaml
var appsYAML []byte

type airportEntry struct {
	City    string   `yaml:"city"`
	IATA    string   `yaml:"iata"`
	Aliases []string `yaml:"aliases"`
}

type appEntry struct {
	ID      string   `yaml:"id"`
	Aliases []string `yaml:"aliases"`
}

// Resolver answers airport and app lookups
type Resolver struct {
	airports []airportEntry
	apps     []appEntry
	logger   *zap.Logger
}

// New loads the embedded airport and app tables
func New(logger *zap.Logger) (*Resolver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var airports struct {
		Airports []airportEntry `yaml:"airports"`
	}
	if err := yaml.Unmarshal(airportsYAML, &airports); err != nil {
		return nil, fmt.Errorf("failed to parse airports table: %w", err)
	}

	var apps struct {
		Apps []appEntry `yaml:"apps"`
	}
	if err := yaml.Unmarshal(appsYAML, &apps); err != nil {
		return nil, fmt.Errorf("failed to parse apps table: %w", err)
	}

	return &Resolver{
		airports: airports.Airports,
		apps:     apps.Apps,
		logger:   logger.Named("resolve"),
	}, nil
}

// ResolveAirport maps a city name, alias or IATA code to an airport. Nil on miss.
func (r *Resolver) ResolveAirport(cityOrCode string) *models.Airport {
	q := lexical.Normalize(cityOrCode)
	if q == "" {
		return nil
	}

	if len(q) == 3 {
		for _, a := range r.airports {
			if strings.EqualFold(a.IATA, q) {
				return &models.Airport{City: a.City, IATA: a.IATA}
			}
		}
	}

	for _, a := range r.airports {
		if lexical.Normalize(a.City) == q || containsNormalized(a.Aliases, q) {
			return &models.Airport{City: a.City, IATA: a.IATA}
		}
	}

	var (
		best      *airportEntry
		bestScore float64
	)
	for i := range r.airports {
		a := &r.airports[i]
		for _, name := range append([]string{a.City}, a.Aliases...) {
			if score := lexical.Similarity(q, name); score > bestScore {
				best, bestScore = a, score
			}
		}
	}
	if best != nil && bestScore >= AirportThreshold {
		r.logger.Debug("fuzzy airport match", zap.String("query", q), zap.String("iata", best.IATA), zap.Float64("score", bestScore))
		return &models.Airport{City: best.City, IATA: best.IATA}
	}
	return nil
}

// ResolveAppAlias maps an app mention onto its canonical identifier. The
// longest leading run of words that resolves wins, so "swiggy tonight"
// still finds swiggy.
func (r *Resolver) ResolveAppAlias(token string) (string, bool) {
	words := strings.Fields(lexical.Normalize(token))
	for n := len(words); n > 0; n-- {
		if id, ok := r.resolveApp(strings.Join(words[:n], " ")); ok {
			return id, true
		}
	}
	return "", false
}

func (r *Resolver) resolveApp(q string) (string, bool) {
	for _, app := range r.apps {
		if q == strings.ToLower(app.ID) || containsNormalized(app.Aliases, q) {
			return app.ID, true
		}
	}

	var (
		bestID    string
		bestScore float64
	)
	for _, app := range r.apps {
		for _, alias := range app.Aliases {
			if score := lexical.Similarity(q, alias); score > bestScore {
				bestID, bestScore = app.ID, score
			}
		}
	}
	if bestScore >= AppThreshold {
		return bestID, true
	}
	return "", false
}

// ParseFlight extracts from/to/date from a flight request and resolves both
// endpoints concurrently.
func (r *Resolver) ParseFlight(ctx context.Context, text string) models.FlightRoute {
	route := extractRoute(text)
	route.From, route.To = r.resolvePair(ctx, route.FromText, route.ToText)
	return route
}

func containsNormalized(list []string, q string) bool {
	for _, v := range list {
		if lexical.Normalize(v) == q {
			return true
		}
	}
	return false
}
