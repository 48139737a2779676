// ABOUTME: Tests for airport, app alias and flight route resolution
// ABOUTME: Uses the embedded tables shipped with the binary
package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := New(nil)
	require.NoError(t, err)
	return r
}

func TestResolveAirport(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		in       string
		wantIATA string
	}{
		{"BLR", "BLR"},
		{"bangalore", "BLR"},
		{"Bengaluru", "BLR"},
		{"new delhi", "DEL"},
		{"Bombay", "BOM"},
		{"hyderabadd", "HYD"},
		{"São Paulo", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := r.ResolveAirport(tt.in)
			if tt.wantIATA == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantIATA, got.IATA)
		})
	}
}

func TestResolveAppAlias(t *testing.T) {
	r := newResolver(t)

	id, ok := r.ResolveAppAlias("Swiggy")
	assert.True(t, ok)
	assert.Equal(t, "in.swiggy.android", id)

	id, ok = r.ResolveAppAlias("google maps")
	assert.True(t, ok)
	assert.Equal(t, "com.google.android.apps.maps", id)

	id, ok = r.ResolveAppAlias("zomato tonight")
	assert.True(t, ok)
	assert.Equal(t, "com.application.zomato", id)

	id, ok = r.ResolveAppAlias("flipcart")
	assert.True(t, ok, "fuzzy match within threshold")
	assert.Equal(t, "com.flipkart.android", id)

	_, ok = r.ResolveAppAlias("the fridge")
	assert.False(t, ok)
}

func TestParseFlight(t *testing.T) {
	r := newResolver(t)
	ctx := context.Background()

	t.Run("from and to", func(t *testing.T) {
		route := r.ParseFlight(ctx, "book a flight from Bangalore to Delhi tomorrow")
		assert.Equal(t, "bangalore", route.FromText)
		assert.Equal(t, "delhi", route.ToText)
		assert.Equal(t, "tomorrow", route.DateText)
		require.NotNil(t, route.From)
		require.NotNil(t, route.To)
		assert.Equal(t, "BLR", route.From.IATA)
		assert.Equal(t, "DEL", route.To.IATA)
	})

	t.Run("reversed order", func(t *testing.T) {
		route := r.ParseFlight(ctx, "flight to mumbai from chennai on friday 12")
		assert.Equal(t, "chennai", route.FromText)
		assert.Equal(t, "mumbai", route.ToText)
		assert.Equal(t, "on friday 12", route.DateText)
	})

	t.Run("bare pair", func(t *testing.T) {
		route := r.ParseFlight(ctx, "book flight goa to pune")
		assert.Equal(t, "goa", route.FromText)
		assert.Equal(t, "pune", route.ToText)
		require.NotNil(t, route.From)
		assert.Equal(t, "GOI", route.From.IATA)
	})

	t.Run("unknown cities stay unresolved", func(t *testing.T) {
		route := r.ParseFlight(ctx, "flight from atlantis to el dorado")
		assert.Equal(t, "atlantis", route.FromText)
		assert.Equal(t, "el dorado", route.ToText)
		assert.Nil(t, route.From)
		assert.Nil(t, route.To)
	})
}
