package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/nova/internal/models"
)

func TestSeedAllIfEmpty_Idempotent(t *testing.T) {
	store := newTestStore(t)

	seeds, err := SeedTemplates()
	require.NoError(t, err)
	require.NotEmpty(t, seeds)

	require.NoError(t, SeedAllIfEmpty(store))
	first := store.TemplatesFor(models.KindGreeting, "en")
	assert.Equal(t, len(seeds), store.TemplateCount())
	assert.GreaterOrEqual(t, len(first), 8)

	require.NoError(t, SeedAllIfEmpty(store))
	assert.Equal(t, len(seeds), store.TemplateCount())
	assert.Equal(t, first, store.TemplatesFor(models.KindGreeting, "en"))
}

func TestSeedTemplates_CoversKinds(t *testing.T) {
	seeds, err := SeedTemplates()
	require.NoError(t, err)

	kinds := map[models.TemplateKind]int{}
	for _, s := range seeds {
		kinds[s.Kind]++
		assert.Equal(t, "en", s.Locale)
	}
	for _, k := range []models.TemplateKind{models.KindGreeting, models.KindCheckin, models.KindBirthday, models.KindFestival} {
		assert.NotZero(t, kinds[k], "missing %s", k)
	}
}

func TestBuildDraft_NoRepeatWithinWindow(t *testing.T) {
	store := newTestStore(t,
		tmpl(models.KindGreeting, "Alpha hello."),
		tmpl(models.KindGreeting, "Beta hello."),
		tmpl(models.KindGreeting, "Gamma hello."),
		tmpl(models.KindGreeting, "Delta hello."),
	)
	engine := NewDraftEngine(store, nil)

	var ids []int64
	for i := 0; i < 12; i++ {
		d, err := engine.BuildDraft(models.KindGreeting, DraftOptions{Locale: "en"})
		require.NoError(t, err)
		ids = append(ids, d.TemplateID)
	}

	for i := range ids {
		for j := max(0, i-RecentIDWindow); j < i; j++ {
			assert.NotEqual(t, ids[j], ids[i], "draw %d repeated draw %d", i, j)
		}
	}
}

func TestBuildDraft_SingleTemplateNeverBlocks(t *testing.T) {
	store := newTestStore(t, tmpl(models.KindCheckin, "Only one here."))
	engine := NewDraftEngine(store, nil)

	var first int64
	for i := 0; i < 5; i++ {
		d, err := engine.BuildDraft(models.KindCheckin, DraftOptions{})
		require.NoError(t, err)
		if i == 0 {
			first = d.TemplateID
		}
		assert.Equal(t, first, d.TemplateID)
		assert.Equal(t, "Only one here.", d.Text)
	}
}

func TestBuildDraft_RotatesLastIDs(t *testing.T) {
	store := newTestStore(t,
		tmpl(models.KindGreeting, "One."),
		tmpl(models.KindGreeting, "Two."),
		tmpl(models.KindGreeting, "Three."),
		tmpl(models.KindGreeting, "Four."),
		tmpl(models.KindGreeting, "Five."),
	)
	engine := NewDraftEngine(store, nil)

	var ids []int64
	for i := 0; i < 4; i++ {
		d, err := engine.BuildDraft(models.KindGreeting, DraftOptions{})
		require.NoError(t, err)
		ids = append(ids, d.TemplateID)
	}

	want := joinIDs([]int64{ids[3], ids[2], ids[1]}, RecentIDWindow)
	assert.Equal(t, want, store.UsageGet(models.LastIDsKey(models.KindGreeting)))
}

func TestBuildDraft_AvoidsRecentOpeners(t *testing.T) {
	store := newTestStore(t,
		tmpl(models.KindGreeting, "Hey {name}, big day? Tell me."),
		tmpl(models.KindGreeting, "Welcome back. Missed you."),
	)
	engine := NewDraftEngine(store, nil)

	d, err := engine.BuildDraft(models.KindGreeting, DraftOptions{AvoidOpeners: []string{"  HEY THERE, BIG DAY "}})
	require.NoError(t, err)
	assert.Equal(t, "Welcome back. Missed you.", d.Text)
	assert.Equal(t, "Welcome back", d.Opener)
}

func TestBuildDraft_FillsPlaceholders(t *testing.T) {
	store := newTestStore(t, tmpl(models.KindFestival, "{name}, good {day_part} and happy {festival}!"))
	store.RememberFact("me", "name", "Keerthi")

	engine := NewDraftEngine(store, nil)
	engine.now = func() time.Time { return time.Date(2025, 10, 20, 15, 0, 0, 0, time.Local) }

	d, err := engine.BuildDraft(models.KindFestival, DraftOptions{Festival: "Diwali"})
	require.NoError(t, err)
	assert.Equal(t, "Keerthi, good afternoon and happy Diwali!", d.Text)
}

func TestBuildDraft_DefaultName(t *testing.T) {
	store := newTestStore(t, tmpl(models.KindCheckin, "Hi {name}{festival}."))
	engine := NewDraftEngine(store, nil)

	d, err := engine.BuildDraft(models.KindCheckin, DraftOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Hi there.", d.Text)
}

func TestBuildDraft_NoTemplates(t *testing.T) {
	engine := NewDraftEngine(newTestStore(t), nil)
	_, err := engine.BuildDraft(models.KindBirthday, DraftOptions{})
	assert.ErrorIs(t, err, ErrNoTemplates)
}

func TestDayPart(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{17, "afternoon"},
		{18, "evening"},
		{23, "evening"},
	}
	for _, tt := range tests {
		got := DayPart(time.Date(2025, 1, 1, tt.hour, 30, 0, 0, time.UTC))
		assert.Equal(t, tt.want, got, "hour %d", tt.hour)
	}
}

func TestParseIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, parseIDs("3,1,2"))
	assert.Nil(t, parseIDs(""))
	assert.Equal(t, []int64{4}, parseIDs("x,4,"))
	assert.Equal(t, "5,4,3", joinIDs([]int64{5, 4, 3, 2}, 3))
}
