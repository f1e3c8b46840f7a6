package timeparse

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RelativeSecondsInDubai(t *testing.T) {
	p := New()
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	result, ok := p.Parse("remind me in 10 seconds to stretch", "Asia/Dubai", now)
	require.True(t, ok)

	expected := now.Add(10 * time.Second)
	diff := result.DueAt.Sub(expected)
	if diff < 0 {
		diff = -diff
	}
	assert.LessOrEqual(t, diff, time.Second)

	assert.Equal(t, time.UTC, result.DueAt.Location())
	assert.True(t, strings.HasSuffix(result.LocalDisplay, "(Asia/Dubai)"), "got %q", result.LocalDisplay)
	assert.Contains(t, result.Message, "stretch")
	assert.NotContains(t, strings.ToLower(result.Message), "remind me")
}

func TestParse_RelativeUnits(t *testing.T) {
	p := New()
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		text string
		want time.Duration
	}{
		{"remind me in 1 second to blink", time.Second},
		{"remind me in 5 minutes to check the oven", 5 * time.Minute},
		{"set a reminder in 2 hours for the standup", 2 * time.Hour},
		{"don't let me forget in 3 days to renew the visa", 3 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result, ok := p.Parse(tt.text, "UTC", now)
			require.True(t, ok)
			assert.True(t, result.DueAt.Equal(now.Add(tt.want)),
				"want %s, got %s", now.Add(tt.want), result.DueAt)
		})
	}
}

func TestParse_NoIntentIsNotAReminder(t *testing.T) {
	p := New()
	now := time.Now()

	// A time expression alone does not make a reminder request.
	_, ok := p.Parse("the meeting is in 10 minutes", "UTC", now)
	assert.False(t, ok)

	_, ok = p.Parse("tomorrow should be sunny", "UTC", now)
	assert.False(t, ok)
}

func TestParse_IntentWithoutTimeExpression(t *testing.T) {
	p := New()

	_, ok := p.Parse("remind me to be kind", "UTC", time.Now())
	assert.False(t, ok)
}

func TestParse_NaturalLanguageFallback(t *testing.T) {
	p := New()
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	result, ok := p.Parse("remind me tomorrow at 6pm to water the plants", "UTC", now)
	require.True(t, ok)
	assert.True(t, result.DueAt.After(now))
	assert.True(t, result.DueAt.Before(now.Add(48*time.Hour)))
}

func TestParse_TimezoneShiftsTheWallClock(t *testing.T) {
	p := New()
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	utcResult, ok := p.Parse("remind me in 1 hour to call back", "UTC", now)
	require.True(t, ok)
	dubaiResult, ok := p.Parse("remind me in 1 hour to call back", "Asia/Dubai", now)
	require.True(t, ok)

	// Same absolute instant either way; only the display differs.
	assert.True(t, utcResult.DueAt.Equal(dubaiResult.DueAt))
	assert.True(t, strings.HasSuffix(utcResult.LocalDisplay, "(UTC)"))
	assert.True(t, strings.HasSuffix(dubaiResult.LocalDisplay, "(Asia/Dubai)"))

	// Dubai is four hours ahead of UTC: 15:30 UTC renders as 19:30.
	assert.Equal(t, fmt.Sprintf("2026-08-29 19:30:00 (%s)", "Asia/Dubai"), dubaiResult.LocalDisplay)
}

func TestParse_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	p := New()
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	result, ok := p.Parse("remind me in 10 minutes to log off", "Mars/Crater", now)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(result.LocalDisplay, "(UTC)"))
}

func TestFirstIntentPhrase_EarliestWins(t *testing.T) {
	phrase, idx := firstIntentPhrase("don't let me forget to remind me in 5 minutes")
	assert.Equal(t, "don't let me forget", phrase)
	assert.Equal(t, 0, idx)

	phrase, idx = firstIntentPhrase("hey, Remind Me in 2 hours")
	assert.Equal(t, "remind me", phrase)
	assert.Equal(t, 5, idx)

	phrase, idx = firstIntentPhrase("nothing to see here")
	assert.Equal(t, "", phrase)
	assert.Equal(t, -1, idx)
}

func TestStripIntentPhrase(t *testing.T) {
	got := stripIntentPhrase("remind me in 10 seconds to stretch", "remind me", 0)
	assert.Equal(t, "in 10 seconds to stretch", got)

	// Mid-sentence occurrence is removed in place, not just as a prefix.
	got = stripIntentPhrase("please remind me in 2 hours about lunch", "remind me", 7)
	assert.Equal(t, "please in 2 hours about lunch", got)

	// Leading "to " of the residue is dropped.
	got = stripIntentPhrase("don't let me forget to pay rent", "don't let me forget", 0)
	assert.Equal(t, "pay rent", got)

	// An empty residue falls back to the original text.
	got = stripIntentPhrase("remind me", "remind me", 0)
	assert.Equal(t, "remind me", got)
}
