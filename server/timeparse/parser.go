// Package timeparse turns natural-language reminder requests into absolute
// UTC instants.
//
// Matching is strictly ordered so results are deterministic: an intent gate
// first, then the unambiguous "in N unit" pattern, then a general
// natural-language fallback. Text without a reminder intent is never parsed.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/hrygo/recall/server/timezone"
)

// intentPhrases are the fixed markers that make a message a reminder
// request. Detection is deliberately phrase-based; no language model is
// involved. When several phrases occur, the first by position wins for
// stripping.
var intentPhrases = []string{
	"remind me",
	"set a reminder",
	"don't let me forget",
	"dont let me forget",
	"remember to",
}

// relativePattern is the deterministic relative rule: "in N unit". It is
// preferred over the general parser because it is unambiguous and
// locale-independent.
var relativePattern = regexp.MustCompile(`(?i)\bin\s+(\d+)\s+(second|minute|hour|day)s?\b`)

var relativeUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// Result is a parsed reminder request.
type Result struct {
	// DueAt is the computed absolute instant, in UTC.
	DueAt time.Time
	// Message is the residual reminder text after stripping the intent
	// phrase. Never empty: if stripping empties the text, the original is
	// kept.
	Message string
	// LocalDisplay is the fixed-format local rendering for confirmation,
	// e.g. "2026-08-29 18:30:00 (Asia/Dubai)". Display only.
	LocalDisplay string
}

// Parser resolves reminder requests against a conversation timezone.
type Parser struct {
	nl *when.Parser
}

// New creates a parser with the English and common natural-language rules.
func New() *Parser {
	nl := when.New(nil)
	nl.Add(en.All...)
	nl.Add(common.All...)
	return &Parser{nl: nl}
}

// Parse resolves text into a due instant using the given timezone and
// reference instant. Returns (nil, false) when the text is not a reminder
// request or carries no recognizable time expression; that is a normal
// outcome, not an error.
//
// A resolved instant in the past is returned as-is: the parser forwards the
// underlying interpretation and does not re-validate past-vs-future.
func (p *Parser) Parse(text, tz string, now time.Time) (*Result, bool) {
	phrase, phraseIndex := firstIntentPhrase(text)
	if phrase == "" {
		return nil, false
	}

	loc, err := timezone.ParseTimezone(tz)
	if err != nil {
		loc = timezone.UTC
		tz = "UTC"
	}
	localNow := now.In(loc)

	due, ok := p.resolveInstant(text, localNow)
	if !ok {
		return nil, false
	}

	return &Result{
		DueAt:        due.UTC(),
		Message:      stripIntentPhrase(text, phrase, phraseIndex),
		LocalDisplay: timezone.FormatLocal(due, tz),
	}, true
}

// resolveInstant applies the ordered matching rules to find a due instant.
func (p *Parser) resolveInstant(text string, localNow time.Time) (time.Time, bool) {
	if m := relativePattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			unit := relativeUnits[strings.ToLower(m[2])]
			return localNow.Add(time.Duration(n) * unit), true
		}
	}

	r, err := p.nl.Parse(text, localNow)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// firstIntentPhrase returns the earliest intent phrase occurring in the
// text, case-insensitively, along with its position.
func firstIntentPhrase(text string) (string, int) {
	lower := strings.ToLower(text)
	best, bestIndex := "", -1
	for _, phrase := range intentPhrases {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			if bestIndex < 0 || idx < bestIndex {
				best, bestIndex = phrase, idx
			}
		}
	}
	return best, bestIndex
}

// stripIntentPhrase removes the phrase occurrence at its matched position
// (not merely a prefix) and tidies the residue. An empty residue falls back
// to the original text so a reminder never stores an empty body.
func stripIntentPhrase(text, phrase string, index int) string {
	if index < 0 || index+len(phrase) > len(text) {
		return strings.TrimSpace(text)
	}
	residual := text[:index] + text[index+len(phrase):]
	residual = strings.Join(strings.Fields(residual), " ")
	residual = strings.TrimSpace(strings.TrimPrefix(residual, "to "))
	if residual == "" {
		return strings.TrimSpace(text)
	}
	return residual
}
