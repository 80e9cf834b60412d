package intent

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// slotKeywords maps message words to canonical slot types.
var slotKeywords = []struct {
	word string
	slot string
}{
	{"breakfast", "breakfast"},
	{"brunch", "breakfast"},
	{"morning", "morning"},
	{"lunch", "lunch"},
	{"noon", "lunch"},
	{"afternoon", "afternoon"},
	{"dinner", "dinner"},
	{"evening", "evening"},
	{"tonight", "evening"},
	{"night", "evening"},
}

var ordinalDays = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

var (
	dayNumberRe = regexp.MustCompile(`\bday\s+(\d+)\b`)
	toDayRe     = regexp.MustCompile(`\bto\s+day\s+(\d+)\b`)
	ordinalRe   = regexp.MustCompile(`\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+day\b`)
	quotedRe    = regexp.MustCompile(`["'“”]([^"'“”]{2,80})["'“”]`)
)

// stopWords are command and filler words excluded from the capitalized-token
// scan for activity names.
var stopWords = map[string]struct{}{
	"move": {}, "add": {}, "remove": {}, "delete": {}, "replace": {},
	"swap": {}, "lock": {}, "unlock": {}, "pin": {}, "cancel": {},
	"drop": {}, "skip": {}, "undo": {}, "redo": {}, "suggest": {},
	"optimize": {}, "optimise": {}, "balance": {}, "cluster": {},
	"day": {}, "days": {}, "the": {}, "a": {}, "an": {}, "to": {},
	"from": {}, "on": {}, "in": {}, "at": {}, "of": {}, "for": {},
	"and": {}, "with": {}, "please": {}, "can": {}, "could": {},
	"would": {}, "you": {}, "i": {}, "my": {}, "me": {}, "we": {},
	"morning": {}, "breakfast": {}, "lunch": {}, "afternoon": {},
	"dinner": {}, "evening": {}, "tonight": {}, "night": {},
	"what": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"is": {}, "are": {}, "it": {}, "this": {}, "that": {},
	"first": {}, "second": {}, "third": {}, "fourth": {}, "fifth": {},
	"earlier": {}, "later": {}, "instead": {},
}

// extractSlot finds a slot-type keyword. A "to <slot>" phrasing is preferred
// over a bare occurrence so "move lunch to evening" targets the evening.
func extractSlot(lower string) string {
	for _, kw := range slotKeywords {
		if strings.Contains(lower, "to "+kw.word) || strings.Contains(lower, "to the "+kw.word) {
			return kw.slot
		}
	}
	for _, kw := range slotKeywords {
		if regexp.MustCompile(`\b` + kw.word + `\b`).MatchString(lower) {
			return kw.slot
		}
	}
	return ""
}

// extractDays returns the referenced day number and, for move phrasings, the
// target day.
func extractDays(lower string) (dayNumber, toDay int) {
	if m := toDayRe.FindStringSubmatch(lower); m != nil {
		toDay, _ = strconv.Atoi(m[1])
	}
	for _, m := range dayNumberRe.FindAllStringSubmatch(lower, -1) {
		n, _ := strconv.Atoi(m[1])
		if n == toDay {
			continue
		}
		dayNumber = n
		break
	}
	if dayNumber == 0 {
		if m := ordinalRe.FindStringSubmatch(lower); m != nil {
			dayNumber = ordinalDays[m[1]]
		}
	}
	return dayNumber, toDay
}

// extractActivities pulls candidate activity names from the original-case
// message: quoted substrings first, then maximal runs of capitalized tokens
// that survive the stop-list. Up to two names are returned in message order
// so swap phrasings get both operands.
func extractActivities(message string) []string {
	var names []string
	for _, m := range quotedRe.FindAllStringSubmatch(message, 2) {
		names = append(names, strings.TrimSpace(m[1]))
	}
	if len(names) >= 2 {
		return names[:2]
	}

	tokens := strings.Fields(message)
	var run []string
	flush := func() {
		if len(run) > 0 {
			names = append(names, strings.Join(run, " "))
			run = nil
		}
	}
	for _, tok := range tokens {
		word := strings.Trim(tok, ".,!?:;\"'()")
		if word == "" {
			flush()
			continue
		}
		if _, stop := stopWords[strings.ToLower(word)]; stop {
			flush()
			continue
		}
		if capitalized(word) {
			run = append(run, word)
			continue
		}
		flush()
	}
	flush()

	if len(names) > 2 {
		names = names[:2]
	}
	return names
}

func capitalized(word string) bool {
	runes := []rune(word)
	return len(runes) > 0 && unicode.IsUpper(runes[0])
}
