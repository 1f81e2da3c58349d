// Package rules holds the publisher compliance rule set: the hard limits,
// the banned-word configuration, and the validator that checks a content
// bundle against all of them.
package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Hard limits imposed by the publisher.
const (
	TitleMaxLen     = 150
	BulletCount     = 8
	BulletMaxLen    = 85
	DescMinWords    = 120
	DescMaxWords    = 160
	MetaTitleMaxLen = 70
	MetaDescMaxLen  = 160
)

// safeSynonyms maps every banned term to its approved replacement. The base
// set covers category-restricted terms; the rest are marketing superlatives.
// Every replacement is itself clean, so one substitution pass is exhaustive.
var safeSynonyms = map[string]string{
	// base set
	"cosplay": "costume",
	"weapon":  "tool",
	"knife":   "blade",
	"uv":      "protective",

	// marketing superlatives
	"perfect":       "great",
	"premium":       "high-quality",
	"superior":      "durable",
	"exceptional":   "reliable",
	"outstanding":   "great",
	"remarkable":    "reliable",
	"excellent":     "efficient",
	"amazing":       "innovative",
	"fantastic":     "quality",
	"incredible":    "effective",
	"wonderful":     "dependable",
	"brilliant":     "sturdy",
	"magnificent":   "robust",
	"spectacular":   "consistent",
	"extraordinary": "trustworthy",
	"phenomenal":    "reliable",
}

// medicalStems are the claim words the publisher rejects anywhere in listing
// text, matched as whole words, case-insensitive.
var medicalStems = []string{
	"cure", "cures", "heal", "heals", "treat", "treats",
	"prevent", "prevents", "remedy", "remedies", "diagnose", "diagnoses",
	"therapy", "therapeutic",
}

var (
	bannedPatterns  map[string]*regexp.Regexp
	medicalPatterns []*regexp.Regexp
	bannedOrdered   []string
)

func init() {
	bannedPatterns = make(map[string]*regexp.Regexp, len(safeSynonyms))
	for word := range safeSynonyms {
		bannedPatterns[word] = wordPattern(word)
		bannedOrdered = append(bannedOrdered, word)
	}
	sort.Strings(bannedOrdered)

	for _, stem := range medicalStems {
		medicalPatterns = append(medicalPatterns, wordPattern(stem))
	}
}

func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

// BannedWords returns the banned terms in deterministic order.
func BannedWords() []string {
	return append([]string(nil), bannedOrdered...)
}

// SafeSynonym returns the approved replacement for a banned term.
func SafeSynonym(word string) (string, bool) {
	syn, ok := safeSynonyms[strings.ToLower(word)]
	return syn, ok
}

// FindBannedWords returns the banned terms present in text as whole words, in
// deterministic order.
func FindBannedWords(text string) []string {
	var found []string
	for _, word := range bannedOrdered {
		if bannedPatterns[word].MatchString(text) {
			found = append(found, word)
		}
	}
	return found
}

// ReplaceBannedWords substitutes every banned term in text with its safe
// synonym, whole-word and case-insensitive.
func ReplaceBannedWords(text string) string {
	for _, word := range bannedOrdered {
		text = bannedPatterns[word].ReplaceAllString(text, safeSynonyms[word])
	}
	return text
}

// ContainsMedicalClaim reports whether text carries any medical-claim stem.
func ContainsMedicalClaim(text string) bool {
	for _, p := range medicalPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// WordCount counts whitespace-separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Length counts characters, not bytes, since the publisher limits are
// character limits.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// ContainsFold reports whether s contains substr case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
