package correction

import (
	"regexp"
	"strings"
	"unicode"
)

// error markers: text matching one of them is not clean even after rules.
var markers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(could|should|would|must|might)\s+of\b`),
	regexp.MustCompile(`(?i)\b(alot|irregardless|seperate|definately|recieve)\b`),
	regexp.MustCompile(`(?i)\b(more|less)\s+(better|worse)\b`),
	regexp.MustCompile(`(?i)\b(should|would|could|must|can|will|may|might)\s+(has|goes|does|is)\b`),
	regexp.MustCompile(`(?i)\b(he|she|it)\s+don't\b`),
	regexp.MustCompile(`(?i)\b(I|you|we|they)\s+(has|does)\b`),
	regexp.MustCompile(`(?i)\b(you|we|they)\s+was\b`),
}

// hasErrorMarker reports that text is likely to have errors which rules cannot fix.
func hasErrorMarker(text string) bool {
	for _, m := range markers {
		if m.MatchString(text) {
			return true
		}
	}
	return hasRepeatedWord(text)
}

// words which can be doubled correctly ("I had had enough").
var allowedRepeats = map[string]bool{"had": true, "that": true}

// hasRepeatedWord detects "the the" like mistakes.
func hasRepeatedWord(text string) bool {
	prev := ""
	for _, w := range strings.Fields(text) {
		word := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r)
		}))
		if word == "" {
			prev = ""
			continue
		}
		if word == prev && !allowedRepeats[word] {
			return true
		}
		prev = word
		if isPunctuated(w) {
			prev = ""
		}
	}
	return false
}

// isPunctuated reports the word ends a clause ("that, that" is fine).
func isPunctuated(w string) bool {
	if w == "" {
		return false
	}
	switch w[len(w)-1] {
	case '.', ',', ';', ':', '!', '?':
		return true
	}
	return false
}
