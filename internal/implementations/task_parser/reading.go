package taskparser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/olebedev/when/rules"
)

// Hiragana readings like きょう or あす also occur inside ordinary words
// (べんきょう, あすなろ). A reading counts as a date only when each side is
// either not hiragana or a particle.
var (
	particlesBeforeReading = []string{"の", "は", "に", "を", "が", "で", "と", "も", "へ", "や"}
	particlesAfterReading  = []string{"まで", "に", "は", "の", "が", "も", "で", "と"}
)

// readingRule hides embedded readings from the wrapped rule. Masking keeps
// byte offsets, so the match positions still index the original text.
type readingRule struct {
	re   *regexp.Regexp
	rule *rules.F
}

func (r readingRule) Find(text string) *rules.Match {
	return r.rule.Find(maskEmbeddedReadings(r.re, text))
}

func maskEmbeddedReadings(re *regexp.Regexp, text string) string {
	var masked []byte
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if !embeddedReading(text, loc[0], loc[1]) {
			continue
		}
		if masked == nil {
			masked = []byte(text)
		}
		for i := loc[0]; i < loc[1]; i++ {
			masked[i] = 0
		}
	}
	if masked == nil {
		return text
	}
	return string(masked)
}

// standaloneMatches is FindAllStringIndex without embedded readings.
func standaloneMatches(re *regexp.Regexp, text string) [][]int {
	result := make([][]int, 0)
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if !embeddedReading(text, loc[0], loc[1]) {
			result = append(result, loc)
		}
	}
	return result
}

func removeStandalone(re *regexp.Regexp, text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range standaloneMatches(re, text) {
		b.WriteString(text[last:loc[0]])
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func embeddedReading(text string, start int, end int) bool {
	if start == end {
		return false
	}
	for _, r := range text[start:end] {
		if !isHiragana(r) {
			return false
		}
	}
	before, after := text[:start], text[end:]
	if r, _ := utf8.DecodeLastRuneInString(before); before != "" && isHiragana(r) && !hasAnySuffix(before, particlesBeforeReading) {
		return true
	}
	if r, _ := utf8.DecodeRuneInString(after); after != "" && isHiragana(r) && !hasAnyPrefix(after, particlesAfterReading) {
		return true
	}
	return false
}

func isHiragana(r rune) bool {
	return unicode.Is(unicode.Hiragana, r)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, p := range suffixes {
		if strings.HasSuffix(s, p) {
			return true
		}
	}
	return false
}
