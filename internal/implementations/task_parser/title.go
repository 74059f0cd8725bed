package taskparser

import (
	"linetask/internal/core/domain/task"
	"regexp"
	"strings"
	"unicode"
)

var (
	// Particles joining the date phrase to the text after it.
	followingParticles = []string{"までに", "まで", "には", "に", "は", "の"}
	// Particles joining the text before the date phrase to it.
	precedingParticles = []string{"の", "は"}

	// Date phrases outside of the matched cluster.
	leftoverPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}年\d{1,2}月\d{1,2}日`),
		regexp.MustCompile(`\d{1,2}月\d{1,2}日`),
		regexp.MustCompile(`今日|きょう`),
		regexp.MustCompile(`明後日|あさって`),
		regexp.MustCompile(`明日|あした`),
		regexp.MustCompile(`\d{1,2}日後`),
		regexp.MustCompile(`\d{1,2}日間`),
		regexp.MustCompile(`週末|しゅうまつ`),
		regexp.MustCompile(`来週|らいしゅう`),
		regexp.MustCompile(`来月|らいげつ`),
		regexp.MustCompile(`\d{1,2}日まで`),
		regexp.MustCompile(`までに`),
	}
)

// expandSpan grows [start, end) until it covers every rule match touching it.
func expandSpan(text string, start int, end int) (int, int) {
	for changed := true; changed; {
		changed = false
		for _, r := range japaneseRules {
			for _, loc := range standaloneMatches(r.re, text) {
				if loc[0] > end || loc[1] < start {
					continue
				}
				if loc[0] < start {
					start, changed = loc[0], true
				}
				if loc[1] > end {
					end, changed = loc[1], true
				}
			}
		}
	}
	return start, end
}

func extractTitle(text string, start int, end int) string {
	left := trimRightConnectors(text[:start])
	right := trimLeftConnectors(text[end:])

	title := left
	if needsSpace(left, right) {
		title += " "
	}
	title += right

	stripped := title
	for _, p := range leftoverPatterns {
		stripped = removeStandalone(p, stripped)
	}
	if stripped != title {
		title = trimRightConnectors(trimLeftConnectors(stripped))
	}
	if title == "" {
		return task.DefaultTitle
	}
	return title
}

// trimLeftConnectors drops separators and at most one particle, so a title
// starting with a particle kana like のり keeps it.
func trimLeftConnectors(s string) string {
	s = strings.TrimLeftFunc(s, isSeparator)
	for _, p := range followingParticles {
		if strings.HasPrefix(s, p) {
			s = s[len(p):]
			break
		}
	}
	return strings.TrimLeftFunc(s, isSeparator)
}

func trimRightConnectors(s string) string {
	s = strings.TrimRightFunc(s, isSeparator)
	for _, p := range precedingParticles {
		if strings.HasSuffix(s, p) {
			s = s[:len(s)-len(p)]
			break
		}
	}
	return strings.TrimRightFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '、' || r == ','
}

func needsSpace(left string, right string) bool {
	if left == "" || right == "" {
		return false
	}
	l := []rune(left)
	r := []rune(right)
	return isASCIIWord(l[len(l)-1]) && isASCIIWord(r[0])
}

func isASCIIWord(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
