package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// stripRules run in order. Headings go before newline collapsing, images
// before links.
var stripRules = []rule{
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`), ""},
	{regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`), ""},
	{regexp.MustCompile(`\[(.*?)\]\((.*?)\)`), "$1"},
	{regexp.MustCompile("`(.*?)`"), "$1"},
	{regexp.MustCompile(`(?m)^[ \t]*-[ \t]+`), "• "},
	{regexp.MustCompile(`(?m)^[ \t]*\*[ \t]+`), "• "},
	{regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// SummaryLength is the number of runes of content a summary is cut from.
const SummaryLength = 200

// Strip removes markdown emphasis, headings, links, images, inline code and
// list markers from generated text. Bullets become "• ", numbered markers are
// dropped, and runs of 3+ newlines collapse to 2.
//
// The rule pass repeats until the text stops changing, so Strip is
// idempotent. Every rule either shortens the text or consumes a '-' or '*',
// which bounds the loop.
func Strip(s string) string {
	for {
		next := stripOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func stripOnce(s string) string {
	for _, r := range stripRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}

// Summarize derives a one-line summary from already stripped content:
// the first SummaryLength runes, stripped again, residual backticks and "##"
// removed, whitespace collapsed, then "..." appended.
func Summarize(content string) string {
	s := truncateRunes(content, SummaryLength)
	for {
		next := cleanSummary(s)
		if next == s {
			break
		}
		s = next
	}
	return s + "..."
}

func cleanSummary(s string) string {
	s = Strip(s)
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, "##", "")
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to n runes and appends "...".
func Truncate(s string, n int) string {
	return truncateRunes(s, n) + "..."
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
