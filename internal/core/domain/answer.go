package domain

import (
	"regexp"
	"strings"
)

// Answer is the structured result of one query: the grounded answer
// text, the follow-up questions proposed to the asker, and the
// retrieved sources the answer was grounded on.
type Answer struct {
	Text      string      `json:"answer"`
	FollowUps []string    `json:"follow_ups"`
	Sources   []SourceRef `json:"sources"`
}

// SourceRef cites one retrieved chunk: its origin document and a
// bounded excerpt, in retrieval-rank order.
type SourceRef struct {
	Source  string `json:"source"`
	Excerpt string `json:"excerpt"`
}

// Follow-up marker grammar. The model is instructed to wrap each
// follow-up question in a single pair of angle brackets, optionally
// introduced by a "FOLLOW-UP SUGGESTIONS:" label line. Both the
// markers and the label are stripped from the clean answer. This
// convention must match what UI collaborators extract, so the
// patterns mirror theirs exactly.
var (
	followUpMarker = regexp.MustCompile(`<([^>]+)>`)
	followUpLabel  = regexp.MustCompile(`(?i)FOLLOW-UP SUGGESTIONS?:`)
)

// ParseCompletion splits a raw model completion into the clean answer
// text and the follow-up questions embedded in <...> markers.
// A completion without markers is not an error: the trimmed text is
// returned with zero follow-ups. Malformed markers degrade the same
// way rather than failing the whole answer.
func ParseCompletion(raw string) (answer string, followUps []string) {
	for _, m := range followUpMarker.FindAllStringSubmatch(raw, -1) {
		q := strings.TrimSpace(m[1])
		if q != "" {
			followUps = append(followUps, q)
		}
	}

	answer = followUpMarker.ReplaceAllString(raw, "")
	answer = followUpLabel.ReplaceAllString(answer, "")
	return strings.TrimSpace(answer), followUps
}

// Excerpt truncates text to at most n bytes. Truncation is a plain
// character cut, not word-boundary aware, to stay bit-compatible with
// excerpts produced by earlier deployments.
func Excerpt(text string, n int) string {
	if n <= 0 || len(text) <= n {
		return text
	}
	return text[:n]
}
