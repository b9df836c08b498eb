package sanitize

import (
	"fmt"
	"regexp"
)

// rule is one entry of an ordered rule table. apply receives the input and
// the index pair of a match and returns the extracted text plus the span to
// remove from the input.
type rule struct {
	name    string
	pattern *regexp.Regexp
	apply   func(s string, loc []int) (extracted string, start, end int)
}

// disclaimerOpeners are the boilerplate phrases that start a disclaimer
// block, in priority order.
var disclaimerOpeners = []string{
	"DISCLAIMER:",
	"CONFIDENTIALITY NOTICE:",
	"LEGAL DISCLAIMER:",
	"This email and any files",
	"The information contained in this",
}

// forwardedTextRules detect a forwarded or quoted block in plain text. Only
// the first matching rule is applied. The marker and its content are removed
// and the content is the forwarded text. A separator's content ends at the
// next dashed line, such as a "-- " signature delimiter; a header block's
// content runs to the end.
var forwardedTextRules = []rule{
	{
		name:    "forwarded-separator",
		pattern: regexp.MustCompile(`(?m)^-+[ \t]*Forwarded message[ \t]*-+[ \t]*$`),
		apply:   contentToDashedLine,
	},
	{
		name:    "original-separator",
		pattern: regexp.MustCompile(`(?m)^-+[ \t]*Original Message[ \t]*-+[ \t]*$`),
		apply:   contentToDashedLine,
	},
	{
		name:    "header-block",
		pattern: regexp.MustCompile(`(?ms)^From:.*?^Sent:.*?^To:.*?^Subject:[^\n]*$`),
		apply:   trailingContent,
	},
}

var dashedLine = regexp.MustCompile(`(?m)^-+`)

// trailingContent extracts what follows the marker up to the end of s and
// removes the marker together with that content.
func trailingContent(s string, loc []int) (string, int, int) {
	return s[loc[1]:], loc[0], len(s)
}

// contentToDashedLine extracts what follows the marker up to the start of
// the next line beginning with '-', or the end of s.
func contentToDashedLine(s string, loc []int) (string, int, int) {
	end := len(s)
	if next := dashedLine.FindStringIndex(s[loc[1]:]); next != nil {
		end = loc[1] + next[0]
	}
	return s[loc[1]:end], loc[0], end
}

// wholeMatch extracts the match itself.
func wholeMatch(s string, loc []int) (string, int, int) {
	return s[loc[0]:loc[1]], loc[0], loc[1]
}

// disclaimerTextRules match a line starting with an opener and the rest of
// its paragraph, which ends at the next blank line.
var disclaimerTextRules = buildRules(`(?m)^%s[^\n]*(?:\n[ \t]*\S[^\n]*)*`)

// disclaimerHTMLRules match a div whose content starts with an opener.
var disclaimerHTMLRules = buildRules(`(?s)<div[^>]*>\s*%s.*?</div>`)

func buildRules(format string) []rule {
	rules := make([]rule, 0, len(disclaimerOpeners))
	for _, opener := range disclaimerOpeners {
		rules = append(rules, rule{
			name:    opener,
			pattern: regexp.MustCompile(fmt.Sprintf(format, regexp.QuoteMeta(opener))),
			apply:   wholeMatch,
		})
	}
	return rules
}
