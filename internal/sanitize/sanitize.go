// Package sanitize cleans a canonical message body: it pulls inline objects
// out of HTML, detects forwarded blocks and extracts boilerplate disclaimers.
package sanitize

import (
	"strings"
)

// Format is the storage format of a sanitized body.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ObjectPlaceholder formats the marker that replaces an inline object in
// cleaned HTML.
func ObjectPlaceholder(id string) string {
	return "[[HTML_OBJECT:" + id + "]]"
}

// Object is an inline image lifted out of an HTML body.
type Object struct {
	ID          string
	ContentType string
	Data        []byte
}

// Result is the outcome of sanitizing one body.
type Result struct {
	Body   string
	Format Format
	// Disclaimers holds each extracted disclaimer once, trimmed, in the
	// order found.
	Disclaimers []string
	Objects     []Object
	// HasForwarded is set when a forwarded block was detected. Forwarded
	// holds its content, which may be empty when only the marker was found.
	HasForwarded bool
	Forwarded    string
	// Warnings lists payloads that could not be decoded and were left in place.
	Warnings []string
}

// Sanitizer applies the body rule tables.
type Sanitizer struct {
	newID func() string
}

// New returns a Sanitizer that names inline objects with newID.
func New(newID func() string) *Sanitizer {
	return &Sanitizer{newID: newID}
}

// Sanitize dispatches on the body format.
func (s *Sanitizer) Sanitize(body string, format Format) (*Result, error) {
	if format == FormatHTML {
		return s.HTML(body)
	}
	return s.Text(body), nil
}

// Text sanitizes a plain-text body. The forwarded block is detected first
// and removed, then disclaimer paragraphs are extracted.
//
// Line endings are normalized to "\n" before any rule runs, so the body,
// the forwarded content and every disclaimer use LF even when the message
// was sent with CRLF. At most one blank line is left where a block was cut.
func (s *Sanitizer) Text(body string) *Result {
	res := &Result{Format: FormatText}
	text := strings.ReplaceAll(body, "\r\n", "\n")

	if fwd, rest, ok := applyFirst(forwardedTextRules, text, joinParagraphs); ok {
		res.HasForwarded = true
		res.Forwarded = strings.TrimSpace(fwd)
		text = rest
	}

	text, res.Disclaimers = extractAll(disclaimerTextRules, text, strings.TrimSpace, joinParagraphs)
	res.Body = strings.TrimSpace(text)
	return res
}

// joinParagraphs rejoins text around a removed span, leaving at most one
// blank line at the cut.
func joinParagraphs(left, right string) string {
	l := strings.TrimRight(left, " \t\n")
	r := strings.TrimLeft(right, "\n")
	if l == "" || r == "" {
		return l + r
	}
	return l + "\n\n" + r
}

func concat(left, right string) string { return left + right }

// applyFirst runs rules in order and applies the first one that matches.
// join rejoins the text on both sides of the removed span.
func applyFirst(rules []rule, s string, join func(left, right string) string) (extracted, rest string, ok bool) {
	for _, r := range rules {
		loc := r.pattern.FindStringIndex(s)
		if loc == nil {
			continue
		}
		extracted, start, end := r.apply(s, loc)
		return extracted, join(s[:start], s[end:]), true
	}
	return "", s, false
}

// extractAll applies every rule in order, removing all of its matches from
// s. render converts a removed span into the stored disclaimer text.
func extractAll(rules []rule, s string, render func(string) string, join func(left, right string) string) (string, []string) {
	var found []string
	seen := make(map[string]bool)
	for _, r := range rules {
		locs := r.pattern.FindAllStringIndex(s, -1)
		if len(locs) == 0 {
			continue
		}
		var out string
		prev := 0
		for _, loc := range locs {
			extracted, start, end := r.apply(s, loc)
			out = join(out, s[prev:start])
			prev = end

			text := render(extracted)
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			found = append(found, text)
		}
		s = join(out, s[prev:])
	}
	return s, found
}
