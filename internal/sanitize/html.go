package sanitize

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// forwardMarkers are text fragments that introduce a forwarded block in
// HTML bodies, in priority order.
var forwardMarkers = []string{
	"Forwarded message",
	"Original Message",
	"Begin forwarded message",
}

// HTML sanitizes an HTML body: inline data-URI images become Objects and are
// replaced by placeholders, a forwarded block is detected, and disclaimer
// divs are removed.
func (s *Sanitizer) HTML(body string) (*Result, error) {
	roots, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	res := &Result{Format: FormatHTML}
	for _, root := range roots {
		s.extractObjects(root, res)
	}

	if fwd, ok := findForwarded(roots); ok {
		res.HasForwarded = true
		res.Forwarded = fwd
	}

	var buf bytes.Buffer
	for _, root := range roots {
		if err := html.Render(&buf, root); err != nil {
			return nil, fmt.Errorf("rendering html: %w", err)
		}
	}

	markup, disclaimers := extractAll(disclaimerHTMLRules, buf.String(), textContent, concat)
	res.Body = strings.TrimSpace(markup)
	res.Disclaimers = disclaimers
	return res, nil
}

// parseHTML parses full documents as documents and anything else as a body
// fragment, so fragments are not wrapped in html/head/body on output.
func parseHTML(body string) ([]*html.Node, error) {
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		doc, err := html.Parse(strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		return []*html.Node{doc}, nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(body), context)
}

func (s *Sanitizer) extractObjects(n *html.Node, res *Result) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !strings.HasPrefix(attr.Val, "data:") {
				continue
			}
			contentType, data, err := decodeDataURI(attr.Val)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("inline image left in place: %v", err))
				break
			}
			id := s.newID()
			res.Objects = append(res.Objects, Object{ID: id, ContentType: contentType, Data: data})
			n.Attr[i].Val = ObjectPlaceholder(id)
			break
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.extractObjects(c, res)
	}
}

// decodeDataURI decodes a base64 data URI of the form
// data:<mediatype>[;param]*;base64,<payload>.
func decodeDataURI(uri string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", nil, errors.New("data uri has no payload")
	}
	fields := strings.Split(meta, ";")
	contentType := strings.TrimSpace(fields[0])
	if contentType == "" {
		contentType = "text/plain"
	}

	isBase64 := false
	for _, f := range fields[1:] {
		if strings.EqualFold(strings.TrimSpace(f), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return "", nil, fmt.Errorf("data uri with %s payload is not base64", contentType)
	}

	payload = strings.Join(strings.Fields(payload), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	if err != nil {
		return "", nil, fmt.Errorf("decoding %s payload: %w", contentType, err)
	}
	return contentType, data, nil
}

// findForwarded returns the serialized div or blockquote that encloses the
// first forward marker, else the first gmail_quote blockquote.
func findForwarded(roots []*html.Node) (string, bool) {
	for _, marker := range forwardMarkers {
		textNode := findNode(roots, func(n *html.Node) bool {
			return n.Type == html.TextNode && strings.Contains(n.Data, marker)
		})
		if textNode == nil {
			continue
		}
		for p := textNode.Parent; p != nil; p = p.Parent {
			if p.Type != html.ElementNode {
				continue
			}
			if p.DataAtom == atom.Body {
				break
			}
			if p.DataAtom == atom.Div || p.DataAtom == atom.Blockquote {
				return renderNode(p), true
			}
		}
	}

	quote := findNode(roots, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Blockquote && hasClass(n, "gmail_quote")
	})
	if quote != nil {
		return renderNode(quote), true
	}
	return "", false
}

func findNode(roots []*html.Node, match func(*html.Node) bool) *html.Node {
	var walk func(*html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if match(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	for _, root := range roots {
		if found := walk(root); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func renderNode(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// textContent renders a markup fragment as plain text, trimmed.
func textContent(markup string) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return strings.TrimSpace(markup)
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.TrimSpace(b.String())
}
