package testutil

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Attachment is a file part of a built message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message builds raw RFC 5322 messages for tests. Empty header fields are
// omitted; a message with both Text and HTML becomes multipart/alternative,
// and attachments wrap the body in multipart/mixed.
type Message struct {
	MessageID   string
	From        string
	To          string
	Cc          string
	Bcc         string
	Subject     string
	Date        time.Time
	Text        string
	HTML        string
	Attachments []Attachment
}

// Bytes renders the message with CRLF line endings.
func (m Message) Bytes() []byte {
	var b strings.Builder
	header := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\r\n", name, value)
		}
	}

	header("From", m.From)
	header("To", m.To)
	header("Cc", m.Cc)
	header("Bcc", m.Bcc)
	header("Subject", m.Subject)
	if m.MessageID != "" {
		header("Message-ID", "<"+m.MessageID+">")
	}
	if !m.Date.IsZero() {
		header("Date", m.Date.Format(time.RFC1123Z))
	}
	header("MIME-Version", "1.0")

	body := m.body()
	if len(m.Attachments) > 0 {
		parts := []string{body}
		for _, a := range m.Attachments {
			parts = append(parts, attachmentPart(a))
		}
		body = multipart("mixed", "mixed-boundary", parts)
	}
	b.WriteString(body)
	return []byte(b.String())
}

// body renders the Content-Type header, blank line and body of the text part.
func (m Message) body() string {
	textPart := "Content-Type: text/plain; charset=utf-8\r\n\r\n" + crlf(m.Text)
	htmlPart := "Content-Type: text/html; charset=utf-8\r\n\r\n" + crlf(m.HTML)
	switch {
	case m.HTML != "" && m.Text != "":
		return multipart("alternative", "alt-boundary", []string{textPart, htmlPart})
	case m.HTML != "":
		return htmlPart
	default:
		return textPart
	}
}

func attachmentPart(a Attachment) string {
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	encoded := base64.StdEncoding.EncodeToString(a.Data)
	var lines []string
	for len(encoded) > 76 {
		lines = append(lines, encoded[:76])
		encoded = encoded[76:]
	}
	lines = append(lines, encoded)

	return fmt.Sprintf("Content-Type: %s\r\nContent-Disposition: attachment; filename=%q\r\nContent-Transfer-Encoding: base64\r\n\r\n%s\r\n",
		ct, a.Filename, strings.Join(lines, "\r\n"))
}

func multipart(subtype, boundary string, parts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Content-Type: multipart/%s; boundary=%q\r\n\r\n", subtype, boundary)
	for _, p := range parts {
		fmt.Fprintf(&b, "--%s\r\n%s\r\n", boundary, p)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}

func crlf(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
