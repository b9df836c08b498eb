// Package mime decomposes raw transport-format messages into headers and a
// depth-first list of leaf parts, and selects the canonical body part.
package mime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset" // registers non-UTF-8 charset decoders
	"github.com/emersion/go-message/mail"
)

// DecodeError reports that a raw message could not be parsed at all.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decoding message: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// Part is a decoded leaf of the MIME tree.
type Part struct {
	// Path is the index path of the part in the tree; the root part has an
	// empty path.
	Path        []int
	ContentType string
	Params      map[string]string
	Disposition string
	Filename    string
	Data        []byte
}

// IsAttachment reports whether the part carries a filename. Named parts are
// never used as the body, whatever their content type.
func (p *Part) IsAttachment() bool { return p.Filename != "" }

// IsHTML reports whether the part is text/html.
func (p *Part) IsHTML() bool { return p.ContentType == "text/html" }

// Message is a decomposed message.
type Message struct {
	Header mail.Header

	MessageID string
	Subject   string
	From      string
	To        string
	Cc        string
	Bcc       string
	// Date is zero when the header is missing or unparseable.
	Date time.Time

	// Parts lists every leaf in depth-first order.
	Parts []*Part
	// Body is the canonical body part, nil when the message has none.
	Body *Part
	// Warnings collects problems that were tolerated while decoding.
	Warnings []string
}

// Attachments returns the parts that carry a filename, in tree order.
func (m *Message) Attachments() []*Part {
	var out []*Part
	for _, p := range m.Parts {
		if p.IsAttachment() {
			out = append(out, p)
		}
	}
	return out
}

// Decomposer parses raw messages.
type Decomposer struct {
	maxSize int64
}

// NewDecomposer returns a Decomposer rejecting messages larger than maxSize
// bytes. A maxSize of zero disables the limit.
func NewDecomposer(maxSize int64) *Decomposer {
	return &Decomposer{maxSize: maxSize}
}

// Decompose parses raw into a Message. Unknown charsets and transfer
// encodings are tolerated and recorded as warnings. A multipart body that
// cannot be walked at all is read as one text/plain part. Only a stream
// without a parseable header yields a *DecodeError.
func (d *Decomposer) Decompose(raw []byte) (*Message, error) {
	if d.maxSize > 0 && int64(len(raw)) > d.maxSize {
		return nil, &DecodeError{Err: fmt.Errorf("message is %d bytes, limit is %d", len(raw), d.maxSize)}
	}

	entity, err := message.Read(bytes.NewReader(raw))
	if entity == nil {
		return nil, &DecodeError{Err: err}
	}
	msg := &Message{Header: mail.Header{Header: entity.Header}}
	if err != nil {
		if !tolerable(err) {
			return nil, &DecodeError{Err: err}
		}
		msg.Warnings = append(msg.Warnings, err.Error())
	}
	if entity.Header.Len() == 0 {
		return nil, &DecodeError{Err: errors.New("no header fields")}
	}

	msg.readEnvelope()

	walkErr := entity.Walk(func(path []int, e *message.Entity, err error) error {
		if err != nil {
			if !tolerable(err) {
				return err
			}
			msg.Warnings = append(msg.Warnings, err.Error())
		}
		if e.MultipartReader() != nil {
			return nil
		}
		part, err := readPart(path, e)
		if err != nil {
			msg.Warnings = append(msg.Warnings, fmt.Sprintf("part %v: %v", path, err))
		}
		msg.Parts = append(msg.Parts, part)
		return nil
	})
	if walkErr != nil {
		msg.Warnings = append(msg.Warnings, walkErr.Error())
		if len(msg.Parts) == 0 {
			part, err := rootAsLeaf(raw)
			if part == nil {
				return nil, &DecodeError{Err: walkErr}
			}
			if err != nil {
				msg.Warnings = append(msg.Warnings, fmt.Sprintf("root: %v", err))
			}
			msg.Parts = append(msg.Parts, part)
		}
	}

	msg.Body = canonicalBody(msg.Parts)
	return msg, nil
}

// rootAsLeaf rereads raw and returns its whole body as a single part at the
// root path. A multipart content type is replaced by text/plain.
func rootAsLeaf(raw []byte) (*Part, error) {
	e, err := message.Read(bytes.NewReader(raw))
	if e == nil {
		return nil, err
	}
	part, err := readPart(nil, e)
	if strings.HasPrefix(part.ContentType, "multipart/") {
		part.ContentType = "text/plain"
		part.Params = nil
	}
	return part, err
}

func tolerable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

func (m *Message) readEnvelope() {
	h := m.Header

	if id, err := h.MessageID(); err == nil {
		m.MessageID = id
	} else {
		m.MessageID = strings.Trim(strings.TrimSpace(h.Get("Message-Id")), "<>")
	}

	if s, err := h.Subject(); err == nil {
		m.Subject = s
	} else {
		m.Subject = h.Get("Subject")
	}

	m.From = decodedText(h, "From")
	m.To = decodedText(h, "To")
	m.Cc = decodedText(h, "Cc")
	m.Bcc = decodedText(h, "Bcc")

	if h.Has("Date") {
		if t, err := h.Date(); err == nil {
			m.Date = t
		} else {
			m.Warnings = append(m.Warnings, "unparseable date: "+h.Get("Date"))
		}
	}
}

func decodedText(h mail.Header, key string) string {
	if s, err := h.Text(key); err == nil {
		return s
	}
	return h.Get(key)
}

// readPart reads a leaf entity. The returned part is always usable; a read
// error leaves whatever bytes were decoded before the failure.
func readPart(path []int, e *message.Entity) (*Part, error) {
	part := &Part{Path: append([]int(nil), path...)}

	ct, params, err := e.Header.ContentType()
	if err != nil || ct == "" {
		ct = "text/plain"
	}
	part.ContentType = strings.ToLower(ct)
	part.Params = params

	if disp, _, err := e.Header.ContentDisposition(); err == nil {
		part.Disposition = disp
	}
	if name, err := (&mail.AttachmentHeader{Header: e.Header}).Filename(); err == nil {
		part.Filename = name
	}

	data, err := io.ReadAll(e.Body)
	part.Data = data
	return part, err
}

// canonicalBody picks the first text/html leaf, else the first text/plain
// leaf. A single-part message uses its only part unless it is named.
func canonicalBody(parts []*Part) *Part {
	if len(parts) == 1 && len(parts[0].Path) == 0 {
		if parts[0].IsAttachment() {
			return nil
		}
		return parts[0]
	}
	var plain *Part
	for _, p := range parts {
		if p.IsAttachment() {
			continue
		}
		switch p.ContentType {
		case "text/html":
			return p
		case "text/plain":
			if plain == nil {
				plain = p
			}
		}
	}
	return plain
}
