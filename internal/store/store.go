// Package store provides ContentStore implementations for raw message content.
package store

import (
	"fmt"
	"strings"

	"mailorg/internal/mailorg"
)

// layout describes where a content kind lives inside a store.
type layout struct {
	dir string
	ext string
}

// layouts maps each content kind to its directory and file extension.
// Text and HTML bodies share a directory and are told apart by extension.
var layouts = map[mailorg.ContentKind]layout{
	mailorg.KindBodyText:   {dir: "bodies", ext: ".bod"},
	mailorg.KindBodyHTML:   {dir: "bodies", ext: ".hbod"},
	mailorg.KindAttachment: {dir: "attachments"},
	mailorg.KindObject:     {dir: "html-obj"},
	mailorg.KindDisclaimer: {dir: "disclaimers"},
}

// objectName returns the slash separated relative name for (kind, id).
func objectName(kind mailorg.ContentKind, id string) (string, error) {
	l, ok := layouts[kind]
	if !ok {
		return "", fmt.Errorf("unknown content kind: %q", kind)
	}
	if err := validateID(id); err != nil {
		return "", err
	}
	return l.dir + "/" + id + l.ext, nil
}

// validateID rejects ids that could escape the kind directory.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty content id")
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("invalid content id: %q", id)
	}
	return nil
}

func notFound(kind mailorg.ContentKind, id string) error {
	return fmt.Errorf("%w: %s/%s", mailorg.ErrContentNotFound, kind, id)
}
