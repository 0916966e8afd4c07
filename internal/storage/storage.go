package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when a stored upload does not exist
var ErrNotFound = errors.New("upload not found")

// UploadStore keeps the original bytes of submitted documents
type UploadStore interface {
	// Save stores the content read from r under a name derived from
	// filename and returns a reference for Open.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)

	// Open returns a reader for a stored upload. Callers must close it.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces filename to a safe, ASCII-only base name.
// It returns "" when nothing usable is left.
func SanitizeFilename(filename string) string {
	decomposed := norm.NFKD.String(filename)

	var b strings.Builder
	for _, r := range decomposed {
		if r < unicode.MaxASCII && !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	return name
}

// objectName prefixes a sanitized filename with a random id so uploads
// with the same name never overwrite each other.
func objectName(filename string) string {
	name := SanitizeFilename(filename)
	if name == "" {
		name = "upload"
	}
	return uuid.NewString() + "_" + name
}
