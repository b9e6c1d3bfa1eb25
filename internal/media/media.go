// Package media validates image uploads and names their objects.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload. Exactly MaxImageSize passes.
const MaxImageSize = 5 << 20

// DefaultFolder is used when the upload names no folder.
const DefaultFolder = "images"

var (
	ErrNotImage = errors.New("only image files are allowed")
	ErrTooLarge = fmt.Errorf("image must be at most %d MiB", MaxImageSize>>20)
	ErrEmpty    = errors.New("file is empty")
)

var folderRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateImage checks the declared content type and size of an upload.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	if size <= 0 {
		return ErrEmpty
	}
	if size > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

// Folder normalizes a requested folder name, falling back to DefaultFolder
// for anything that is not a single lowercase path segment.
func Folder(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !folderRe.MatchString(name) {
		return DefaultFolder
	}
	return name
}

// ObjectKey returns "<folder>/<unix-millis>-<uuid><ext>" for an upload.
func ObjectKey(folder, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return fmt.Sprintf("%s/%d-%s%s", Folder(folder), now.UnixMilli(), uuid.New(), ext)
}
