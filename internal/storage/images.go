// Package storage persists uploaded images on the local filesystem. Clients
// send images as base64 data URIs ("data:image/png;base64,...."); the store
// decodes them, checks the declared type against an allowlist, and writes
// them under the media root with a generated name. Stored values are
// media-relative paths, so the media root can move without rewriting rows.
package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowedTypes maps accepted image subtypes to file extensions.
var allowedTypes = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"jpg":  ".jpg",
	"gif":  ".gif",
}

// ErrBadImage is returned for payloads that are not a decodable image data
// URI of an allowed type.
var ErrBadImage = errors.New("image must be a base64 data URI of type png, jpeg, or gif")

// Store writes images under Root.
type Store struct {
	root string
}

// NewStore creates the media root (and returns the store) or fails if the
// directory cannot be created.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Root returns the media root directory.
func (s *Store) Root() string { return s.root }

// SaveDataURI decodes a base64 data URI and writes it to <root>/<subdir>
// under a random name, returning the media-relative path with forward
// slashes (the form stored in the database and served over HTTP).
func (s *Store) SaveDataURI(dataURI, subdir string) (string, error) {
	subtype, payload, err := splitDataURI(dataURI)
	if err != nil {
		return "", err
	}
	ext, ok := allowedTypes[subtype]
	if !ok {
		return "", ErrBadImage
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadImage
	}

	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return "", err
	}
	return subdir + "/" + name, nil
}

// splitDataURI parses "data:image/<subtype>;base64,<payload>" and returns
// the subtype and payload.
func splitDataURI(dataURI string) (subtype, payload string, err error) {
	header, payload, found := strings.Cut(dataURI, ",")
	if !found {
		return "", "", ErrBadImage
	}
	header = strings.TrimPrefix(header, "data:")
	mediatype, _, _ := strings.Cut(header, ";")
	if !strings.HasPrefix(mediatype, "image/") {
		return "", "", ErrBadImage
	}
	if !strings.HasSuffix(header, ";base64") {
		return "", "", fmt.Errorf("%w: missing base64 marker", ErrBadImage)
	}
	return strings.TrimPrefix(mediatype, "image/"), payload, nil
}
