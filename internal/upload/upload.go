// Package upload saves multipart files to disk with collision-safe names.
// A file is accepted only when BOTH its extension and its MIME type are in
// the allowed sets.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrFileType is returned when the extension or MIME type is not allowed.
type ErrFileType struct {
	Ext  string
	MIME string
}

func (e *ErrFileType) Error() string {
	return fmt.Sprintf("file type not allowed (ext %q, mime %q)", e.Ext, e.MIME)
}

// Store writes uploads into a fixed directory under a name prefix.
type Store struct {
	Dir         string
	Prefix      string
	AllowedExts map[string]bool
	AllowedMIME map[string]bool
	MaxBytes    int64
}

// ReceiptStore accepts the payment-proof formats.
func ReceiptStore(baseDir string, maxMB int) *Store {
	return NewStore(
		filepath.Join(baseDir, "receipts"),
		"receipt",
		[]string{".pdf", ".jpg", ".jpeg", ".png"},
		[]string{"application/pdf", "image/jpeg", "image/png"},
		maxMB,
	)
}

// DocumentStore accepts general attachments (inspection photos, documents).
func DocumentStore(baseDir string, maxMB int) *Store {
	return NewStore(
		filepath.Join(baseDir, "documents"),
		"doc",
		[]string{".pdf", ".jpg", ".jpeg", ".png", ".webp"},
		[]string{"application/pdf", "image/jpeg", "image/png", "image/webp"},
		maxMB,
	)
}

// NewStore creates the store and its directory.
func NewStore(dir, prefix string, exts, mimes []string, maxMB int) *Store {
	os.MkdirAll(dir, 0755)

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}
	mimeSet := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		mimeSet[strings.ToLower(m)] = true
	}

	return &Store{
		Dir:         dir,
		Prefix:      prefix,
		AllowedExts: extSet,
		AllowedMIME: mimeSet,
		MaxBytes:    int64(maxMB) << 20,
	}
}

// Allowed applies the AND filter: both the extension and the declared MIME
// type must be in the allowed sets.
func (s *Store) Allowed(filename, mimeType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	mime := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if !s.AllowedExts[ext] || !s.AllowedMIME[mime] {
		return &ErrFileType{Ext: ext, MIME: mime}
	}
	return nil
}

// Save filters and writes the file, returning the stored filename
// (<prefix>-<timestamp>-<random><ext>).
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := s.Allowed(header.Filename, header.Header.Get("Content-Type")); err != nil {
		return "", err
	}
	if s.MaxBytes > 0 && header.Size > s.MaxBytes {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", s.MaxBytes)
	}

	suffix := make([]byte, 4)
	rand.Read(suffix)
	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := fmt.Sprintf("%s-%d-%s%s", s.Prefix, time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)

	out, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return name, nil
}

// Path resolves a stored filename inside the store directory, rejecting
// traversal attempts.
func (s *Store) Path(filename string) (string, error) {
	clean := filepath.Base(filename)
	if clean != filename || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	full := filepath.Join(s.Dir, clean)
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}
