package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// buildMultipartFile produces a parsed multipart file + header with a chosen
// filename and declared content type.
func buildMultipartFile(t *testing.T, filename, contentType, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}
	return file, header
}

func testStore(t *testing.T) *Store {
	t.Helper()
	return ReceiptStore(t.TempDir(), 10)
}

func TestSaveAllowedFile(t *testing.T) {
	store := testStore(t)
	file, header := buildMultipartFile(t, "proof.pdf", "application/pdf", "%PDF-1.4 fake")
	defer file.Close()

	name, err := store.Save(file, header)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	pattern := regexp.MustCompile(`^receipt-\d+-[0-9a-f]{8}\.pdf$`)
	if !pattern.MatchString(name) {
		t.Errorf("stored name %q does not match <prefix>-<timestamp>-<random>.<ext>", name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir, name))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Error("stored content does not match upload")
	}
}

// The filter is extension AND MIME: either mismatch alone must reject.
func TestFilterANDSemantics(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		wantReject  bool
	}{
		{"both allowed", "a.png", "image/png", false},
		{"good ext, bad mime", "a.png", "application/x-msdownload", true},
		{"bad ext, good mime", "a.exe", "image/png", true},
		{"both bad", "a.exe", "application/x-msdownload", true},
		{"mime with params still allowed", "a.jpg", "image/jpeg; charset=binary", false},
		{"uppercase extension allowed", "a.PNG", "image/png", false},
	}

	store := testStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, header := buildMultipartFile(t, tt.filename, tt.contentType, "data")
			defer file.Close()

			_, err := store.Save(file, header)
			var typeErr *ErrFileType
			rejected := errors.As(err, &typeErr)
			if rejected != tt.wantReject {
				t.Errorf("rejected = %v, want %v (err: %v)", rejected, tt.wantReject, err)
			}
		})
	}
}

func TestSaveOversizeRejected(t *testing.T) {
	store := NewStore(t.TempDir(), "receipt", []string{".pdf"}, []string{"application/pdf"}, 1)
	file, header := buildMultipartFile(t, "big.pdf", "application/pdf", strings.Repeat("x", 2<<20))
	defer file.Close()

	if _, err := store.Save(file, header); err == nil {
		t.Error("expected error for oversize file")
	}
}

func TestStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")
	NewStore(dir, "r", []string{".pdf"}, []string{"application/pdf"}, 1)
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("store directory not created: %v", err)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store := testStore(t)
	for _, name := range []string{"../etc/passwd", "..", "a/b.pdf"} {
		if _, err := store.Path(name); err == nil {
			t.Errorf("Path(%q) should be rejected", name)
		}
	}
}

func TestPathMissingFile(t *testing.T) {
	store := testStore(t)
	if _, err := store.Path("receipt-1-deadbeef.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
