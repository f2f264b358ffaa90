package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFileUploader(t *testing.T) {
	dir := t.TempDir()
	u := &FileUploader{Dir: dir}
	if err := u.Upload(context.Background(), UploadParams{Name: "20240101/a.jpg", Data: []byte("jpeg")}); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "20240101", "a.jpg"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "jpeg" {
		t.Fatalf("unexpected contents %q", data)
	}
}

type memUploader struct {
	mu      sync.Mutex
	uploads []UploadParams
	err     error
}

func (m *memUploader) Upload(_ context.Context, params UploadParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, params)
	return m.err
}

func TestArchive(t *testing.T) {
	mem := &memUploader{}
	a := &Archiver{Uploader: mem, Now: func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }}

	keys := a.Archive(context.Background(), "a cat", "MINI", [][]byte{[]byte("a"), []byte("b")})
	if len(keys) != 2 || len(mem.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d keys and %d uploads", len(keys), len(mem.uploads))
	}
	for i, key := range keys {
		if !strings.HasPrefix(key, "20240309/") || !strings.HasSuffix(key, "-"+string(rune('0'+i))+".jpg") {
			t.Errorf("unexpected key %q", key)
		}
	}
	for _, u := range mem.uploads {
		if u.ContentType != "image/jpeg" || u.Metadata["prompt"] != "a cat" || u.Metadata["size"] != "MINI" {
			t.Errorf("unexpected upload %+v", u)
		}
	}
}

func TestArchiveSwallowsErrors(t *testing.T) {
	a := &Archiver{Uploader: &memUploader{err: errors.New("denied")}}
	if keys := a.Archive(context.Background(), "p", "MEGA", [][]byte{[]byte("a")}); len(keys) != 1 {
		t.Fatalf("expected one key, got %v", keys)
	}
}

func TestNopUploader(t *testing.T) {
	if err := (NopUploader{}).Upload(context.Background(), UploadParams{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
