package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/samber/do"
)

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

// FileUploader writes uploads below Dir, creating subdirectories as needed.
type FileUploader struct {
	Dir string
}

func NewFileUploader(i *do.Injector) (Uploader, error) {
	return &FileUploader{Dir: do.MustInvokeNamed[string](i, "archive_dir")}, nil
}

func (u *FileUploader) Upload(ctx context.Context, params UploadParams) error {
	path := filepath.Join(u.Dir, filepath.FromSlash(params.Name))
	log.FromContextOrDiscard(ctx).WithGroup("file").Info("writing", "file", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, params.Data, 0o600)
}

// NopUploader discards everything; it is used when archiving is disabled.
type NopUploader struct{}

func (NopUploader) Upload(context.Context, UploadParams) error { return nil }
