package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Archiver keeps a copy of every generated JPEG. Failures are logged, never
// returned, so a broken bucket cannot fail image generation.
type Archiver struct {
	Uploader Uploader
	Now      func() time.Time
}

func NewArchiver(i *do.Injector) (*Archiver, error) {
	return &Archiver{Uploader: do.MustInvoke[Uploader](i), Now: time.Now}, nil
}

// Archive uploads each image under <yyyymmdd>/<batch>-<index>.jpg and
// returns the keys it attempted.
func (a *Archiver) Archive(ctx context.Context, prompt, size string, jpegs [][]byte) []string {
	logger := log.FromContextOrDiscard(ctx).WithGroup("archive")
	batch := uuid.NewString()
	now := lo.Ternary(a.Now != nil, a.Now, time.Now)
	prefix := now().UTC().Format("20060102")

	uploads := lo.Map(jpegs, func(data []byte, idx int) UploadParams {
		return UploadParams{
			Name:        fmt.Sprintf("%s/%s-%d.jpg", prefix, batch, idx),
			Data:        data,
			ContentType: "image/jpeg",
			Metadata: map[string]string{
				"prompt": prompt,
				"size":   size,
				"index":  strconv.Itoa(idx),
			},
		}
	})

	group, gctx := errgroup.WithContext(ctx)
	for _, u := range uploads {
		u := u
		group.Go(func() error {
			return a.Uploader.Upload(gctx, u)
		})
	}
	if err := group.Wait(); err != nil {
		logger.Warn("archiving generated images failed", "batch", batch, "error", err)
	}

	return lo.Map(uploads, func(u UploadParams, _ int) string { return u.Name })
}
