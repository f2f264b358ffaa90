package handler

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/sync/errgroup"
)

const jpegQuality = 90

// encodeJPEGs encodes every image as JPEG in parallel, keeping input order.
func encodeJPEGs(images []image.Image) ([][]byte, error) {
	out := make([][]byte, len(images))
	var group errgroup.Group
	for idx, img := range images {
		idx, img := idx, img
		group.Go(func() error {
			if img == nil {
				return fmt.Errorf("image %d: model returned no image", idx)
			}
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
				return fmt.Errorf("image %d: %w", idx, err)
			}
			out[idx] = buf.Bytes()
			return nil
		})
	}
	return out, group.Wait()
}

func toBase64(jpegs [][]byte) []string {
	out := make([]string, len(jpegs))
	for i, data := range jpegs {
		out[i] = base64.StdEncoding.EncodeToString(data)
	}
	return out
}
