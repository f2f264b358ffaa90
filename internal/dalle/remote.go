package dalle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/samber/do"
)

type remoteRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	NumImages int    `json:"num_images"`
}

type remoteResponse struct {
	Images []string `json:"images"`
}

// Remote talks to an inference sidecar that hosts the model weights.
type Remote struct {
	Client  *http.Client
	BaseURL string
	Size    Size
}

func NewRemote(i *do.Injector) (Model, error) {
	return &Remote{
		Client:  do.MustInvoke[*http.Client](i),
		BaseURL: do.MustInvokeNamed[string](i, "dalle_url"),
		Size:    do.MustInvoke[Size](i),
	}, nil
}

func (r *Remote) GenerateImages(ctx context.Context, prompt string, n int) ([]image.Image, error) {
	logger := log.FromContextOrDiscard(ctx).WithGroup("remote").With("size", r.Size.String(), "url", r.BaseURL)
	logger.Info("generating images", "count", n)

	body, err := json.Marshal(remoteRequest{Model: r.Size.Artifact(), Prompt: prompt, NumImages: n})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(r.BaseURL, "/")+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference backend returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding inference response: %w", err)
	}

	images := make([]image.Image, 0, len(out.Images))
	for idx, encoded := range out.Images {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", idx, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", idx, err)
		}
		images = append(images, img)
	}
	logger.Debug("received images", "count", len(images))
	return images, nil
}
