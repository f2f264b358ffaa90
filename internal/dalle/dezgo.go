package dalle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const dezgoURL = "https://api.dezgo.com"

type dezgoParams struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

// Dezgo generates images through the hosted api.dezgo.com text2image
// endpoint, one request per image.
type Dezgo struct {
	Client  *http.Client
	BaseURL string
	Key     string
	Model   string
}

func NewDezgo(i *do.Injector) (Model, error) {
	return &Dezgo{
		Client:  do.MustInvoke[*http.Client](i),
		BaseURL: dezgoURL,
		Key:     do.MustInvokeNamed[string](i, "dezgo_key"),
		Model:   do.MustInvokeNamed[string](i, "dezgo_model"),
	}, nil
}

func (g *Dezgo) GenerateImages(ctx context.Context, prompt string, n int) ([]image.Image, error) {
	images := make([]image.Image, n)
	group, ctx := errgroup.WithContext(ctx)
	for idx := range images {
		idx := idx
		group.Go(func() error {
			img, err := g.generate(ctx, prompt)
			if err != nil {
				return fmt.Errorf("image %d: %w", idx, err)
			}
			images[idx] = img
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func (g *Dezgo) generate(ctx context.Context, prompt string) (image.Image, error) {
	logger := log.FromContextOrDiscard(ctx).WithGroup("dezgo").With("model", g.Model)
	logger.Info("generating image via api.dezgo.com")

	body, err := json.Marshal(dezgoParams{Model: g.Model, Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/text2image", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("X-Dezgo-Key", g.Key)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("api.dezgo.com returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	logger.Info("received image via api.dezgo.com", "seed", resp.Header.Get("x-input-seed"))

	img, _, err := image.Decode(resp.Body)
	return img, err
}
