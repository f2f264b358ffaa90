package dalle

import (
	"context"
	"fmt"
	"image"

	"github.com/dmorgan81/dallebot/internal/log"
)

// Model turns a text prompt into n images. Implementations must be safe
// for concurrent use; the server shares one instance across requests.
type Model interface {
	GenerateImages(ctx context.Context, prompt string, n int) ([]image.Image, error)
}

const warmUpPrompt = "warm-up"

// WarmUp issues a throwaway single image generation so that the backend
// loads its weights before real traffic arrives.
func WarmUp(ctx context.Context, model Model) error {
	log.FromContextOrDiscard(ctx).Info("warming up model")
	if _, err := model.GenerateImages(ctx, warmUpPrompt, 1); err != nil {
		return fmt.Errorf("warm-up: %w", err)
	}
	return nil
}
