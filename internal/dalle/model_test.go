package dalle

import (
	"context"
	"errors"
	"image"
	"testing"
)

type recordingModel struct {
	prompt string
	n      int
	err    error
}

func (m *recordingModel) GenerateImages(_ context.Context, prompt string, n int) ([]image.Image, error) {
	m.prompt, m.n = prompt, n
	if m.err != nil {
		return nil, m.err
	}
	return []image.Image{image.NewRGBA(image.Rect(0, 0, 1, 1))}, nil
}

func TestWarmUp(t *testing.T) {
	m := &recordingModel{}
	if err := WarmUp(context.Background(), m); err != nil {
		t.Fatalf("WarmUp: %v", err)
	}
	if m.prompt != "warm-up" || m.n != 1 {
		t.Fatalf("warm-up called with %q, %d", m.prompt, m.n)
	}
}

func TestWarmUpError(t *testing.T) {
	boom := errors.New("boom")
	err := WarmUp(context.Background(), &recordingModel{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
