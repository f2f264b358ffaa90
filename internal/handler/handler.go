package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmorgan81/dallebot/internal/dalle"
	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/dmorgan81/dallebot/internal/metrics"
	"github.com/dmorgan81/dallebot/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const (
	DefaultPrompt    = "White man with brown beard wearing a blue cap"
	DefaultNumImages = 2
)

var errBadRequest = errors.New("bad request")

// Input is the POST /dalle body. Zero values mean "use the default",
// so an explicit empty text or num_images of 0 behaves like an omitted one.
type Input struct {
	Text      string `json:"text"`
	NumImages int    `json:"num_images"`
}

func (i Input) withDefaults() Input {
	return Input{
		Text:      lo.Ternary(i.Text != "", i.Text, DefaultPrompt),
		NumImages: lo.Ternary(i.NumImages != 0, i.NumImages, DefaultNumImages),
	}
}

type Handler struct {
	model     dalle.Model
	size      dalle.Size
	archiver  *store.Archiver
	maxImages int
}

func NewHandler(i *do.Injector) (*Handler, error) {
	return &Handler{
		model:     do.MustInvoke[dalle.Model](i),
		size:      do.MustInvoke[dalle.Size](i),
		archiver:  do.MustInvoke[*store.Archiver](i),
		maxImages: do.MustInvokeNamed[int](i, "max_images"),
	}, nil
}

// Generate serves POST /dalle and responds with a JSON array of base64
// encoded JPEGs in the order the model produced them.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContextOrDiscard(ctx).WithGroup("Handler")

	input, err := h.decode(r)
	if err != nil {
		logger.Warn("rejecting request", "error", err)
		metrics.RecordRequest(h.size.String(), 0, false)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger = logger.With("input", input)

	start := time.Now()
	images, err := h.model.GenerateImages(ctx, input.Text, input.NumImages)
	metrics.ObserveGeneration(h.size.String(), time.Since(start))
	if err != nil {
		h.fail(w, logger, fmt.Errorf("generating images: %w", err))
		return
	}

	jpegs, err := encodeJPEGs(images)
	if err != nil {
		h.fail(w, logger, fmt.Errorf("encoding images: %w", err))
		return
	}
	h.archiver.Archive(ctx, input.Text, h.size.String(), jpegs)

	metrics.RecordRequest(h.size.String(), len(jpegs), true)
	logger.Info(fmt.Sprintf("created %d images from text prompt [%s]", len(jpegs), input.Text))
	writeJSON(w, http.StatusOK, toBase64(jpegs))
}

// Health serves GET / and always reports success.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) decode(r *http.Request) (Input, error) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return Input{}, fmt.Errorf("%w: invalid json body: %v", errBadRequest, err)
	}
	input = input.withDefaults()
	if input.NumImages < 0 {
		return Input{}, fmt.Errorf("%w: num_images must not be negative", errBadRequest)
	}
	if h.maxImages > 0 && input.NumImages > h.maxImages {
		return Input{}, fmt.Errorf("%w: num_images must be at most %d", errBadRequest, h.maxImages)
	}
	return input, nil
}

func (h *Handler) fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	logger.Error("request failed", "error", err)
	metrics.RecordRequest(h.size.String(), 0, false)
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
