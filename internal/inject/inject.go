package inject

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/dallebot/internal/dalle"
	"github.com/dmorgan81/dallebot/internal/handler"
	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/dmorgan81/dallebot/internal/param"
	"github.com/dmorgan81/dallebot/internal/server"
	"github.com/dmorgan81/dallebot/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const defaultMaxImages = 16

// Setup builds the injector. Providers are lazy, so AWS clients are only
// created when the configuration asks for SSM or S3.
func Setup(ctx context.Context, size dalle.Size) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*slog.Logger](injector, logger)
	do.ProvideValue[dalle.Size](injector, size)
	do.ProvideValue[*http.Client](injector, http.DefaultClient)
	do.ProvideValue[*prometheus.Registry](injector, prometheus.NewRegistry())

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)

	do.Provide[dalle.Model](injector, func(i *do.Injector) (dalle.Model, error) {
		switch backend := lo.Ternary(os.Getenv("DALLE_BACKEND") != "", os.Getenv("DALLE_BACKEND"), "remote"); backend {
		case "remote":
			return dalle.NewRemote(i)
		case "dezgo":
			return dalle.NewDezgo(i)
		default:
			return nil, fmt.Errorf("unknown DALLE_BACKEND %q", backend)
		}
	})
	do.ProvideNamedValue[string](injector, "dalle_url", lo.Ternary(os.Getenv("DALLE_URL") != "", os.Getenv("DALLE_URL"), "http://localhost:8000"))
	do.ProvideNamed[string](injector, "dezgo_key", func(i *do.Injector) (string, error) {
		value, path := os.Getenv("DEZGO_KEY"), os.Getenv("DEZGO_KEY_PARAM")
		if path == "" {
			return value, nil
		}
		return param.Resolve(ctx, do.MustInvoke[param.Fetcher](i), value, path)
	})
	do.ProvideNamedValue[string](injector, "dezgo_model", os.Getenv("DEZGO_MODEL"))

	do.Provide[store.Uploader](injector, func(i *do.Injector) (store.Uploader, error) {
		switch {
		case os.Getenv("ARCHIVE_BUCKET") != "":
			return store.NewS3Uploader(i)
		case os.Getenv("ARCHIVE_DIR") != "":
			return store.NewFileUploader(i)
		default:
			return store.NopUploader{}, nil
		}
	})
	do.ProvideNamedValue[string](injector, "archive_bucket", os.Getenv("ARCHIVE_BUCKET"))
	do.ProvideNamedValue[string](injector, "archive_dir", os.Getenv("ARCHIVE_DIR"))
	do.Provide[*store.Archiver](injector, store.NewArchiver)

	do.ProvideNamed[int](injector, "max_images", func(i *do.Injector) (int, error) {
		v := os.Getenv("MAX_IMAGES")
		if v == "" {
			return defaultMaxImages, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("MAX_IMAGES: %w", err)
		}
		return n, nil
	})

	do.Provide[*handler.Handler](injector, handler.NewHandler)
	do.Provide[http.Handler](injector, server.New)

	return injector
}
