package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dallebot_build_info",
			Help: "Build information",
		},
		[]string{"version", "size"},
	)

	requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dallebot_requests_total",
			Help: "Number of image generation requests",
		},
		[]string{"size", "outcome"},
	)

	images = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dallebot_images_total",
			Help: "Number of images returned to clients",
		},
		[]string{"size"},
	)

	generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dallebot_generation_duration_seconds",
			Help:    "Time spent waiting on the model",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"size"},
	)
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(buildInfo, requests, images, generationDuration)
}

// SetBuildInfo records the running version and selected model size.
func SetBuildInfo(version, size string) {
	buildInfo.WithLabelValues(version, size).Set(1)
}

// RecordRequest increments the request counter and, on success, the
// image counter.
func RecordRequest(size string, n int, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	requests.WithLabelValues(size, outcome).Inc()
	if success {
		images.WithLabelValues(size).Add(float64(n))
	}
}

func ObserveGeneration(size string, d time.Duration) {
	generationDuration.WithLabelValues(size).Observe(d.Seconds())
}
