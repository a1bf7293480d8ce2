// Package metrics defines and registers the custom Prometheus metrics of the
// gallery API. It is the single source of truth for metric names, labels and
// help strings.
//
// All metrics are registered with the default registry through promauto, so
// importing the package is enough; they are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gallery"

// ── Upload metrics ───────────────────────────────────────────────────────────

// UploadsTotal counts images stored and recorded successfully.
// Label:
//   - format: "png" or "jpg"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of images uploaded successfully, by format.",
	},
	[]string{"format"},
)

// UploadRejectionsTotal counts uploads refused before or during storage.
// Label:
//   - reason: "unsupported_format", "too_large", "file_count", "missing_field",
//     "unauthorized", "not_ready", "storage" (any storage or metadata failure)
var UploadRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_rejections_total",
		Help:      "Total number of rejected or failed uploads, by reason.",
	},
	[]string{"reason"},
)

// UploadBytes observes the size of accepted uploads.
var UploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of accepted image uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 9), // 16KiB .. 4MiB
	},
)

// ── Auth metrics ─────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - op: "register" or "login"
//   - result: "ok", "rejected" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by outcome.",
	},
	[]string{"op", "result"},
)

// ── Image metrics ────────────────────────────────────────────────────────────

// ImageQueryDuration measures image list queries including the author join.
// Label:
//   - filtered: "true" when a name or author filter was applied
var ImageQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_query_duration_seconds",
		Help:      "Duration of image queries including author resolution.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"filtered"},
)

// ImageRenamesTotal counts rename requests.
// Label:
//   - result: "modified" or "unmatched"
var ImageRenamesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_renames_total",
		Help:      "Total number of image rename requests, by result.",
	},
	[]string{"result"},
)

// ── Store metrics ────────────────────────────────────────────────────────────

// StoreState reports the database connector state:
// 0 connecting, 1 ready, 2 failed.
var StoreState = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "store_state",
		Help:      "Database connector state (0 connecting, 1 ready, 2 failed).",
	},
)
