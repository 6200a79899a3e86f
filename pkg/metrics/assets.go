package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AssetMetrics counts remote storage operations per store.
type AssetMetrics struct {
	uploads  *prometheus.CounterVec
	deletes  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewAssetMetrics registers the storage metrics on the provided registerer.
func NewAssetMetrics(reg prometheus.Registerer) *AssetMetrics {
	if reg == nil {
		return &AssetMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_uploads_total",
		Help: "Uploads to remote storage by store and result.",
	}, []string{"store", "result"})
	deletes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asset_deletes_total",
		Help: "Deletes against remote storage by store and result.",
	}, []string{"store", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "asset_upload_duration_seconds",
		Help:    "Duration of uploads to remote storage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})
	reg.MustRegister(uploads, deletes, duration)
	return &AssetMetrics{uploads: uploads, deletes: deletes, duration: duration}
}

// ObserveUpload records one upload attempt.
func (m *AssetMetrics) ObserveUpload(store string, took time.Duration, err error) {
	if m == nil || m.uploads == nil {
		return
	}
	store = normalizeLabel(store)
	m.uploads.WithLabelValues(store, result(err)).Inc()
	m.duration.WithLabelValues(store).Observe(took.Seconds())
}

// ObserveDelete records one delete attempt.
func (m *AssetMetrics) ObserveDelete(store string, err error) {
	if m == nil || m.deletes == nil {
		return
	}
	m.deletes.WithLabelValues(normalizeLabel(store), result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
