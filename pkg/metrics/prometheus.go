package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newspage"

// PrometheusRecorder exports pipeline events as Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	builds         *prom.CounterVec
	buildDuration  prom.Histogram
	catalogSize    prom.Gauge
	mutations      *prom.CounterVec
	orphansDeleted prom.Counter
	uploads        prom.Counter
}

// NewPrometheusRecorder registers its collectors on a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prom.NewRegistry(),
		builds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "builds_total", Help: "Site builds by result",
		}, []string{"result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace, Name: "build_duration_seconds", Help: "Site build duration",
			Buckets: prom.DefBuckets,
		}),
		catalogSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace, Name: "last_build_articles", Help: "Articles written by the most recent successful build",
		}),
		mutations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace, Name: "article_mutations_total", Help: "Article create/update/delete operations",
		}, []string{"op"}),
		orphansDeleted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace, Name: "orphaned_uploads_deleted_total", Help: "Uploads removed after their last referencing article was deleted",
		}),
		uploads: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace, Name: "uploads_total", Help: "Stored uploads",
		}),
	}
	r.registry.MustRegister(r.builds, r.buildDuration, r.catalogSize, r.mutations, r.orphansDeleted, r.uploads)
	r.registry.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return r
}

func (r *PrometheusRecorder) ObserveBuild(duration time.Duration, articles int, err error) {
	r.buildDuration.Observe(duration.Seconds())
	if err != nil {
		r.builds.WithLabelValues("failure").Inc()
		return
	}
	r.builds.WithLabelValues("success").Inc()
	r.catalogSize.Set(float64(articles))
}

func (r *PrometheusRecorder) IncArticleMutation(op string) { r.mutations.WithLabelValues(op).Inc() }

func (r *PrometheusRecorder) AddOrphansDeleted(n int) { r.orphansDeleted.Add(float64(n)) }

func (r *PrometheusRecorder) IncUpload() { r.uploads.Inc() }

// Registry exposes the underlying registry for tests and custom exporters.
func (r *PrometheusRecorder) Registry() *prom.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
