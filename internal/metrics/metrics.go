package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studenton", Name: "mutations_total", Help: "Store mutations by operation",
	}, []string{"op"})
	PersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studenton", Name: "persist_failures_total", Help: "Best-effort persistence writes that failed",
	})
	Imports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studenton", Name: "imports_total", Help: "Workbook imports by outcome",
	}, []string{"status"})
	Exports = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "studenton", Name: "exports_total", Help: "Workbook exports",
	})
)

func init() {
	prometheus.MustRegister(Mutations, PersistFailures, Imports, Exports)
}

func Handler() http.Handler { return promhttp.Handler() }
