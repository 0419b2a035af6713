package memcheck

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "redis_memory"

// WriteTextfile writes the verdict as Prometheus gauges to path, in the
// format read by node_exporter's textfile collector. Memory gauges are only
// written when the verdict carries a snapshot.
func WriteTextfile(path, addr string, v Verdict) error {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"addr": addr}

	status := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "check_status",
		Help:        "Result of the last memory check (0=OK, 1=WARNING, 2=CRITICAL)",
		ConstLabels: labels,
	})
	status.Set(float64(v.ExitCode()))
	registry.MustRegister(status)

	if snap := v.Snapshot; snap != nil {
		used := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "used_bytes",
			Help:        "Memory used by the server, from " + snap.UsedField,
			ConstLabels: labels,
		})
		used.Set(float64(snap.UsedBytes))

		limit := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "limit_bytes",
			Help:        "Configured maxmemory",
			ConstLabels: labels,
		})
		limit.Set(float64(snap.LimitBytes))
		registry.MustRegister(used, limit)

		if snap.LimitBytes > 0 {
			pct := prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace:   metricsNamespace,
				Name:        "used_percent",
				Help:        "Memory used as a percentage of maxmemory",
				ConstLabels: labels,
			})
			pct.Set(snap.UsedPercent())
			registry.MustRegister(pct)
		}
	}

	return prometheus.WriteToTextfile(path, registry)
}
