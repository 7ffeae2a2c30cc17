package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/baharkarakas/member-store/internal/db"
)

// PoolCollector exposes a Source's connection counts at scrape time.
type PoolCollector struct {
	src    db.Source
	total  *prometheus.Desc
	active *prometheus.Desc
	idle   *prometheus.Desc
	max    *prometheus.Desc
}

func NewPoolCollector(src db.Source) *PoolCollector {
	labels := []string{"pool"}
	return &PoolCollector{
		src:    src,
		total:  prometheus.NewDesc("db_pool_connections_total", "Open connections", labels, nil),
		active: prometheus.NewDesc("db_pool_connections_active", "Connections currently borrowed", labels, nil),
		idle:   prometheus.NewDesc("db_pool_connections_idle", "Idle pooled connections", labels, nil),
		max:    prometheus.NewDesc("db_pool_connections_max", "Pool size limit, 0 when unbounded", labels, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.active
	ch <- c.idle
	ch <- c.max
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(st.Total), st.Name)
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(st.Active), st.Name)
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(st.Idle), st.Name)
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(st.Max), st.Name)
}
