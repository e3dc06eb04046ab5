package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// serverCollector reports liveness of the server and its database.
type serverCollector struct {
	start   time.Time
	isUp    func() bool
	dbStats func() interface{}
	version string

	up        *prometheus.Desc
	uptime    *prometheus.Desc
	info      *prometheus.Desc
	openConns *prometheus.Desc
	inUse     *prometheus.Desc
}

func newServerCollector(version string, start time.Time, isUp func() bool, dbStats func() interface{}) *serverCollector {
	return &serverCollector{
		start:   start,
		isUp:    isUp,
		dbStats: dbStats,
		version: version,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "up"),
			"If the database is reachable.",
			nil,
			nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "uptime_seconds"),
			"Number of seconds since the server started.",
			nil,
			nil,
		),
		info: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "version"),
			"The version of this server.",
			[]string{"version"},
			nil,
		),
		openConns: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "db", "open_connections"),
			"Number of established connections to the database.",
			nil,
			nil,
		),
		inUse: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "db", "in_use_connections"),
			"Number of database connections currently in use.",
			nil,
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *serverCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.uptime
	ch <- c.info
	ch <- c.openConns
	ch <- c.inUse
}

// Collect implements prometheus.Collector.
func (c *serverCollector) Collect(ch chan<- prometheus.Metric) {
	up := float64(0)
	if c.isUp != nil && c.isUp() {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, up)
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.CounterValue, time.Since(c.start).Seconds())
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1, c.version)

	if c.dbStats == nil {
		return
	}
	// Only SQL adapters report connection pool stats.
	switch stats := c.dbStats().(type) {
	case sql.DBStats:
		ch <- prometheus.MustNewConstMetric(c.openConns, prometheus.GaugeValue, float64(stats.OpenConnections))
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(stats.InUse))
	case poolStats:
		ch <- prometheus.MustNewConstMetric(c.openConns, prometheus.GaugeValue, float64(stats.TotalConns()))
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(stats.AcquiredConns()))
	}
}

// poolStats is satisfied by *pgxpool.Stat.
type poolStats interface {
	TotalConns() int32
	AcquiredConns() int32
}
