package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// unit is ms
	CmdLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redis_cmd_latency",
		Help:    "redis command handle latency",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	}, []string{"cmd"})

	CmdCnt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_cmd_cnt",
		Help: "counter for handled redis commands",
	}, []string{"cmd"})

	ErrorCnt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "error_cnt",
		Help: "error counter for some useful kinds of internal error",
	}, []string{"error_info"})

	ConnNum = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "redis_conn_num",
		Help: "current number of redis client connections",
	})
)
