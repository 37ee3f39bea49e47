package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unitconv_conversions_total",
		Help: "Conversions performed, by category and result.",
	}, []string{"category", "result"})

	rateRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unitconv_rate_refresh_total",
		Help: "Exchange rate refresh attempts, by result.",
	}, []string{"result"})

	rateRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "unitconv_rate_refresh_duration_seconds",
		Help:    "Duration of exchange rate refresh attempts.",
		Buckets: prometheus.DefBuckets,
	})

	ratesLastRefresh = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "unitconv_rates_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful exchange rate refresh.",
	})
)
