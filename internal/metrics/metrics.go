// Package metrics регистрирует Prometheus-метрики сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MiningOpsTotal количество успешных операций майнинга.
	MiningOpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mining_operations_total",
		Help: "Total number of successful mining operations.",
	})

	// MinedAmountTotal суммарный размер сгенерированных вознаграждений.
	MinedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mining_mined_amount_total",
		Help: "Total sampled reward amount across all mining operations.",
	})

	// PayoutsTotal количество выплат по результату обращения к процессору.
	PayoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payouts_total",
		Help: "Total number of payout attempts by result.",
	}, []string{"result"})

	// PayoutAmountTotal суммарный объём успешно выплаченных средств.
	PayoutAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payout_amount_total",
		Help: "Total amount transferred by confirmed payouts.",
	})

	// StatsConnectionsActive число открытых соединений канала статистики.
	StatsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stats_channel_connections_active",
		Help: "Number of currently open stats channel connections.",
	})
)
