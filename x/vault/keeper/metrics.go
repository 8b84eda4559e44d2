package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// VaultMetrics holds all Prometheus metrics for the vault module
type VaultMetrics struct {
	EpochsTotal          prometheus.Counter
	Phase                prometheus.Gauge
	OrdersBuilt          prometheus.Counter
	OrdersExecuted       *prometheus.CounterVec
	OrderVolume          *prometheus.CounterVec
	RedemptionsSettled   prometheus.Counter
	DepositsSettled      prometheus.Counter
	FeesAccrued          *prometheus.CounterVec
	VaultsActive         prometheus.Gauge
	VaultsDecommissioned prometheus.Counter
}

var (
	vaultMetricsOnce sync.Once
	vaultMetrics     *VaultMetrics
)

// moduleMetrics creates and registers vault metrics (singleton pattern)
func moduleMetrics() *VaultMetrics {
	vaultMetricsOnce.Do(func() {
		vaultMetrics = &VaultMetrics{
			EpochsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "epochs_total",
				Help:      "Completed epoch cycles",
			}),
			Phase: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "phase",
				Help:      "Current epoch phase",
			}),
			OrdersBuilt: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "orders_built_total",
				Help:      "Netted orders emitted into epoch books",
			}),
			OrdersExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "orders_executed_total",
				Help:      "Orders executed via the execution adapter",
			}, []string{"side"}),
			OrderVolume: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "order_volume",
				Help:      "Underlying volume executed",
			}, []string{"side"}),
			RedemptionsSettled: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "redemptions_settled_total",
				Help:      "Redemption requests settled",
			}),
			DepositsSettled: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "deposits_settled_total",
				Help:      "Deposit requests settled",
			}),
			FeesAccrued: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "fees_accrued",
				Help:      "Fees accrued in underlying units",
			}, []string{"kind"}),
			VaultsActive: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "vaults_active",
				Help:      "Vaults participating in epochs",
			}),
			VaultsDecommissioned: promauto.NewCounter(prometheus.CounterOpts{
				Namespace: "folio",
				Subsystem: "vault",
				Name:      "vaults_decommissioned_total",
				Help:      "Vaults fully wound down",
			}),
		}
	})
	return vaultMetrics
}
