// Package metrics exposes Prometheus instrumentation for the scheduler
// and process table: tick count, queue depths, allocation counts, and a
// counter of kernel panics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the gauges and counters the kernel updates on every
// dispatch.
type Metrics struct {
	Ticks          prometheus.Counter
	RunQueueDepth  prometheus.Gauge
	SleepQueueDepth prometheus.Gauge
	ProcessesAlive prometheus.Gauge
	MutexesAlive   prometheus.Gauge
	SemaphoresAlive prometheus.Gauge
	Panics         prometheus.Counter
}

// New constructs and registers the kernel's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmkos_ticks_total",
			Help: "Total number of timer ticks delivered.",
		}),
		RunQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gmkos_run_queue_depth",
			Help: "Number of processes currently runnable.",
		}),
		SleepQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gmkos_sleep_queue_depth",
			Help: "Number of processes currently sleeping.",
		}),
		ProcessesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gmkos_processes_alive",
			Help: "Number of currently allocated PCBs.",
		}),
		MutexesAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gmkos_mutexes_alive",
			Help: "Number of currently allocated mutexes.",
		}),
		SemaphoresAlive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gmkos_semaphores_alive",
			Help: "Number of currently allocated semaphores.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gmkos_panics_total",
			Help: "Total number of kernel panics raised for an IRQ with no registered handler; other kernel panics are not counted.",
		}),
	}

	reg.MustRegister(
		m.Ticks,
		m.RunQueueDepth,
		m.SleepQueueDepth,
		m.ProcessesAlive,
		m.MutexesAlive,
		m.SemaphoresAlive,
		m.Panics,
	)

	return m
}
