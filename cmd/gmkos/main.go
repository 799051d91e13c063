// Command gmkos boots the kernel, wires up the demo process topology,
// attaches the host terminal to TTY 1, and serves Prometheus metrics
// alongside it.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kongvang2/gmkOS/hostsim"
	"github.com/kongvang2/gmkOS/internal/kernel"
	"github.com/kongvang2/gmkOS/internal/klog"
	"github.com/kongvang2/gmkOS/internal/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel   string
		metricsAddr string
		tickInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "gmkos",
		Short: "gmkOS: a hosted, single-CPU preemptive kernel simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, logLevel, metricsAddr, tickInterval)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: none|error|warn|info|debug|trace|all")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve /metrics on")
	cmd.Flags().DurationVar(&tickInterval, "tick-interval", 10*time.Millisecond, "wall-clock interval per simulated timer tick")

	return cmd
}

func parseLevel(s string) klog.Level {
	switch s {
	case "none":
		return klog.LevelNone
	case "error":
		return klog.LevelError
	case "warn":
		return klog.LevelWarn
	case "debug":
		return klog.LevelDebug
	case "trace":
		return klog.LevelTrace
	case "all":
		return klog.LevelAll
	default:
		return klog.LevelInfo
	}
}

func run(cmd *cobra.Command, logLevel, metricsAddr string, tickInterval time.Duration) (err error) {
	log := klog.New(parseLevel(logLevel))
	defer log.Sync()

	defer func() {
		if r := recover(); r != nil {
			log.Error("kernel panic recovered at top level: %v", r)
			err = fmt.Errorf("gmkos: %v", r)
		}
	}()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	k := kernel.New(kernel.DefaultConfig(), log, m)
	rt := hostsim.New(k)

	if err := hostsim.BootDemo(rt, k); err != nil {
		return fmt.Errorf("gmkos: boot demo topology: %w", err)
	}
	rt.Start()

	go rt.RunTicker(tickInterval)

	srv := &http.Server{Addr: metricsAddr, Handler: promHandler(reg)}
	go func() {
		if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Warn("metrics server stopped: %v", serveErr)
		}
	}()

	term := hostsim.NewTerminal(k, 1, int(os.Stdin.Fd()), os.Stdin, os.Stdout)
	stop := make(chan struct{})
	if termErr := term.Start(stop); termErr != nil {
		log.Warn("host terminal unavailable: %v", termErr)
	}
	defer term.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	close(stop)
	rt.Stop()
	return srv.Close()
}

func promHandler(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
