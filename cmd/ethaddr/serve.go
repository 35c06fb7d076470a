package main

import (
	"os"
	"os/signal"
	"syscall"

	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/pkg/errors"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/loomnetwork/ethaddr"
	"github.com/loomnetwork/ethaddr/config"
	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc"
)

func newServeCommand() *cobra.Command {
	cfg, err := config.ParseConfig()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the address query service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return errors.Wrap(err, "failed to load ethaddr.yml")
			}
			log.Setup(cfg.LogLevel, cfg.LogDestination)

			termChan := make(chan os.Signal)
			go func(c <-chan os.Signal, l log.Logger) {
				sig := <-c
				l.Info("query service terminating", "signal", sig.String())
				os.Exit(0)
			}(termChan, log.Root)

			signal.Notify(termChan, syscall.SIGHUP,
				syscall.SIGINT,
				syscall.SIGTERM,
				syscall.SIGQUIT)

			if err := initQueryService(cfg); err != nil {
				return err
			}

			select {}
		},
	}
	cmd.Flags().StringVarP(&cfg.BindAddress, "bind", "b", cfg.BindAddress, "interface and port the query service listens on")
	cmd.Flags().StringVarP(&cfg.LogLevel, "log-level", "L", cfg.LogLevel, "log level: debug, info, warn, error")
	return cmd
}

func initQueryService(cfg *config.Config) error {
	logger := log.Root.With("module", "query-server")
	logger.Info("starting query service", "version", ethaddr.FullVersion())

	qs := &rpc.QueryServer{
		Logger: logger,
	}

	var err error
	var qsvc rpc.QueryService
	{
		qsvc = qs
		if cfg.Cache.CachingEnabled {
			qsvc, err = rpc.NewCachingMiddleware(cfg.Cache.MaxKeys, qsvc)
			if err != nil {
				return errors.Wrap(err, "failed to create address cache")
			}
		}
		if cfg.Metrics.EnableInstrumentation {
			fieldKeys := []string{"method", "error"}
			requestCount := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
				Namespace: "ethaddr",
				Subsystem: "query_service",
				Name:      "request_count",
				Help:      "Number of requests received.",
			}, fieldKeys)
			requestLatency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
				Namespace: "ethaddr",
				Subsystem: "query_service",
				Name:      "request_latency_microseconds",
				Help:      "Total duration of requests in microseconds.",
			}, fieldKeys)
			qsvc = rpc.NewInstrumentingMiddleWare(requestCount, requestLatency, qsvc)
		}
	}
	return rpc.RPCServer(qsvc, logger, cfg)
}
