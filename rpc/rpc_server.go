package rpc

import (
	"net"
	"net/http"
	"net/http/pprof"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter"
	"golang.org/x/net/netutil"

	"github.com/loomnetwork/ethaddr/config"
	"github.com/loomnetwork/ethaddr/log"
)

// RPCServer starts up the HTTP server that handles client requests. The
// JSON-RPC routes are mounted under /address, Prometheus metrics under
// /metrics. The server runs in its own goroutine, RPCServer only returns an
// error when the listener cannot be set up.
func RPCServer(qsvc QueryService, logger log.Logger, cfg *config.Config) error {
	var hub *Hub
	if cfg.EnableWebSocket {
		hub = newHub()
		go hub.run()
	}

	var queryHandler http.Handler = MakeQueryServiceHandler(qsvc, logger, hub)
	if cfg.Limiter.Enabled {
		rate := limiter.Rate{
			Period: time.Duration(cfg.Limiter.Period) * time.Second,
			Limit:  cfg.Limiter.Limit,
		}
		queryHandler = limitInvalidRequests(queryHandler, rate)
	}
	if cfg.Metrics.EnableInstrumentation {
		queryHandler = Middleware(queryHandler)
	}

	mux := http.NewServeMux()
	mux.Handle("/address/", stripPrefix("/address", CORSMethodMiddleware(queryHandler)))
	mux.Handle("/address", stripPrefix("/address", CORSMethodMiddleware(queryHandler)))

	// setup debug route
	if cfg.EnableDebugServer {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)

		mux.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		mux.Handle("/debug/pprof/heap", pprof.Handler("heap"))
		mux.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
		mux.Handle("/debug/pprof/block", pprof.Handler("block"))
	}

	// setup metrics route
	mux.Handle("/metrics", promhttp.Handler())

	listener, err := listen(cfg.BindAddress, cfg.MaxOpenConnections)
	if err != nil {
		return err
	}

	go func() {
		if err := http.Serve(listener, mux); err != nil {
			logger.Error("RPC server stopped", "err", err)
		}
	}()
	logger.Info("RPC server listening", "bind", cfg.BindAddress)

	return nil
}

// listen resolves a proto://address bind string into a listener, capping
// concurrent connections when maxOpenConnections is positive.
func listen(bindAddress string, maxOpenConnections int) (net.Listener, error) {
	parts := strings.SplitN(bindAddress, "://", 2)
	if len(parts) != 2 {
		return nil, errors.Errorf("invalid listen address %s, expected proto://address", bindAddress)
	}
	proto, addr := parts[0], parts[1]
	listener, err := net.Listen(proto, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", bindAddress)
	}
	if maxOpenConnections > 0 {
		listener = netutil.LimitListener(listener, maxOpenConnections)
	}
	return listener, nil
}

func stripPrefix(prefix string, h http.Handler) http.Handler {
	if prefix == "" {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := strings.TrimPrefix(r.URL.Path, prefix); len(p) < len(r.URL.Path) {
			r2 := new(http.Request)
			*r2 = *r
			r2.URL = new(url.URL)
			*r2.URL = *r.URL
			if p == "" {
				r2.URL.Path = "/"
			} else {
				r2.URL.Path = p
			}
			h.ServeHTTP(w, r2)
		} else {
			http.NotFound(w, r)
		}
	})
}

func CORSMethodMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, req)
	})
}
