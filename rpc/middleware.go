package rpc

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

var (
	requestDuration *prometheus.SummaryVec
)

func init() {

	requestDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name: "http_request_duration_seconds",
		Help: "Time (in seconds) spent serving HTTP requests.",
	}, []string{"method"},
	)

	prometheus.MustRegister(requestDuration)
}

// Middleware observes request latencies per query method. The method comes
// from the last path segment when it names a known route, otherwise it is
// sniffed from the JSON-RPC request body. Requests that match no known
// method, websocket upgrades included, pass through unobserved.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var method string

		path := r.URL.Path
		stringparts := strings.Split(path, "/")
		_, ok := Routes.RouteMap[stringparts[len(stringparts)-1]]

		if !ok {
			// Read the Body content
			body, err := ioutil.ReadAll(r.Body)
			if err != nil {
				log.Error("error reading request body")
			}
			// Restore the io.ReadCloser to its original state
			r.Body = ioutil.NopCloser(bytes.NewBuffer(body))

			var req jsonrpc.JsonRpcRequest
			_ = json.Unmarshal(body, &req)

			if len(req.Method) > 0 {
				method = req.Method
			}
		} else {
			method = stringparts[len(stringparts)-1]
		}

		if Routes.RouteMap[method] {
			start := time.Now()
			next.ServeHTTP(w, r)
			requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		} else {
			next.ServeHTTP(w, r)
		}
	})
}
