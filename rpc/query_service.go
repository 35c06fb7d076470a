package rpc

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

// QueryService provides the methods exposed over JSON-RPC 2.0 for converting
// Ethereum addresses to and validating them against the mixed-case checksum
// encoding.
type QueryService interface {
	ChecksumAddress(address string) (string, error)
	ChecksumAddressBatch(addresses []string) ([]BatchResult, error)
	ValidateAddress(address string) (bool, error)
	Version() (string, error)
}

func QueryRoutes(svc QueryService) map[string]jsonrpc.RPCFunc {
	routes := map[string]jsonrpc.RPCFunc{}
	routes["addr_toChecksumAddress"] = jsonrpc.NewRPCFunc(svc.ChecksumAddress, "address")
	routes["addr_toChecksumAddressBatch"] = jsonrpc.NewRPCFunc(svc.ChecksumAddressBatch, "addresses")
	routes["addr_isChecksumAddress"] = jsonrpc.NewRPCFunc(svc.ValidateAddress, "address")
	routes["addr_version"] = jsonrpc.NewRPCFunc(svc.Version, "")
	return routes
}

// MakeQueryServiceHandler returns a http handler mapping to the query service.
// Requests arrive either as a POST carrying a JSON-RPC 2.0 object (single or
// batch) or as a websocket upgrade on the same route. A nil hub disables the
// websocket route.
func MakeQueryServiceHandler(svc QueryService, logger log.Logger, hub *Hub) http.Handler {
	mux := http.NewServeMux()
	RegisterRPCFuncs(mux, QueryRoutes(svc), logger, hub)

	// setup metrics route
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
