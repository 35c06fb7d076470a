package rpc

// http request latencies are monitored for the methods listed here
type RouteMonitor struct {
	RouteMap map[string]bool
}

var Routes RouteMonitor

var RPCRoutes = []string{
	"addr_toChecksumAddress",
	"addr_toChecksumAddressBatch",
	"addr_isChecksumAddress",
	"addr_version",
}

func init() {

	Routes.RouteMap = make(map[string]bool)
	for _, route := range RPCRoutes {
		Routes.RouteMap[route] = true
	}
}
