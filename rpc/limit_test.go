package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter"

	"github.com/loomnetwork/ethaddr"
	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

var testRate = limiter.Rate{Period: limiterPeriod, Limit: limiterCount}

func TestLimitInvalidRequests(t *testing.T) {
	// error envelopes carrying a format failure count against the limit
	confirmLimited(t, newNextHandlerError(t,
		*jsonrpc.NewErrorf(jsonrpc.EcServer, "Server error", "ethaddr error: %v", ethaddr.ErrInvalidAddressFormat),
	), true)

	// so do batch results with a failed entry
	confirmLimited(t, newNextHandlerResult(t, []BatchResult{
		{Input: "0x37D9dC70C33029967d616b805474f560E891D1", Error: "got 38 characters: " + ethaddr.ErrInvalidAddressFormat.Error()},
	}), true)

	// and batch response arrays where one envelope failed
	confirmLimited(t, newNextHandlerEnvelopes(t, []interface{}{
		jsonrpc.JsonRpcResponse{Result: json.RawMessage(`"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"`), Version: "2.0"},
		jsonrpc.JsonRpcErrorResponse{Version: "2.0", Error: *jsonrpc.NewErrorf(jsonrpc.EcServer, "Server error", "ethaddr error: %v", ethaddr.ErrInvalidAddressFormat)},
	}), true)

	// clean conversions and unrelated errors never count
	confirmLimited(t, newNextHandlerResult(t, []BatchResult{
		{Input: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", Checksummed: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
	}), false)
	confirmLimited(t, newNextHandlerError(t,
		*jsonrpc.NewError(jsonrpc.EcServer, "Server error", "Some random error"),
	), false)
}

func confirmLimited(t *testing.T, next http.Handler, resultLimited bool) {
	handler := limitInvalidRequests(next, testRate)
	require.Equal(t, 0, len(visitors))
	req := httptest.NewRequest("POST", "http://example.com/address", nil)
	ip := getRealAddr(req)
	for i := 1; i <= limiterCount; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, 200, w.Result().StatusCode)
		_, exists := visitors[ip]
		require.Equal(t, resultLimited, exists)
		if resultLimited {
			visitorLimiter, err := visitors[ip].limiter.Peek(context.TODO(), keyVisitors)
			require.NoError(t, err)
			require.Equal(t, int64(limiterCount-i), visitorLimiter.Remaining)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, 200, w.Result().StatusCode)
	_, exists := visitors[ip]
	require.Equal(t, resultLimited, exists)
	if resultLimited {
		visitorLimiter, err := visitors[ip].limiter.Peek(context.TODO(), keyVisitors)
		require.NoError(t, err)
		require.Equal(t, int64(0), visitorLimiter.Remaining)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if resultLimited {
		require.Equal(t, 429, w.Result().StatusCode)
	} else {
		require.Equal(t, 200, w.Result().StatusCode)
	}
	emptyVisitors()
}

type nextHandlerError struct {
	http.Handler
	t        *testing.T
	rpcError jsonrpc.Error
}

func newNextHandlerError(t *testing.T, err jsonrpc.Error) http.Handler {
	return nextHandlerError{
		t:        t,
		rpcError: err,
	}
}

func (h nextHandlerError) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)

	resp := jsonrpc.JsonRpcErrorResponse{Version: "2.0", Error: h.rpcError}
	jsonBytes, err := json.MarshalIndent(resp, "", "  ")
	require.NoError(h.t, err)
	_, err = w.Write(jsonBytes)
	require.NoError(h.t, err)
}

type nextHandlerResult struct {
	http.Handler
	t       *testing.T
	results []BatchResult
}

func newNextHandlerResult(t *testing.T, results []BatchResult) http.Handler {
	return nextHandlerResult{
		t:       t,
		results: results,
	}
}

func (h nextHandlerResult) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)

	raw, err := json.Marshal(h.results)
	require.NoError(h.t, err)
	resp := jsonrpc.JsonRpcResponse{Result: raw, Version: "2.0"}
	jsonBytes, err := json.MarshalIndent(resp, "", "  ")
	require.NoError(h.t, err)
	_, err = w.Write(jsonBytes)
	require.NoError(h.t, err)
}

type nextHandlerEnvelopes struct {
	http.Handler
	t         *testing.T
	envelopes []interface{}
}

func newNextHandlerEnvelopes(t *testing.T, envelopes []interface{}) http.Handler {
	return nextHandlerEnvelopes{
		t:         t,
		envelopes: envelopes,
	}
}

func (h nextHandlerEnvelopes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)

	jsonBytes, err := json.MarshalIndent(h.envelopes, "", "  ")
	require.NoError(h.t, err)
	_, err = w.Write(jsonBytes)
	require.NoError(h.t, err)
}

func emptyVisitors() {
	mtx.Lock()
	defer mtx.Unlock()
	for ip := range visitors {
		delete(visitors, ip)
	}
}
