package rpc

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/posener/wstest"
	"github.com/stretchr/testify/require"

	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

var (
	tests = []struct {
		method string
		target string
		params string
	}{
		{"addr_toChecksumAddress", "ChecksumAddress", `"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"`},
		{"addr_toChecksumAddressBatch", "ChecksumAddressBatch", `["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"]`},
		{"addr_isChecksumAddress", "ValidateAddress", `"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"`},
		{"addr_version", "Version", ``},
	}
)

func TestJsonRpcHandler(t *testing.T) {
	log.Setup("debug", "file://-")
	testlog = log.Root.With("module", "query-server")

	t.Run("Http JSON-RPC", testHttpJsonHandler)
	t.Run("Http JSON-RPC batch", testBatchHttpJsonHandler)
	t.Run("Http JSON-RPC notification", testNotificationHttpJsonHandler)
	t.Run("Multi Websocket JSON-RPC", testMultipleWebsocketConnections)
	t.Run("Single Websocket JSON-RPC", testSingleWebsocketConnections)
}

func testHttpJsonHandler(t *testing.T) {
	qs := &MockQueryService{}
	handler := MakeQueryServiceHandler(qs, testlog, nil)

	for _, test := range tests {
		payload := `{"jsonrpc":"2.0","method":"` + test.method + `","params":[` + test.params + `],"id":99}`
		req := httptest.NewRequest("POST", "http://localhost/address", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, 200, rec.Result().StatusCode)
		require.Equal(t, test.target, qs.MethodsCalled[0])

		// A single request comes back as a single response object.
		var resp jsonrpc.JsonRpcResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "2.0", resp.Version)
		require.Equal(t, "99", string(*resp.ID))
	}
}

func testBatchHttpJsonHandler(t *testing.T) {
	qs := &MockQueryService{}
	handler := MakeQueryServiceHandler(qs, testlog, nil)

	blockPayload := "["
	first := true
	for _, test := range tests {
		if !first {
			blockPayload += ","
		}
		blockPayload += `{"jsonrpc":"2.0","method":"` + test.method + `","params":[` + test.params + `],"id":99}`
		first = false
	}
	blockPayload += "]"
	req := httptest.NewRequest("POST", "http://localhost/address", strings.NewReader(blockPayload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Result().StatusCode)
	for i, test := range tests {
		require.Equal(t, test.target, qs.MethodsCalled[len(qs.MethodsCalled)-1-i])
	}

	// A batch comes back as an array of responses.
	var resps []jsonrpc.JsonRpcResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resps))
	require.Len(t, resps, len(tests))
}

func testNotificationHttpJsonHandler(t *testing.T) {
	qs := &MockQueryService{}
	handler := MakeQueryServiceHandler(qs, testlog, nil)

	payload := `{"jsonrpc":"2.0","method":"addr_toChecksumAddress","params":["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"]}`
	req := httptest.NewRequest("POST", "http://localhost/address", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Result().StatusCode)

	// The method runs but a request without an id gets no reply.
	require.Equal(t, "ChecksumAddress", qs.MethodsCalled[0])
	require.Empty(t, rec.Body.Bytes())
}

func testMultipleWebsocketConnections(t *testing.T) {
	hub := newHub()
	go hub.run()
	qs := &MockQueryService{}
	handler := MakeQueryServiceHandler(qs, testlog, hub)
	conns := []*websocket.Conn{}
	for _, test := range tests {
		dialer := wstest.NewDialer(handler)
		conn, _, err := dialer.Dial("ws://localhost/address", nil)
		conns = append(conns, conn)
		require.NoError(t, err)

		payload := `{"jsonrpc":"2.0","method":"` + test.method + `","params":[` + test.params + `],"id":99}`
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	}
	time.Sleep(time.Second)

	qs.mutex.RLock()
	require.Equal(t, len(tests), len(qs.MethodsCalled))
	for _, test := range tests {
		found := false
		for _, method := range qs.MethodsCalled {
			if test.target == method {
				found = true
				break
			}
		}
		require.True(t, found)
	}
	qs.mutex.RUnlock()

	for _, conn := range conns {
		require.NoError(t, conn.Close())
	}
}

func testSingleWebsocketConnections(t *testing.T) {
	hub := newHub()
	go hub.run()
	qs := &MockQueryService{}
	handler := MakeQueryServiceHandler(qs, testlog, hub)
	dialer := wstest.NewDialer(handler)
	conn, _, err := dialer.Dial("ws://localhost/address", nil)
	require.NoError(t, err)
	writeMutex := &sync.Mutex{}
	var wg sync.WaitGroup
	for _, test := range tests {
		payload := `{"jsonrpc":"2.0","method":"` + test.method + `","params":[` + test.params + `],"id":99}`
		wg.Add(1)
		go func() {
			defer wg.Done()
			writeMutex.Lock()
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
			writeMutex.Unlock()
		}()
	}
	wg.Wait()
	time.Sleep(time.Second)

	qs.mutex.RLock()
	require.Equal(t, len(tests), len(qs.MethodsCalled))
	for _, test := range tests {
		found := false
		for _, method := range qs.MethodsCalled {
			if test.target == method {
				found = true
				break
			}
		}
		require.True(t, found)
	}
	qs.mutex.RUnlock()
	require.NoError(t, conn.Close())
}
