package rpc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"github.com/loomnetwork/ethaddr"
	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

const (
	limiterPeriod   = time.Duration(60) * time.Second
	limiterCount    = 10
	CleanupInterval = time.Duration(100) * time.Minute
	TimeKeepInCache = time.Duration(5) * time.Minute

	keyVisitors = "Visitors"
)

var (
	visitors = make(map[string]*visitor)
	mtx      sync.RWMutex
)

type visitor struct {
	limiter        *limiter.Limiter
	lastInvalidReq time.Time
}

func init() {
	go cleanupVisitors()
}

func cleanupVisitors() {
	for {
		time.Sleep(CleanupInterval)
		mtx.Lock()
		for ip, v := range visitors {
			if time.Now().Sub(v.lastInvalidReq) > TimeKeepInCache {
				delete(visitors, ip)
			}
		}
		mtx.Unlock()
	}
}

func addVisitor(ip string, rate limiter.Rate) *limiter.Limiter {
	newLimiter := limiter.New(memory.NewStore(), rate)
	mtx.Lock()
	visitors[ip] = &visitor{newLimiter, time.Now()}
	mtx.Unlock()
	return newLimiter
}

func getVisitor(ip string, rate limiter.Rate) *limiter.Limiter {
	mtx.Lock()
	if visitor, exists := visitors[ip]; exists {
		visitorLimiter := visitor.limiter
		visitor.lastInvalidReq = time.Now()
		mtx.Unlock()
		return visitorLimiter
	}
	mtx.Unlock()
	return addVisitor(ip, rate)
}

func isLimitReached(ip string) (bool, error) {
	mtx.RLock()
	defer mtx.RUnlock()
	if visitor, exists := visitors[ip]; exists {
		visitorLimiter, err := visitor.limiter.Peek(context.TODO(), keyVisitors)
		return visitorLimiter.Reached, err
	}
	return false, nil
}

// limitInvalidRequests throttles clients that keep submitting strings that are
// not valid addresses. Well formed requests are never counted against the
// rate, so the limiter only slows down callers probing with garbage input.
func limitInvalidRequests(next http.Handler, rate limiter.Rate) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isWebSocketConnection(r) {
			// Websocket upgrades need the raw ResponseWriter for hijacking.
			next.ServeHTTP(w, r)
			return
		}
		ipAddr := getRealAddr(r)
		limitReached, err := isLimitReached(ipAddr)
		if err != nil {
			// The memory store cannot return an error from Peek, only redis can.
			http.Error(w, http.StatusText(400), http.StatusBadRequest)
			return
		}
		if limitReached {
			http.Error(w, http.StatusText(429), http.StatusTooManyRequests)
			return
		}
		writer := newResponseWriterWithStatus(w)

		next.ServeHTTP(writer, r)

		if writer.statusCode != http.StatusOK {
			return
		}

		if fail, _ := isInvalidAddressResponse(writer); fail {
			// Increment count for current visitor
			if _, err := getVisitor(ipAddr, rate).Get(context.TODO(), keyVisitors); err != nil {
				http.Error(w, http.StatusText(429), http.StatusTooManyRequests)
				return
			}
		}
	})
}

func getRealAddr(r *http.Request) string {
	remoteIP := ""
	// the default is the originating ip. but we try to find better options because this is almost
	// never the right IP
	if parts := strings.Split(r.RemoteAddr, ":"); len(parts) == 2 {
		remoteIP = parts[0]
	}
	// If we have a forwarded-for header, take the address from there
	if xff := strings.Trim(r.Header.Get("X-Forwarded-For"), ","); len(xff) > 0 {
		addrs := strings.Split(xff, ",")
		lastFwd := addrs[len(addrs)-1]
		if ip := net.ParseIP(lastFwd); ip != nil {
			remoteIP = ip.String()
		}
		// parse X-Real-Ip header
	} else if xri := r.Header.Get("X-Real-Ip"); len(xri) > 0 {
		if ip := net.ParseIP(xri); ip != nil {
			remoteIP = ip.String()
		}
	}

	return remoteIP
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *jsonrpc.Error  `json:"error"`
}

// isInvalidAddressResponse reports whether the last response carried an
// address format failure, either as a JSON-RPC error envelope or inside a
// batch result entry.
func isInvalidAddressResponse(writer *responseWriterWithStatus) (bool, error) {
	var envelopes []rpcEnvelope
	if err := json.Unmarshal(writer.lastWrite, &envelopes); err != nil {
		var single rpcEnvelope
		if err := json.Unmarshal(writer.lastWrite, &single); err != nil {
			return false, err
		}
		envelopes = append(envelopes, single)
	}

	for _, envelope := range envelopes {
		if envelope.Error != nil {
			if data, ok := envelope.Error.Data.(string); ok &&
				strings.Contains(data, ethaddr.ErrInvalidAddressFormat.Error()) {
				return true, nil
			}
			continue
		}
		var results []BatchResult
		if err := json.Unmarshal(envelope.Result, &results); err != nil {
			continue
		}
		for _, result := range results {
			if strings.Contains(result.Error, ethaddr.ErrInvalidAddressFormat.Error()) {
				return true, nil
			}
		}
	}
	return false, nil
}

type responseWriterWithStatus struct {
	http.ResponseWriter
	statusCode int
	lastWrite  []byte
}

func newResponseWriterWithStatus(w http.ResponseWriter) *responseWriterWithStatus {
	return &responseWriterWithStatus{w, http.StatusOK, []byte{}}
}

func (rwws *responseWriterWithStatus) WriteHeader(code int) {
	rwws.statusCode = code
	rwws.ResponseWriter.WriteHeader(code)
}

func (rwws *responseWriterWithStatus) Write(data []byte) (int, error) {
	rwws.lastWrite = data
	return rwws.ResponseWriter.Write(data)
}
