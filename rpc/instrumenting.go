package rpc

import (
	"fmt"
	"time"

	"github.com/go-kit/kit/metrics"
)

// InstrumentingMiddleware implements QueryService interface
type InstrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           QueryService
}

// NewInstrumentingMiddleWare return a new pointer to the struct
func NewInstrumentingMiddleWare(reqCount metrics.Counter, reqLatency metrics.Histogram, next QueryService) *InstrumentingMiddleware {
	return &InstrumentingMiddleware{
		requestCount:   reqCount,
		requestLatency: reqLatency,
		next:           next,
	}
}

// ChecksumAddress calls service ChecksumAddress and captures metrics
func (m InstrumentingMiddleware) ChecksumAddress(address string) (resp string, err error) {
	defer func(begin time.Time) {
		lvs := []string{"method", "ChecksumAddress", "error", fmt.Sprint(err != nil)}
		m.requestCount.With(lvs...).Add(1)
		m.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())

	resp, err = m.next.ChecksumAddress(address)
	return
}

// ChecksumAddressBatch calls service ChecksumAddressBatch and captures metrics
func (m InstrumentingMiddleware) ChecksumAddressBatch(addresses []string) (resp []BatchResult, err error) {
	defer func(begin time.Time) {
		lvs := []string{"method", "ChecksumAddressBatch", "error", fmt.Sprint(err != nil)}
		m.requestCount.With(lvs...).Add(1)
		m.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())

	resp, err = m.next.ChecksumAddressBatch(addresses)
	return
}

// ValidateAddress calls service ValidateAddress and captures metrics
func (m InstrumentingMiddleware) ValidateAddress(address string) (resp bool, err error) {
	defer func(begin time.Time) {
		lvs := []string{"method", "ValidateAddress", "error", fmt.Sprint(err != nil)}
		m.requestCount.With(lvs...).Add(1)
		m.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())

	resp, err = m.next.ValidateAddress(address)
	return
}

// Version calls service Version and captures metrics
func (m InstrumentingMiddleware) Version() (resp string, err error) {
	defer func(begin time.Time) {
		lvs := []string{"method", "Version", "error", fmt.Sprint(err != nil)}
		m.requestCount.With(lvs...).Add(1)
		m.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
	}(time.Now())

	resp, err = m.next.Version()
	return
}
