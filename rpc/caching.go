package rpc

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/loomnetwork/ethaddr"
)

// CachingMiddleware memoizes checksum conversions behind an LRU. Conversion
// is a pure function of the address body, so entries never have to be
// invalidated, old ones just fall out of the cache.
type CachingMiddleware struct {
	cache *lru.Cache
	next  QueryService
}

func NewCachingMiddleware(maxKeys int, next QueryService) (*CachingMiddleware, error) {
	cache, err := lru.New(maxKeys)
	if err != nil {
		return nil, err
	}
	return &CachingMiddleware{
		cache: cache,
		next:  next,
	}, nil
}

// ChecksumAddress serves the conversion from the cache when the address body
// has been seen before, in any casing and with or without the 0x prefix.
func (m *CachingMiddleware) ChecksumAddress(address string) (string, error) {
	key, err := ethaddr.NormalizeAddress(address)
	if err != nil {
		// Malformed input has no canonical key and never reaches the cache.
		return m.next.ChecksumAddress(address)
	}

	if cacheData, ok := m.cache.Get(key); ok {
		return cacheData.(string), nil
	}

	checksummed, err := m.next.ChecksumAddress(address)
	if err != nil {
		return "", err
	}
	m.cache.Add(key, checksummed)
	return checksummed, nil
}

// ChecksumAddressBatch converts each entry through the cache.
func (m *CachingMiddleware) ChecksumAddressBatch(addresses []string) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(addresses))
	for _, address := range addresses {
		checksummed, err := m.ChecksumAddress(address)
		if err != nil {
			results = append(results, BatchResult{Input: address, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{Input: address, Checksummed: checksummed})
	}
	return results, nil
}

// ValidateAddress answers from the cache when the conversion for the address
// body is already known: the address is valid exactly when its body matches
// the cached checksummed body.
func (m *CachingMiddleware) ValidateAddress(address string) (bool, error) {
	key, err := ethaddr.NormalizeAddress(address)
	if err != nil {
		return m.next.ValidateAddress(address)
	}

	if cacheData, ok := m.cache.Get(key); ok {
		cached := cacheData.(string)
		return strings.TrimPrefix(address, "0x") == strings.TrimPrefix(cached, "0x"), nil
	}
	return m.next.ValidateAddress(address)
}

func (m *CachingMiddleware) Version() (string, error) {
	return m.next.Version()
}
