package rpc

import (
	"sync"
)

// MockQueryService records the service methods called on it, most recent
// first, so handler tests can assert on dispatch without a real QueryServer.
type MockQueryService struct {
	mutex         sync.RWMutex
	MethodsCalled []string
}

var _ QueryService = &MockQueryService{}

func (m *MockQueryService) called(method string) {
	m.mutex.Lock()
	m.MethodsCalled = append([]string{method}, m.MethodsCalled...)
	m.mutex.Unlock()
}

func (m *MockQueryService) ChecksumAddress(address string) (string, error) {
	m.called("ChecksumAddress")
	return "", nil
}

func (m *MockQueryService) ChecksumAddressBatch(addresses []string) ([]BatchResult, error) {
	m.called("ChecksumAddressBatch")
	return nil, nil
}

func (m *MockQueryService) ValidateAddress(address string) (bool, error) {
	m.called("ValidateAddress")
	return false, nil
}

func (m *MockQueryService) Version() (string, error) {
	m.called("Version")
	return "", nil
}
