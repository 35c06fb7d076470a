package client

// AddrClient is the consumer side of the address checksum service.
type AddrClient interface {
	ChecksumAddress(address string) (string, error)
	ChecksumAddressBatch(addresses []string) ([]BatchResult, error)
	IsChecksumAddress(address string) (bool, error)
	Version() (string, error)
}

// BatchResult mirrors the per entry outcome returned by
// addr_toChecksumAddressBatch.
type BatchResult struct {
	Input       string `json:"input"`
	Checksummed string `json:"checksummed,omitempty"`
	Error       string `json:"error,omitempty"`
}
