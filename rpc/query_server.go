package rpc

import (
	"strings"

	"github.com/loomnetwork/ethaddr"
	"github.com/loomnetwork/ethaddr/log"
)

// BatchResult holds the outcome for one entry of a batch conversion. Exactly
// one of Checksummed or Error is set.
type BatchResult struct {
	Input       string `json:"input"`
	Checksummed string `json:"checksummed,omitempty"`
	Error       string `json:"error,omitempty"`
}

// QueryServer provides the ability to checksum and validate Ethereum addresses
// via RPC.
//
// An address can be converted via a POST request of a JSON-RPC 2.0 object to
// the "/address" endpoint:
//   {
//     "jsonrpc": "2.0",
//     "method": "addr_toChecksumAddress",
//     "params": ["0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"],
//     "id": "123456789"
//   }
//
// The JSON-RPC 2.0 response object carries the checksummed address:
//   {
//     "result": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
//     "jsonrpc": "2.0",
//     "id": "123456789"
//   }
//
// On error the JSON-RPC 2.0 response object will look similar to this:
//   {
//     "jsonrpc": "2.0",
//     "id": "123456789",
//     "error": {
//       "code": -32000,
//       "message": "Server error",
//       "data": "ethaddr error: got 2 characters: invalid Ethereum address format, must be 40 hexadecimal characters"
//     }
//   }
//
// Batches of addresses go through addr_toChecksumAddressBatch, which converts
// each entry independently and reports per entry errors inline instead of
// failing the whole call. addr_isChecksumAddress checks an already formatted
// address against its expected checksum encoding.
type QueryServer struct {
	Logger log.Logger
}

var _ QueryService = &QueryServer{}

// ChecksumAddress converts an address to the mixed-case checksum encoding.
// The input may carry a lowercase 0x prefix, the result always does.
func (s *QueryServer) ChecksumAddress(address string) (string, error) {
	body := strings.TrimPrefix(address, "0x")
	s.log().Debug("checksum address", "address", body, "length", len(body))
	return ethaddr.ChecksumAddress(address)
}

// ChecksumAddressBatch converts each address of the batch, collecting per
// entry failures instead of aborting.
func (s *QueryServer) ChecksumAddressBatch(addresses []string) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(addresses))
	for _, address := range addresses {
		checksummed, err := s.ChecksumAddress(address)
		if err != nil {
			results = append(results, BatchResult{Input: address, Error: err.Error()})
			continue
		}
		results = append(results, BatchResult{Input: address, Checksummed: checksummed})
	}
	return results, nil
}

// ValidateAddress reports whether the address already carries the correct
// checksum encoding. Addresses that are not 40 hex characters return an error
// rather than false.
func (s *QueryServer) ValidateAddress(address string) (bool, error) {
	return ethaddr.IsChecksumAddress(address)
}

func (s *QueryServer) Version() (string, error) {
	return ethaddr.FullVersion(), nil
}

func (s *QueryServer) log() log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default
}
