package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/loomnetwork/ethaddr/rpc/jsonrpc"
)

// Implements the AddrClient interface via JSON-RPC 2.0 over HTTP.
type AddrRPCClient struct {
	url    string
	client *http.Client
	nextID uint64
}

// NewAddrRPCClient creates a client for the query service listening at url,
// e.g. "http://127.0.0.1:8545/address".
func NewAddrRPCClient(url string) *AddrRPCClient {
	return &AddrRPCClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ AddrClient = &AddrRPCClient{}

func (c *AddrRPCClient) ChecksumAddress(address string) (string, error) {
	var result string
	if err := c.Call("addr_toChecksumAddress", []interface{}{address}, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (c *AddrRPCClient) ChecksumAddressBatch(addresses []string) ([]BatchResult, error) {
	var results []BatchResult
	if err := c.Call("addr_toChecksumAddressBatch", []interface{}{addresses}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *AddrRPCClient) IsChecksumAddress(address string) (bool, error) {
	var result bool
	if err := c.Call("addr_isChecksumAddress", []interface{}{address}, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (c *AddrRPCClient) Version() (string, error) {
	var result string
	if err := c.Call("addr_version", nil, &result); err != nil {
		return "", err
	}
	return result, nil
}

type callResponse struct {
	Result  json.RawMessage  `json:"result"`
	Error   *jsonrpc.Error   `json:"error"`
	Version string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
}

// Call performs a single JSON-RPC 2.0 request and unmarshals the result into
// result, which must be a pointer. Server side failures come back as errors
// carrying the code, message and data of the JSON-RPC error object.
func (c *AddrRPCClient) Call(method string, params []interface{}, result interface{}) error {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "failed to marshal params")
	}
	id := json.RawMessage(strconv.FormatUint(atomic.AddUint64(&c.nextID, 1), 10))
	reqBytes, err := json.Marshal(jsonrpc.JsonRpcRequest{
		Version: "2.0",
		Method:  method,
		Params:  paramsBytes,
		ID:      &id,
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	httpResp, err := c.client.Post(c.url, "application/json", bytes.NewReader(reqBytes))
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", c.url)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %s calling %s", httpResp.Status, c.url)
	}

	var resp callResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return errors.Wrap(err, "failed to unmarshal response")
	}
	if resp.Error != nil {
		return errors.Errorf("RPC error %d - %s: %v", resp.Error.Code, resp.Error.Message, resp.Error.Data)
	}
	if resp.ID == nil || string(*resp.ID) != string(id) {
		return errors.Errorf("response id mismatch, sent %s", string(id))
	}
	if result == nil {
		return nil
	}
	return errors.Wrap(json.Unmarshal(resp.Result, result), "failed to unmarshal result")
}
