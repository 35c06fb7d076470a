package client

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomnetwork/ethaddr"
	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc"
)

func TestAddrRPCClient(t *testing.T) {
	log.Setup("debug", "file://-")
	testlog := log.Root.With("module", "query-server")

	handler := rpc.MakeQueryServiceHandler(&rpc.QueryServer{Logger: testlog}, testlog, nil)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	c := NewAddrRPCClient(ts.URL)

	t.Run("checksum address", func(t *testing.T) {
		got, err := c.ChecksumAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
		require.NoError(t, err)
		require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", got)
	})

	t.Run("checksum address rejects malformed input", func(t *testing.T) {
		_, err := c.ChecksumAddress("0x123")
		require.Error(t, err)
		require.Contains(t, err.Error(), ethaddr.ErrInvalidAddressFormat.Error())
	})

	t.Run("checksum address batch", func(t *testing.T) {
		addresses := []string{
			"0x37D9dC70C33029967d616b805474f560E891D1",
			"0x696fb0d70d4e64aF8014705F00039255c55cb9aa",
			"0x47Fb2585D2C56Fe188D0E6ec628a38B74fCeeeDf",
		}
		results, err := c.ChecksumAddressBatch(addresses)
		require.NoError(t, err)
		require.Len(t, results, 3)

		require.Equal(t, addresses[0], results[0].Input)
		require.Empty(t, results[0].Checksummed)
		require.Contains(t, results[0].Error, ethaddr.ErrInvalidAddressFormat.Error())

		for i := 1; i < 3; i++ {
			require.Equal(t, addresses[i], results[i].Input)
			require.Empty(t, results[i].Error)
			require.Equal(t, ethaddr.MustChecksumAddress(addresses[i]), results[i].Checksummed)
		}
	})

	t.Run("is checksum address", func(t *testing.T) {
		valid, err := c.IsChecksumAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
		require.NoError(t, err)
		require.True(t, valid)

		valid, err = c.IsChecksumAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("version", func(t *testing.T) {
		version, err := c.Version()
		require.NoError(t, err)
		require.Equal(t, ethaddr.FullVersion(), version)
	})

	t.Run("unknown method", func(t *testing.T) {
		err := c.Call("addr_bogus", nil, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "-32601")
	})
}
