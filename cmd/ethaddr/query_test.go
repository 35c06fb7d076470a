package main

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loomnetwork/ethaddr/log"
	"github.com/loomnetwork/ethaddr/rpc"
)

func TestQueryCommandAgainstService(t *testing.T) {
	log.Setup("debug", "file://-")
	logger := log.Root.With("module", "query-server")
	ts := httptest.NewServer(rpc.MakeQueryServiceHandler(&rpc.QueryServer{Logger: logger}, logger, nil))
	defer ts.Close()

	cmd := newQueryCommand()
	cmd.SetArgs([]string{"--uri", ts.URL, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"})
	require.NoError(t, cmd.Execute())

	// a batch with a malformed entry still succeeds, errors are reported per address
	cmd = newQueryCommand()
	cmd.SetArgs([]string{"--uri", ts.URL,
		"0x37D9dC70C33029967d616b805474f560E891D1",
		"0x696fb0d70d4e64aF8014705F00039255c55cb9aa",
	})
	require.NoError(t, cmd.Execute())

	// no service listening
	cmd = newQueryCommand()
	cmd.SetArgs([]string{"--uri", "http://127.0.0.1:1", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"})
	require.Error(t, cmd.Execute())
}
