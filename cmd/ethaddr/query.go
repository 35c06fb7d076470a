package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/loomnetwork/ethaddr/client"
)

type queryFlags struct {
	URI  string `json:"uri"`
	File string `json:"file"`
}

var rootQueryFlags queryFlags

func setQueryFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&rootQueryFlags.URI, "uri", "u", "http://127.0.0.1:8545/address", "URI of the ethaddr query service")
}

func newQueryCommand() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query [addresses]",
		Short: "Checksum addresses using a running query service",
		Example: "  ethaddr query 0x696fb0d70d4e64af8014705f00039255c55cb9aa\n" +
			"  ethaddr query --uri http://checksum.example.com:8545/address --file addresses.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := gatherAddresses(args, rootQueryFlags.File)
			if err != nil {
				return err
			}
			if len(addresses) == 0 {
				return fmt.Errorf("no addresses given, pass them as arguments or via --file")
			}
			results, err := client.NewAddrRPCClient(rootQueryFlags.URI).ChecksumAddressBatch(addresses)
			if err != nil {
				return err
			}
			for _, result := range results {
				if len(result.Error) > 0 {
					fmt.Printf("Error: %s\n", result.Error)
					continue
				}
				fmt.Printf("%s,%s\n", result.Input, result.Checksummed)
			}
			return nil
		},
	}
	setQueryFlags(queryCmd.Flags())
	queryCmd.Flags().StringVarP(&rootQueryFlags.File, "file", "f", "", "read addresses from a file, one per line")
	return queryCmd
}
