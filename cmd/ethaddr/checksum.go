package main

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomnetwork/ethaddr"
)

type checksumFlags struct {
	File  string `json:"file"`
	Quiet bool   `json:"quiet"`
}

func newChecksumCommand() *cobra.Command {
	var flags checksumFlags
	checksumCmd := &cobra.Command{
		Use:   "checksum [addresses]",
		Short: "Convert addresses to their mixed-case checksum form",
		Example: "  ethaddr checksum 0x696fb0d70d4e64af8014705f00039255c55cb9aa\n" +
			"  ethaddr checksum --file addresses.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := gatherAddresses(args, flags.File)
			if err != nil {
				return err
			}
			if len(addresses) == 0 {
				return fmt.Errorf("no addresses given, pass them as arguments or via --file")
			}
			for _, address := range addresses {
				checksummed, err := ethaddr.ChecksumAddress(address)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				if flags.Quiet {
					fmt.Println(checksummed)
				} else {
					fmt.Printf("%s,%s\n", address, checksummed)
				}
			}
			return nil
		},
	}
	checksumCmd.Flags().StringVarP(&flags.File, "file", "f", "", "read addresses from a file, one per line")
	checksumCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "print only the checksummed addresses")
	return checksumCmd
}

func newValidateCommand() *cobra.Command {
	var file string
	validateCmd := &cobra.Command{
		Use:   "validate [addresses]",
		Short: "Check that addresses carry the correct checksum casing",
		Example: "  ethaddr validate 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed\n" +
			"  ethaddr validate --file addresses.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := gatherAddresses(args, file)
			if err != nil {
				return err
			}
			if len(addresses) == 0 {
				return fmt.Errorf("no addresses given, pass them as arguments or via --file")
			}
			failed := 0
			for _, address := range addresses {
				valid, err := ethaddr.IsChecksumAddress(address)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					failed++
					continue
				}
				if valid {
					fmt.Printf("%s valid\n", address)
				} else {
					fmt.Printf("%s invalid\n", address)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d addresses failed validation", failed, len(addresses))
			}
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&file, "file", "f", "", "read addresses from a file, one per line")
	return validateCmd
}

func gatherAddresses(args []string, file string) ([]string, error) {
	addresses := append([]string{}, args...)
	if len(file) > 0 {
		data, err := ioutil.ReadFile(file)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if len(line) > 0 {
				addresses = append(addresses, line)
			}
		}
	}
	return addresses, nil
}
