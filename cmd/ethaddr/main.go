package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/loomnetwork/ethaddr"
	"github.com/loomnetwork/ethaddr/config"
)

var RootCmd = &cobra.Command{
	Use:          "ethaddr",
	Short:        "Ethereum address checksum tool and query service",
	SilenceUsage: true,
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the ethaddr version",
		RunE: func(cmd *cobra.Command, args []string) error {
			println(ethaddr.FullVersion())
			return nil
		},
	}
}

func printEnv(env map[string]string) {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		val := env[key]
		fmt.Printf("%s = %s\n", key, val)
	}
}

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show ethaddr config settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ParseConfig()
			if err != nil {
				return err
			}

			printEnv(map[string]string{
				"version":         ethaddr.FullVersion(),
				"build":           ethaddr.Build,
				"git sha":         ethaddr.GitSHA,
				"bind address":    cfg.BindAddress,
				"log level":       cfg.LogLevel,
				"log destination": cfg.LogDestination,
			})
			return nil
		},
	}
}

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configs",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := "ethaddr.yml"
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
			}
			cfg := config.DefaultConfig()
			if err := cfg.WriteToFile(configPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func main() {
	RootCmd.AddCommand(
		newVersionCommand(),
		newEnvCommand(),
		newInitCommand(),
		newChecksumCommand(),
		newValidateCommand(),
		newQueryCommand(),
		newServeCommand(),
	)

	err := RootCmd.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
