// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"firestige.xyz/udex/internal/config"
	"firestige.xyz/udex/internal/log"
)

var (
	// Global flags
	configFile string

	// cfg is loaded before any subcommand runs
	cfg *config.GlobalConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "udex",
	Short: "udex - measurement package decoding and signal indexing",
	Long: `udex decodes raw measurement packages (CAN, Ethernet SOME/IP and AUTOSAR, GPS,
RT-Range, reference camera, ECU software and hardware telemetry) into addressable
sub-payloads and indexes the signals of data descriptions (SDL, DBC, FIBEX, ARXML)
by URL and 64-bit fingerprint.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := log.Init(loaded.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults only when empty)")

	// Add subcommands
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(decodeCmd)
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}

// parseUint accepts decimal, 0x hexadecimal and 0o octal flag values.
func parseUint(flag, value string, bits int) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(value, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return n, nil
}
