package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

// Output formats of config dump.
const (
	formatTOML = "toml"
	formatJSON = "json"
)

var errUnknownFormat = errors.New("unknown format, use toml or json")

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", formatTOML, "Output format (toml or json)")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpFormat string

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration without secrets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			out, err := dumpConfig(&c, dumpFormat)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)

			return err
		},
	}
)

func dumpConfig(c *config.Config, format string) (string, error) {
	switch format {
	case formatTOML:
		return config.DumpConfig(c)
	case formatJSON:
		return config.DumpConfigJSON(c)
	default:
		return "", errors.Wrap(errUnknownFormat, format)
	}
}
