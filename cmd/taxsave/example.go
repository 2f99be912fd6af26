package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/config"
)

var flagExampleTOML bool

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an example request file",
	Args:  cobra.NoArgs,
	RunE:  runExample,
}

func init() {
	exampleCmd.Flags().BoolVar(&flagExampleTOML, "toml", false, "Emit TOML instead of YAML")
	rootCmd.AddCommand(exampleCmd)
}

func runExample(_ *cobra.Command, _ []string) error {
	asOf, err := referenceDate()
	if err != nil {
		return err
	}

	parser := config.NewInputParser()
	format := config.FormatYAML
	if flagExampleTOML {
		format = config.FormatTOML
	}
	data, err := parser.MarshalRequest(parser.CreateExampleRequest(asOf), format)
	if err != nil {
		return err
	}

	if flagOutput != "" {
		return os.WriteFile(flagOutput, data, 0644)
	}
	_, err = stdout.Write(data)
	return err
}
