package main

import (
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <request.yaml>",
	Short: "Run every section of a request file",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, args []string) error {
	cfg := loadSettings()
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	req, err := loadRequest(args[0])
	if err != nil {
		return err
	}
	report, err := engine.Run(req)
	if err != nil {
		return err
	}
	return emit(cfg, report)
}
