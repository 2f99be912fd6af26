package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/config"
	"github.com/tomsentry/tax-savings-tool/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file if none exists",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadSettings()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "  Settings file: %s\n", config.SettingsPath())
	if _, err := os.Stat(config.SettingsPath()); err == nil {
		fmt.Fprintln(stdout, "  Status: loaded")
	} else {
		fmt.Fprintln(stdout, "  Status: using defaults (no settings file)")
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "  [output]")
	fmt.Fprintf(stdout, "    Format: %s\n", cfg.Output.Format)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "  [server]")
	fmt.Fprintf(stdout, "    Listen address: %s\n", cfg.ListenAddr())
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "  [tax]")
	if len(cfg.Tax.Brackets) == 0 {
		fmt.Fprintln(stdout, "    Brackets: default schedule")
		return nil
	}
	for _, line := range output.GenerateAssumptions(cfg.Tax.Brackets)[:len(cfg.Tax.Brackets)] {
		fmt.Fprintf(stdout, "    %s\n", line)
	}
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := config.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings file %s already exists", path)
	}
	if err := config.SaveSettings(config.DefaultSettings()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "  Wrote %s\n", path)
	return nil
}
