package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomsentry/tax-savings-tool/internal/calculation"
	"github.com/tomsentry/tax-savings-tool/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculators over HTTP",
	Long: `Serve the calculators over HTTP. The listen address comes from --addr,
then TAXSAVE_ADDR, then the settings file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address, e.g. :8080")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadSettings()
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	addr := flagAddr
	if addr == "" {
		addr = cfg.ListenAddr()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(engine, serverLogger()).ListenAndServe(ctx, addr)
}

// serverLogger always logs startup and failures; --verbose adds debug lines
func serverLogger() calculation.Logger {
	return calculation.NewStdLogger(os.Stderr, flagVerbose)
}
