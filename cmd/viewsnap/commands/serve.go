package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viewsnap/viewsnap/internal/api"
	"github.com/viewsnap/viewsnap/internal/config"
	"github.com/viewsnap/viewsnap/internal/logger"
	"github.com/viewsnap/viewsnap/internal/sim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ViewSnap preview server",
	Long: `Serve starts the preview HTTP server over the demo view tree.

The server exposes element inspection, on-demand capture, the latest
frame as PNG and a websocket frame stream.`,
	Example: `  # Start on the default port (8080)
  viewsnap serve

  # Start on a custom port with debug logging
  viewsnap serve --port 9090 --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}

	if viper.IsSet("server_port") {
		if port := viper.GetInt("server_port"); port > 0 {
			configMgr.SetPort(port)
		}
	}
	if viper.IsSet("log_level") {
		if level := viper.GetString("log_level"); level != "" {
			configMgr.SetLogLevel(level)
		}
	}

	appCfg := configMgr.Get()
	logger.Init(appCfg.LogLevel, true)
	log := logger.WithComponent("serve")

	screen := sim.NewDemoScreen()
	defer screen.Teardown()

	orch := newOrchestrator(appCfg, screen, appCfg.OutputDir)
	defer orch.Shutdown()

	server := api.NewServer(orch, screen, configMgr)
	go func() {
		if err := server.Start(appCfg.ServerPort); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	log.Info().Int("port", appCfg.ServerPort).Msg("ViewSnap preview server is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down")
	return nil
}
