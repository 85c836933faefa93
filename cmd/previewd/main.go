// previewd is the standalone preview daemon: the demo view tree plus
// the preview API server, without the CLI wrapping.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/viewsnap/viewsnap/internal/api"
	"github.com/viewsnap/viewsnap/internal/capture"
	"github.com/viewsnap/viewsnap/internal/config"
	"github.com/viewsnap/viewsnap/internal/finder"
	"github.com/viewsnap/viewsnap/internal/frame"
	"github.com/viewsnap/viewsnap/internal/logger"
	"github.com/viewsnap/viewsnap/internal/permission"
	"github.com/viewsnap/viewsnap/internal/readiness"
	"github.com/viewsnap/viewsnap/internal/sim"
	"github.com/viewsnap/viewsnap/internal/storage"
	"github.com/viewsnap/viewsnap/internal/strategy"
)

func main() {
	configMgr, err := config.NewManager("")
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize config manager")
	}
	appCfg := configMgr.Get()
	logger.Init(appCfg.LogLevel, true)
	log := logger.WithComponent("previewd")

	screen := sim.NewDemoScreen()
	defer screen.Teardown()

	validator := frame.NewValidator(frame.ValidatorOptions{})
	orch := capture.New(capture.Options{
		Registry:  strategy.NewRegistry(validator),
		Readiness: readiness.NewValidator(appCfg.MinAlpha),
		Finder: finder.New(finder.Options{
			MaxDepth: appCfg.FinderMaxDepth,
			TTL:      time.Duration(appCfg.FinderTTLMs) * time.Millisecond,
		}),
		Store:       storage.NewFileStore(afero.NewOsFs(), appCfg.OutputDir),
		Permissions: permission.NewStatic(appCfg.OutputDir, true),
		Host:        screen.Ref(),
	})
	defer orch.Shutdown()

	server := api.NewServer(orch, screen, configMgr)
	go func() {
		if err := server.Start(appCfg.ServerPort); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	log.Info().Int("port", appCfg.ServerPort).Msg("previewd is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down")
}
