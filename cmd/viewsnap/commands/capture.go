package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/viewsnap/viewsnap/internal/capture"
	"github.com/viewsnap/viewsnap/internal/config"
	"github.com/viewsnap/viewsnap/internal/element"
	"github.com/viewsnap/viewsnap/internal/finder"
	"github.com/viewsnap/viewsnap/internal/frame"
	"github.com/viewsnap/viewsnap/internal/logger"
	"github.com/viewsnap/viewsnap/internal/permission"
	"github.com/viewsnap/viewsnap/internal/readiness"
	"github.com/viewsnap/viewsnap/internal/sim"
	"github.com/viewsnap/viewsnap/internal/storage"
	"github.com/viewsnap/viewsnap/internal/strategy"
)

var (
	captureElementID string
	captureFormat    string
	captureQuality   int
	captureOut       string
	captureName      string
	captureNoBg      bool
	captureDelayMs   int
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture an element of the demo screen to a file",
	Long: `Capture renders the built-in demo view tree, resolves the target element
(explicitly by id, or auto-detected), runs it through the capture
pipeline and persists the frame.`,
	Example: `  # Auto-detect the best element and save a PNG
  viewsnap capture

  # Capture the web content element as JPEG
  viewsnap capture --element page --format jpeg --quality 80

  # Capture a hardware surface with a longer stabilization delay
  viewsnap capture --element feed --delay-ms 500`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureElementID, "element", "", "element id to capture (default: auto-detect)")
	captureCmd.Flags().StringVar(&captureFormat, "format", "", "output format: png, jpeg or webp")
	captureCmd.Flags().IntVar(&captureQuality, "quality", 0, "encoder quality 0-100 (lossy formats)")
	captureCmd.Flags().StringVar(&captureOut, "out", "", "output directory")
	captureCmd.Flags().StringVar(&captureName, "name", "", "output file name (default: generated)")
	captureCmd.Flags().BoolVar(&captureNoBg, "no-background", false, "skip the element background fill")
	captureCmd.Flags().IntVar(&captureDelayMs, "delay-ms", -1, "stabilization delay before surface snapshots")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}
	appCfg := configMgr.Get()
	logger.Init(appCfg.LogLevel, true)

	format := appCfg.Format
	if captureFormat != "" {
		format = captureFormat
	}
	parsedFormat, err := storage.ParseFormat(format)
	if err != nil {
		return err
	}

	quality := appCfg.Quality
	if captureQuality > 0 {
		quality = captureQuality
	}
	outDir := appCfg.OutputDir
	if captureOut != "" {
		outDir = captureOut
	}
	delayMs := appCfg.StabilizationMs
	if captureDelayMs >= 0 {
		delayMs = captureDelayMs
	}

	screen := sim.NewDemoScreen()
	defer screen.Teardown()

	orch := newOrchestrator(appCfg, screen, outDir)
	defer orch.Shutdown()

	var target *element.Element
	if captureElementID != "" {
		target = findByID(screen.Root(), captureElementID)
		if target == nil {
			return fmt.Errorf("no element %q in the demo screen", captureElementID)
		}
	}

	cfg, err := capture.NewConfig().
		Format(parsedFormat).
		Quality(quality).
		SaveTo(outDir, captureName).
		IncludeBackground(!captureNoBg).
		StabilizationDelay(time.Duration(delayMs) * time.Millisecond).
		AutoRelease(true).
		Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := orch.Capture(ctx, target, cfg)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}
	fmt.Printf("Saved %s\n", result.Path)
	return nil
}

func newOrchestrator(appCfg config.Config, screen *sim.Screen, outDir string) *capture.Orchestrator {
	validator := frame.NewValidator(frame.ValidatorOptions{})
	return capture.New(capture.Options{
		Registry:  strategy.NewRegistry(validator),
		Readiness: readiness.NewValidator(appCfg.MinAlpha),
		Finder: finder.New(finder.Options{
			MaxDepth: appCfg.FinderMaxDepth,
			TTL:      time.Duration(appCfg.FinderTTLMs) * time.Millisecond,
		}),
		Store:       storage.NewFileStore(afero.NewOsFs(), outDir),
		Permissions: permission.NewStatic(outDir, true),
		Host:        screen.Ref(),
	})
}

func findByID(el *element.Element, id string) *element.Element {
	if el.ID == id {
		return el
	}
	for _, child := range el.Children() {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
