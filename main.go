package main

import (
	"fmt"
	"os"

	"github.com/decker502/wqscroll/pkg/app"
	"github.com/decker502/wqscroll/pkg/config"
	"github.com/decker502/wqscroll/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose       bool
	reducedMotion bool
	metricsPath   string
	sequencePath  string
	watch         bool
	seed          uint64
)

var rootCmd = &cobra.Command{
	Use:   "wqscroll",
	Short: "Scroll-driven water quality showcase",
	Long: `wqscroll renders a pinned, scroll-scrubbed water quality section.

Scroll with the mouse wheel, arrow keys or PageUp/PageDown.
Press M to toggle reduced motion and F11 for fullscreen.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if watch && metricsPath == "" {
			return fmt.Errorf("--watch requires --metrics")
		}

		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		embedded.Init(dataFS)

		a, err := app.NewApp(app.Config{
			Verbose:       verbose,
			ReducedMotion: reducedMotion,
			MetricsPath:   metricsPath,
			SequencePath:  sequencePath,
			Watch:         watch,
			Seed:          seed,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
		ebiten.SetWindowTitle("What's really in your water?")
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetTPS(config.TPS)

		runErr := ebiten.RunGame(a)
		if err := a.Close(); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
		return runErr
	},
}

// newLogger 默认不输出日志，--verbose 时输出调试日志
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return cfg.Build()
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and the on-screen HUD")
	rootCmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "Skip all animation and show the final state")
	rootCmd.Flags().StringVar(&metricsPath, "metrics", "", "Metrics YAML on disk (default: embedded data/metrics.yaml)")
	rootCmd.Flags().StringVar(&sequencePath, "sequence", "", "Sequence YAML on disk (default: embedded data/sequence.yaml)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Reload --metrics when the file changes")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "Particle seed (0 = random)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
