// wqscrub 在终端中拖动水质区块的时间轴
//
// 用法:
//
//	wqscrub                    # 交互式拖动
//	wqscrub dump --steps 20    # 输出进度表
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	opts    sessionOptions
	steps   int
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "wqscrub",
	Short:        "Scrub the water quality timeline in the terminal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			opts.Logger = zap.NewNop()
			return nil
		}
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		opts.Logger = logger
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if opts.Logger != nil {
			_ = opts.Logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts)
		if err != nil {
			return err
		}
		defer s.close()

		_, err = tea.NewProgram(newModel(s), tea.WithAltScreen()).Run()
		return err
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print active phases and counter text at evenly spaced progress points",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts)
		if err != nil {
			return err
		}
		defer s.close()
		return dump(cmd.OutOrStdout(), s, steps)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.MetricsPath, "metrics", "", "Metrics YAML (default: built-in registry)")
	rootCmd.PersistentFlags().StringVar(&opts.SequencePath, "sequence", "", "Sequence YAML (default: built-in layout)")
	rootCmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 1, "Particle seed")
	rootCmd.PersistentFlags().BoolVar(&opts.ReducedMotion, "reduced-motion", false, "Apply the reduced-motion fallback")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")

	dumpCmd.Flags().IntVar(&steps, "steps", 10, "Number of progress intervals")
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
