// Package cli implements the lpaplan command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/lpastar"
	"github.com/pdrpinto/lpastar/internal/config"
	"github.com/pdrpinto/lpastar/internal/logging"
	"github.com/pdrpinto/lpastar/internal/scenario"
	"github.com/pdrpinto/lpastar/internal/telemetry"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgFile  string
	cfg      *config.Config
	logger   *slog.Logger
	shutdown telemetry.ShutdownFunc
}

// NewRootCommand builds the lpaplan command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "lpaplan",
		Short: "Incremental LPA* grid planner",
		Long: `lpaplan plans paths over grid costmaps with Lifelong Planning A*.

Scenarios are YAML files holding the grid, start, goal and costmap. The
watch command keeps one planner session alive and repairs the path each
time the scenario file changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(context.WithoutCancel(cmd.Context()))
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/lpaplan/config.yaml)")

	root.AddCommand(newPlanCommand(a), newWatchCommand(a))
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) init(ctx context.Context, stderr io.Writer) error {
	cfg, err := config.Load(config.NewViper(a.cfgFile))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format)

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.MetricExporter)
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

// newPlanner builds a planner for s from the loaded configuration. The
// scenario's resolution wins over the configured one.
func (a *app) newPlanner(s *scenario.Scenario) (*lpastar.Planner, error) {
	resolution := a.cfg.Planner.Resolution
	if s.Resolution > 0 {
		resolution = s.Resolution
	}
	p, err := lpastar.NewPlanner(s.Width, s.Height,
		lpastar.WithResolution(resolution),
		lpastar.WithWindowSize(a.cfg.Planner.WindowSize),
		lpastar.WithLethalCost(byte(a.cfg.Planner.LethalCost)),
		lpastar.WithCostFactor(a.cfg.Planner.CostFactor),
		lpastar.WithVerifyInvariants(a.cfg.Planner.VerifyInvariants),
		lpastar.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create planner: %w", err)
	}
	return p, nil
}
