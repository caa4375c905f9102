package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/lpastar"
	"github.com/pdrpinto/lpastar/internal/scenario"
)

type planOptions struct {
	json   bool
	render bool
	expand bool
}

func newPlanCommand(a *app) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan <scenario.yaml>",
		Short: "Plan a path for a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			p, err := a.newPlanner(s)
			if err != nil {
				return err
			}
			result, err := p.Plan(cmd.Context(), s.Costmap(), s.Start.Cell(), s.Goal.Cell())
			if err != nil && !errors.Is(err, lpastar.ErrNoPathFound) {
				return err
			}
			return printResult(cmd.OutOrStdout(), s, result, a.cfg.Planner.LethalCost, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.render, "render", true, "draw the grid with the path")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "mark expanded cells when rendering")
	return cmd
}

// planOutput is the JSON shape of a plan result.
type planOutput struct {
	Found    bool           `json:"found"`
	Cost     float64        `json:"cost"`
	Path     []lpastar.Cell `json:"path"`
	Expanded int            `json:"expanded"`
}

func printResult(w io.Writer, s *scenario.Scenario, result lpastar.Result, lethal int, opts *planOptions) error {
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(planOutput{
			Found:    result.Found,
			Cost:     result.Cost,
			Path:     result.Path,
			Expanded: len(result.Expand),
		})
	}

	if result.Found {
		fmt.Fprintf(w, "path found: %d cells, cost %.3f, %d expanded\n", len(result.Path), result.Cost, len(result.Expand))
	} else {
		fmt.Fprintf(w, "no path found, %d expanded\n", len(result.Expand))
	}
	if opts.render {
		Render(w, s, result, byte(lethal), opts.expand)
	}
	return nil
}
