package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdrpinto/lpastar"
	"github.com/pdrpinto/lpastar/internal/scenario"
	"github.com/pdrpinto/lpastar/internal/telemetry"
)

// debounce groups the burst of events an editor produces on save.
const debounce = 100 * time.Millisecond

func newWatchCommand(a *app) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "watch <scenario.yaml>",
		Short: "Replan incrementally each time the scenario file changes",
		Long: `watch plans the scenario once, then keeps the planner session alive and
repairs the path whenever the file is saved. Only cells that changed near
the start or along the previous path are re-examined, so small edits are
cheap. Changing the grid size starts a fresh session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &watcher{app: a, path: args[0], out: cmd.OutOrStdout(), opts: opts}
			return w.run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print each result as JSON")
	cmd.Flags().BoolVar(&opts.render, "render", true, "draw the grid with the path")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "mark expanded cells when rendering")
	return cmd
}

type watcher struct {
	*app
	path    string
	out     io.Writer
	opts    *planOptions
	planner *lpastar.Planner
}

func (w *watcher) run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files on save, which drops a
	// watch on the file itself.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	if err := w.replan(ctx); err != nil {
		w.logger.Error("initial plan failed", slog.String("error", err.Error()))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return fsw.Close()
	})
	g.Go(func() error {
		return w.loop(ctx, fsw)
	})
	if handler := telemetry.MetricsHandler(); handler != nil {
		srv := &http.Server{Addr: w.cfg.Telemetry.MetricsAddr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			w.logger.Info("serving metrics", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.WithoutCancel(ctx))
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (w *watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) error {
	target := filepath.Clean(w.path)
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
				continue
			}
			timer = time.After(debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		case <-timer:
			timer = nil
			if err := w.replan(ctx); err != nil {
				w.logger.Error("replan failed", slog.String("error", err.Error()))
			}
		}
	}
}

// replan reloads the scenario and runs the next planning call on the
// session. A planner that reported an invariant violation is reset first.
func (w *watcher) replan(ctx context.Context) error {
	s, err := scenario.Load(w.path)
	if err != nil {
		return err
	}
	if w.planner == nil || w.planner.Width() != s.Width || w.planner.Height() != s.Height {
		if w.planner, err = w.newPlanner(s); err != nil {
			return err
		}
	}

	result, err := w.planner.Plan(ctx, s.Costmap(), s.Start.Cell(), s.Goal.Cell())
	switch {
	case errors.Is(err, lpastar.ErrInvariantViolation):
		w.planner.Reset()
		return err
	case err != nil && !errors.Is(err, lpastar.ErrNoPathFound):
		return err
	}
	return printResult(w.out, s, result, w.cfg.Planner.LethalCost, w.opts)
}
